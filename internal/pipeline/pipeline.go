// Package pipeline turns loaded orders into a purchase matrix ready for
// recommendation queries.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/KaramelBytes/alsobought-cli/internal/buyer"
	"github.com/KaramelBytes/alsobought-cli/internal/metrics"
	"github.com/KaramelBytes/alsobought-cli/internal/orders"
	"github.com/KaramelBytes/alsobought-cli/internal/purchase"
	"github.com/KaramelBytes/alsobought-cli/internal/recommend"
)

// ErrNoRepeatBuyers means nothing is left to correlate after filtering.
var ErrNoRepeatBuyers = errors.New("no buyer with repeat orders")

// Options controls matrix construction.
type Options struct {
	// TopItems bounds the matrix width.
	TopItems int
	// MinBuyerOrders is the number of order rows a buyer needs to be kept.
	MinBuyerOrders int
	MissingBuyer   buyer.MissingPolicy
	// BareUsernames accepts buyer cells that already hold a plain username,
	// so a previously normalized export reads back unchanged.
	BareUsernames bool
}

// DefaultOptions keeps the top 50 items and buyers with more than one order.
func DefaultOptions() Options {
	return Options{TopItems: 50, MinBuyerOrders: 2, MissingBuyer: buyer.Drop}
}

// Stats describes what each stage kept.
type Stats struct {
	Orders int `json:"orders"`
	// MissingBuyer counts rows without a username, dropped or bucketed.
	MissingBuyer int `json:"missing_buyer"`
	MissingItem  int `json:"missing_item"`
	Buyers       int `json:"buyers"`
	RepeatBuyers int `json:"repeat_buyers"`
	Items        int `json:"items"`
	TopItems     int `json:"top_items"`
}

// Model is the result of one pipeline run. It is read-only and safe for
// concurrent queries.
type Model struct {
	Matrix  *purchase.Matrix
	Items   []purchase.ItemStat
	Stats   Stats
	Options Options
	buyers  *buyer.Encoder
}

// Build runs normalization, the repeat-buyer filter, top-N selection and the
// pivot. ctx is checked between stages.
func Build(ctx context.Context, in []orders.Order, opt Options) (*Model, error) {
	start := time.Now()
	m, err := build(ctx, in, opt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.PipelineRunsTotal.WithLabelValues(status).Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.OrdersWithoutBuyer.WithLabelValues(string(m.Options.MissingBuyer)).Add(float64(m.Stats.MissingBuyer))
	if err != nil {
		return nil, err
	}
	return m, nil
}

func build(ctx context.Context, in []orders.Order, opt Options) (*Model, error) {
	def := DefaultOptions()
	if opt.TopItems <= 0 {
		opt.TopItems = def.TopItems
	}
	if opt.MinBuyerOrders <= 0 {
		opt.MinBuyerOrders = def.MinBuyerOrders
	}
	if opt.MissingBuyer == "" {
		opt.MissingBuyer = def.MissingBuyer
	}

	model := &Model{Options: opt, buyers: buyer.NewEncoder()}
	st := &model.Stats
	st.Orders = len(in)

	normalize := buyer.Normalize
	if opt.BareUsernames {
		normalize = buyer.NormalizeUsername
	}

	// Rows without an item still count towards the buyer's order total.
	rows := make([]purchase.Row, 0, len(in))
	items := make(map[string]struct{})
	for _, o := range in {
		name, ok := normalize(o.Buyer)
		if !ok {
			st.MissingBuyer++
		}
		name, ok = opt.MissingBuyer.Resolve(name, ok)
		if !ok {
			continue
		}
		if o.Item == "" {
			st.MissingItem++
		} else {
			items[o.Item] = struct{}{}
		}
		rows = append(rows, purchase.Row{Buyer: model.buyers.ID(name), Item: o.Item, Quantity: o.Quantity})
	}
	st.Buyers = model.buyers.Len()
	st.Items = len(items)
	if err := ctx.Err(); err != nil {
		return model, err
	}

	rows = purchase.RepeatBuyers(rows, opt.MinBuyerOrders)
	retained := purchase.Buyers(rows)
	st.RepeatBuyers = len(retained)
	if len(retained) == 0 {
		return model, fmt.Errorf("%w: %d orders from %d buyers, none with at least %d orders",
			ErrNoRepeatBuyers, st.Orders, st.Buyers, opt.MinBuyerOrders)
	}

	rows = purchase.Dedupe(withItem(rows))
	model.Items = purchase.TopItems(rows, opt.TopItems)
	st.TopItems = len(model.Items)
	if err := ctx.Err(); err != nil {
		return model, err
	}

	model.Matrix = purchase.Pivot(rows, model.Items, retained)
	return model, nil
}

func withItem(rows []purchase.Row) []purchase.Row {
	out := rows[:0]
	for _, r := range rows {
		if r.Item != "" {
			out = append(out, r)
		}
	}
	return out
}

// Recommend returns up to k items bought together with item.
func (m *Model) Recommend(item string, k int) ([]recommend.Recommendation, error) {
	return recommend.Recommend(m.Matrix, item, k)
}

// Has reports whether item is one of the ranked items.
func (m *Model) Has(item string) bool {
	if m.Matrix == nil {
		return false
	}
	_, ok := m.Matrix.Index(item)
	return ok
}

// DefaultItem is the top-ranked item, or "" for an empty model.
func (m *Model) DefaultItem() string {
	if len(m.Items) == 0 {
		return ""
	}
	return m.Items[0].Item
}
