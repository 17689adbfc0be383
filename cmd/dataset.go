package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/KaramelBytes/alsobought-cli/internal/buyer"
	cfgpkg "github.com/KaramelBytes/alsobought-cli/internal/config"
	"github.com/KaramelBytes/alsobought-cli/internal/orders"
	"github.com/KaramelBytes/alsobought-cli/internal/pipeline"
)

// datasetFlags are shared by every command that reads an order export.
// Unset flags fall back to the loaded configuration.
type datasetFlags struct {
	buyerColumn    string
	itemColumns    []string
	quantityColumn string
	delimiter      string
	sheetName      string
	maxRows        int
	topItems       int
	minOrders      int
	missingBuyer   string
	bareUsernames  bool
}

func (f *datasetFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.buyerColumn, "buyer-column", "", "column holding \"Name (username)\" (default from config: Buyer)")
	fl.StringSliceVar(&f.itemColumns, "item-column", nil, "item identifier column, tried in order (default from config: Item Name,SKU)")
	fl.StringVar(&f.quantityColumn, "quantity-column", "", "quantity column (default from config: Quantity)")
	fl.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	fl.StringVar(&f.sheetName, "sheet-name", "", "XLSX: sheet to read (default first sheet)")
	fl.IntVar(&f.maxRows, "max-rows", 0, "maximum order rows to read (0 = unlimited)")
	fl.IntVar(&f.topItems, "top-items", 0, "number of most-bought items kept in the matrix (default from config: 50)")
	fl.IntVar(&f.minOrders, "min-orders", 0, "orders a buyer needs to be kept (default from config: 2)")
	fl.StringVar(&f.missingBuyer, "missing-buyer", "", "rows without a username: drop | bucket (default from config: drop)")
	fl.BoolVar(&f.bareUsernames, "bare-usernames", false, "accept buyer cells that already hold a plain username (default from config: false)")
}

func (f *datasetFlags) orderOptions(cmd *cobra.Command, c *cfgpkg.Global) (orders.Options, error) {
	opt := orders.DefaultOptions()
	if c.BuyerColumn != "" {
		opt.BuyerColumn = c.BuyerColumn
	}
	if len(c.ItemColumns) > 0 {
		opt.ItemColumns = c.ItemColumns
	}
	if c.QuantityColumn != "" {
		opt.QuantityColumn = c.QuantityColumn
	}
	fl := cmd.Flags()
	if fl.Changed("buyer-column") {
		opt.BuyerColumn = f.buyerColumn
	}
	if fl.Changed("item-column") && len(f.itemColumns) > 0 {
		opt.ItemColumns = f.itemColumns
	}
	if fl.Changed("quantity-column") {
		opt.QuantityColumn = f.quantityColumn
	}
	switch strings.ToLower(f.delimiter) {
	case "":
	case ",", "comma":
		opt.Delimiter = ','
	case ";", "semicolon":
		opt.Delimiter = ';'
	case "\t", "tab":
		opt.Delimiter = '\t'
	default:
		return opt, fmt.Errorf("unsupported --delimiter: %s", f.delimiter)
	}
	opt.SheetName = f.sheetName
	if f.maxRows < 0 {
		return opt, fmt.Errorf("--max-rows must not be negative")
	}
	opt.MaxRows = f.maxRows
	return opt, nil
}

func (f *datasetFlags) pipelineOptions(cmd *cobra.Command, c *cfgpkg.Global) (pipeline.Options, error) {
	opt := pipeline.DefaultOptions()
	if c.TopItems > 0 {
		opt.TopItems = c.TopItems
	}
	if c.MinBuyerOrders > 0 {
		opt.MinBuyerOrders = c.MinBuyerOrders
	}
	policy := c.MissingBuyer
	opt.BareUsernames = c.BareUsernames
	fl := cmd.Flags()
	if fl.Changed("bare-usernames") {
		opt.BareUsernames = f.bareUsernames
	}
	if fl.Changed("top-items") {
		if f.topItems <= 0 {
			return opt, fmt.Errorf("--top-items must be positive")
		}
		opt.TopItems = f.topItems
	}
	if fl.Changed("min-orders") {
		if f.minOrders <= 0 {
			return opt, fmt.Errorf("--min-orders must be positive")
		}
		opt.MinBuyerOrders = f.minOrders
	}
	if fl.Changed("missing-buyer") {
		policy = f.missingBuyer
	}
	p, err := buyer.ParseMissingPolicy(policy)
	if err != nil {
		return opt, err
	}
	opt.MissingBuyer = p
	return opt, nil
}

// load reads path and builds the purchase model.
func (f *datasetFlags) load(cmd *cobra.Command, path string) (*pipeline.Model, error) {
	c := settings()
	oopt, err := f.orderOptions(cmd, c)
	if err != nil {
		return nil, err
	}
	popt, err := f.pipelineOptions(cmd, c)
	if err != nil {
		return nil, err
	}
	log, err := newLogger(c)
	if err != nil {
		return nil, err
	}
	defer func() { _ = log.Sync() }()

	in, err := orders.LoadFile(path, oopt)
	if err != nil {
		return nil, err
	}
	log.Debug("orders loaded", zap.String("file", path), zap.Int("rows", len(in)))
	model, err := pipeline.Build(cmd.Context(), in, popt)
	if err != nil {
		return nil, err
	}
	st := model.Stats
	log.Debug("matrix built",
		zap.Int("buyers", st.Buyers),
		zap.Int("repeat_buyers", st.RepeatBuyers),
		zap.Int("missing_buyer", st.MissingBuyer),
		zap.Int("items", st.Items),
		zap.Int("top_items", st.TopItems),
	)
	return model, nil
}
