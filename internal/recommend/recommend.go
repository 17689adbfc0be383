// Package recommend ranks items by the Pearson correlation of their purchase
// vectors with a target item.
package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/alsobought-cli/internal/purchase"
)

var (
	// ErrUnknownItem is returned when the target is not a column of the matrix.
	ErrUnknownItem = errors.New("item not in purchase matrix")
	// ErrEmptyMatrix is returned when the matrix has no buyers or no items.
	ErrEmptyMatrix = errors.New("purchase matrix is empty")
)

// DefaultTopK is the number of recommendations shown by default.
const DefaultTopK = 10

// Recommendation is one item similar to the target.
type Recommendation struct {
	Item        string  `json:"item"`
	Correlation float64 `json:"correlation"`
}

// Pearson returns the correlation coefficient of x and y. It reports false
// when the coefficient is undefined: mismatched lengths, fewer than two
// samples, or a constant vector.
func Pearson(x, y []float64) (float64, bool) {
	if len(x) != len(y) || len(x) < 2 {
		return 0, false
	}
	n := float64(len(x))
	var meanX, meanY float64
	for i := range x {
		meanX += x[i]
		meanY += y[i]
	}
	meanX /= n
	meanY /= n
	var sxy, sxx, syy float64
	for i := range x {
		dx := x[i] - meanX
		dy := y[i] - meanY
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	if sxx == 0 || syy == 0 {
		return 0, false
	}
	r := sxy / math.Sqrt(sxx*syy)
	if math.IsNaN(r) {
		return 0, false
	}
	return math.Max(-1, math.Min(1, r)), true
}

// CorrWith correlates every column of m, the target included, with the
// target column. Columns with an undefined coefficient are dropped. The result
// is sorted by correlation descending, ties by item ascending.
func CorrWith(m *purchase.Matrix, item string) ([]Recommendation, error) {
	if m == nil || m.Rows() == 0 || m.Cols() == 0 {
		return nil, ErrEmptyMatrix
	}
	j, ok := m.Index(item)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, item)
	}
	target := m.Column(j)
	out := make([]Recommendation, 0, m.Cols())
	for k, other := range m.Items {
		r, ok := Pearson(m.Column(k), target)
		if !ok {
			continue
		}
		out = append(out, Recommendation{Item: other, Correlation: r})
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Correlation != out[b].Correlation {
			return out[a].Correlation > out[b].Correlation
		}
		return out[a].Item < out[b].Item
	})
	return out, nil
}

// Recommend returns up to k items most correlated with item, never including
// item itself. k <= 0 returns every eligible item.
func Recommend(m *purchase.Matrix, item string, k int) ([]Recommendation, error) {
	ranked, err := CorrWith(m, item)
	if err != nil {
		return nil, err
	}
	out := ranked[:0]
	for _, r := range ranked {
		if r.Item == item {
			continue
		}
		out = append(out, r)
	}
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out, nil
}
