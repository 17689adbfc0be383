package recommend

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/KaramelBytes/alsobought-cli/internal/purchase"
)

func almostEqual(a, b float64) bool { return math.Abs(a-b) <= 1e-12 }

func TestPearson(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want float64
		ok   bool
	}{
		{"perfect positive", []float64{1, 2, 3}, []float64{2, 4, 6}, 1, true},
		{"perfect negative", []float64{1, 2, 3}, []float64{3, 2, 1}, -1, true},
		{"two samples", []float64{2, 1}, []float64{3, 1}, 1, true},
		{"known value", []float64{1, 2, 3, 4}, []float64{1, 3, 2, 4}, 0.8, true},
		{"constant side", []float64{1, 1, 1}, []float64{1, 2, 3}, 0, false},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0, false},
		{"single sample", []float64{1}, []float64{1}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pearson(tt.x, tt.y)
			if ok != tt.ok || !almostEqual(got, tt.want) {
				t.Fatalf("Pearson = %v, %v; want %v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}
}

// exampleMatrix is the alice/bob case: alice bought X×2, Y×3; bob X×1, Y×1.
func exampleMatrix() *purchase.Matrix {
	rows := []purchase.Row{
		{Buyer: 0, Item: "X", Quantity: 2},
		{Buyer: 1, Item: "X", Quantity: 1},
		{Buyer: 0, Item: "Y", Quantity: 3},
		{Buyer: 1, Item: "Y", Quantity: 1},
	}
	items := []purchase.ItemStat{{Item: "X"}, {Item: "Y"}}
	return purchase.Pivot(rows, items, []int{0, 1})
}

func TestCorrWith_TwoByTwoExample(t *testing.T) {
	m := exampleMatrix()
	if m.Rows() != 2 || m.Cols() != 2 {
		t.Fatalf("expected 2x2, got %dx%d", m.Rows(), m.Cols())
	}
	got, err := CorrWith(m, "X")
	if err != nil {
		t.Fatalf("CorrWith: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected self and Y, got %+v", got)
	}
	for _, r := range got {
		if !almostEqual(r.Correlation, 1) {
			t.Fatalf("expected r=1 for %s, got %v", r.Item, r.Correlation)
		}
	}
	if got[0].Item != "X" {
		t.Fatalf("ties must break by item name, got %+v", got)
	}
}

func TestCorrWith_SelfIsOne(t *testing.T) {
	m := randomMatrix(30, 8)
	for _, item := range m.Items {
		ranked, err := CorrWith(m, item)
		if err != nil {
			t.Fatalf("CorrWith(%s): %v", item, err)
		}
		found := false
		for _, r := range ranked {
			if r.Item == item {
				found = true
				if !almostEqual(r.Correlation, 1) {
					t.Fatalf("self correlation of %s = %v", item, r.Correlation)
				}
			}
		}
		if !found {
			t.Fatalf("self correlation of %s missing", item)
		}
	}
}

func TestRecommend_ExcludesSelfAndLimits(t *testing.T) {
	m := randomMatrix(40, 15)
	for _, k := range []int{0, 3, 10, 50} {
		got, err := Recommend(m, "item-00", k)
		if err != nil {
			t.Fatalf("Recommend: %v", err)
		}
		limit := m.Cols() - 1
		if k > 0 && k < limit {
			limit = k
		}
		if len(got) > limit {
			t.Fatalf("k=%d: got %d results, limit %d", k, len(got), limit)
		}
		for i, r := range got {
			if r.Item == "item-00" {
				t.Fatalf("k=%d: target item returned as its own recommendation", k)
			}
			if r.Correlation < -1 || r.Correlation > 1 {
				t.Fatalf("correlation out of range: %v", r.Correlation)
			}
			if i > 0 && got[i-1].Correlation < r.Correlation {
				t.Fatalf("results not sorted descending: %+v", got)
			}
		}
	}
}

func TestRecommend_DropsUndefined(t *testing.T) {
	m := &purchase.Matrix{
		Buyers: []int{0, 1, 2},
		Items:  []string{"A", "B", "Flat"},
		Values: [][]float64{{1, 2, 1}, {2, 3, 1}, {3, 1, 1}},
	}
	got, err := Recommend(m, "A", 10)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(got) != 1 || got[0].Item != "B" {
		t.Fatalf("expected only B (Flat has zero variance), got %+v", got)
	}
	got, err = Recommend(m, "Flat", 10)
	if err != nil || len(got) != 0 {
		t.Fatalf("zero-variance target should give empty result, got %+v, %v", got, err)
	}
}

func TestRecommend_Errors(t *testing.T) {
	if _, err := Recommend(exampleMatrix(), "nope", 10); !errors.Is(err, ErrUnknownItem) {
		t.Fatalf("expected ErrUnknownItem, got %v", err)
	}
	if _, err := Recommend(&purchase.Matrix{}, "X", 10); !errors.Is(err, ErrEmptyMatrix) {
		t.Fatalf("expected ErrEmptyMatrix, got %v", err)
	}
	if _, err := Recommend(nil, "X", 10); !errors.Is(err, ErrEmptyMatrix) {
		t.Fatalf("expected ErrEmptyMatrix for nil, got %v", err)
	}
}

// randomMatrix builds a deterministic, non-degenerate matrix.
func randomMatrix(buyers, items int) *purchase.Matrix {
	var rows []purchase.Row
	seed := uint32(7)
	next := func() uint32 {
		seed = seed*1664525 + 1013904223
		return seed >> 24
	}
	var stats []purchase.ItemStat
	var ids []int
	for b := 0; b < buyers; b++ {
		ids = append(ids, b)
	}
	for j := 0; j < items; j++ {
		name := fmt.Sprintf("item-%02d", j)
		stats = append(stats, purchase.ItemStat{Item: name})
		rows = append(rows, purchase.Row{Buyer: 0, Item: name, Quantity: float64(j + 1)})
		for b := 1; b < buyers; b++ {
			if next()%3 == 0 {
				rows = append(rows, purchase.Row{Buyer: b, Item: name, Quantity: float64(next()%4 + 1)})
			}
		}
	}
	return purchase.Pivot(rows, stats, ids)
}
