// Package purchase shapes encoded order rows into a buyer × item quantity matrix.
package purchase

import (
	"sort"
)

// Row is an order row with the buyer already encoded.
type Row struct {
	Buyer    int
	Item     string
	Quantity float64
}

// ItemStat is one entry of the item ranking.
type ItemStat struct {
	Item string `json:"item"`
	// Orders is the number of distinct buyers of Item.
	Orders   int     `json:"orders"`
	Quantity float64 `json:"quantity"`
}

// RepeatBuyers keeps rows whose buyer appears at least minOrders times in rows.
// Counting happens before deduplication, over the full order set.
func RepeatBuyers(rows []Row, minOrders int) []Row {
	counts := make(map[int]int)
	for _, r := range rows {
		counts[r.Buyer]++
	}
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if counts[r.Buyer] >= minOrders {
			out = append(out, r)
		}
	}
	return out
}

// Buyers returns the distinct buyer IDs of rows in ascending order.
func Buyers(rows []Row) []int {
	seen := make(map[int]struct{})
	var out []int
	for _, r := range rows {
		if _, ok := seen[r.Buyer]; ok {
			continue
		}
		seen[r.Buyer] = struct{}{}
		out = append(out, r.Buyer)
	}
	sort.Ints(out)
	return out
}

// Dedupe removes repeated (buyer, item, quantity) triples, keeping first occurrences.
func Dedupe(rows []Row) []Row {
	seen := make(map[Row]struct{}, len(rows))
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

// TopItems ranks items by distinct-buyer count and returns the first n
// (n <= 0 means all). Ties go to the larger quantity, then the smaller item
// identifier.
func TopItems(rows []Row, n int) []ItemStat {
	type acc struct {
		buyers map[int]struct{}
		qty    float64
	}
	byItem := make(map[string]*acc)
	for _, r := range rows {
		a := byItem[r.Item]
		if a == nil {
			a = &acc{buyers: make(map[int]struct{})}
			byItem[r.Item] = a
		}
		a.buyers[r.Buyer] = struct{}{}
		a.qty += r.Quantity
	}
	stats := make([]ItemStat, 0, len(byItem))
	for item, a := range byItem {
		stats = append(stats, ItemStat{Item: item, Orders: len(a.buyers), Quantity: a.qty})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Orders != stats[j].Orders {
			return stats[i].Orders > stats[j].Orders
		}
		if stats[i].Quantity != stats[j].Quantity {
			return stats[i].Quantity > stats[j].Quantity
		}
		return stats[i].Item < stats[j].Item
	})
	if n > 0 && len(stats) > n {
		stats = stats[:n]
	}
	return stats
}
