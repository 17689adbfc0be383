package orders

import "strings"

type columnIndex struct {
	buyer        int
	item         int
	quantity     int
	quantityName string
}

func resolveColumns(header []string, opt Options) (columnIndex, error) {
	byName := make(map[string]int, len(header))
	available := make([]string, 0, len(header))
	for i, h := range header {
		name := strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		available = append(available, name)
		key := strings.ToLower(name)
		if _, dup := byName[key]; !dup {
			byName[key] = i
		}
	}
	lookup := func(name string) (int, bool) {
		i, ok := byName[strings.ToLower(strings.TrimSpace(name))]
		return i, ok
	}

	var idx columnIndex
	var ok bool
	if idx.buyer, ok = lookup(opt.BuyerColumn); !ok {
		return idx, &ColumnError{Column: opt.BuyerColumn, Available: available}
	}
	if idx.quantity, ok = lookup(opt.QuantityColumn); !ok {
		return idx, &ColumnError{Column: opt.QuantityColumn, Available: available}
	}
	idx.quantityName = opt.QuantityColumn
	idx.item = -1
	for _, name := range opt.ItemColumns {
		if i, found := lookup(name); found {
			idx.item = i
			break
		}
	}
	if idx.item < 0 {
		return idx, &ColumnError{Column: strings.Join(opt.ItemColumns, "' or '"), Available: available}
	}
	return idx, nil
}
