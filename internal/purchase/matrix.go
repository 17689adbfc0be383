package purchase

// Matrix is a dense buyer × item table of summed quantities.
type Matrix struct {
	Buyers []int
	Items  []string
	// Values is row-major: Values[buyer][item].
	Values [][]float64

	col map[string]int
}

// Pivot builds the matrix with one row per buyer (in the given order) and
// one column per item (in ranking order). Rows for items outside the set are
// ignored; absent cells are zero.
func Pivot(rows []Row, items []ItemStat, buyers []int) *Matrix {
	m := &Matrix{
		Buyers: append([]int(nil), buyers...),
		Items:  make([]string, len(items)),
		Values: make([][]float64, len(buyers)),
		col:    make(map[string]int, len(items)),
	}
	for j, it := range items {
		m.Items[j] = it.Item
		m.col[it.Item] = j
	}
	rowOf := make(map[int]int, len(buyers))
	for i, b := range buyers {
		rowOf[b] = i
		m.Values[i] = make([]float64, len(items))
	}
	for _, r := range rows {
		j, ok := m.col[r.Item]
		if !ok {
			continue
		}
		i, ok := rowOf[r.Buyer]
		if !ok {
			continue
		}
		m.Values[i][j] += r.Quantity
	}
	return m
}

// Rows returns the number of buyers.
func (m *Matrix) Rows() int { return len(m.Values) }

// Cols returns the number of items.
func (m *Matrix) Cols() int { return len(m.Items) }

// Index returns the column of item. The matrix is read-only after Pivot, so
// Index is safe for concurrent use.
func (m *Matrix) Index(item string) (int, bool) {
	if m.col == nil {
		for j, it := range m.Items {
			if it == item {
				return j, true
			}
		}
		return 0, false
	}
	j, ok := m.col[item]
	return j, ok
}

// Column copies the quantity vector of column j across all buyers.
func (m *Matrix) Column(j int) []float64 {
	out := make([]float64, len(m.Values))
	for i, row := range m.Values {
		out[i] = row[j]
	}
	return out
}
