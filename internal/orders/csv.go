package orders

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// rowSource yields raw records; io.EOF ends the stream.
type rowSource interface {
	Next() ([]string, error)
}

type csvSource struct{ r *csv.Reader }

func (s csvSource) Next() ([]string, error) { return s.r.Read() }

// Line reports the source line of the last record, skipped blank lines included.
func (s csvSource) Line() int {
	line, _ := s.r.FieldPos(0)
	return line
}

// ReadCSV parses an export from r. An empty input yields no orders and no error.
func ReadCSV(r io.Reader, opt Options) ([]Order, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	if opt.Delimiter != 0 {
		cr.Comma = opt.Delimiter
	}
	return collect(csvSource{r: cr}, opt)
}

// collect maps the header onto the configured columns and converts every
// remaining record into an Order.
func collect(src rowSource, opt Options) ([]Order, error) {
	header, err := src.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolveColumns(header, opt)
	if err != nil {
		return nil, err
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	var out []Order
	line := 1
	for len(out) < maxRows {
		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		if lr, ok := src.(interface{ Line() int }); ok {
			line = lr.Line()
		} else {
			line++
		}
		if blank(rec) {
			continue
		}
		qtyRaw := cell(rec, cols.quantity)
		qty, ok := parseQuantity(qtyRaw)
		if !ok {
			return nil, &RowError{Line: line, Column: cols.quantityName, Value: qtyRaw}
		}
		out = append(out, Order{
			Buyer:    cell(rec, cols.buyer),
			Item:     cell(rec, cols.item),
			Quantity: qty,
			Line:     line,
		})
	}
	return out, nil
}

func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[idx])
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
