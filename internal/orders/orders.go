package orders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Order is one row of an order export.
type Order struct {
	// Buyer is the raw buyer field, usually "Full Name (username)".
	Buyer string
	// Item is the product identifier, taken from the first item column present.
	Item     string
	Quantity float64
	// Line is the 1-based source row, header included.
	Line int
}

// Options controls how an export is read.
type Options struct {
	BuyerColumn string
	// ItemColumns are tried in order; the first one present in the header wins.
	ItemColumns    []string
	QuantityColumn string
	// Delimiter for CSV. If 0, chosen from the file extension (',' or '\t').
	Delimiter rune
	// SheetName selects an XLSX sheet; empty means the first sheet.
	SheetName string
	// MaxRows limits data rows read; 0 means unlimited.
	MaxRows int
}

// DefaultOptions returns the column layout of a marketplace sold-orders export.
func DefaultOptions() Options {
	return Options{
		BuyerColumn:    "Buyer",
		ItemColumns:    []string{"Item Name", "SKU"},
		QuantityColumn: "Quantity",
	}
}

var (
	// ErrMissingColumn is matched by *ColumnError.
	ErrMissingColumn = errors.New("missing required column")
	// ErrBadQuantity is matched by *RowError.
	ErrBadQuantity = errors.New("invalid quantity")
	// ErrUnsupportedFormat is returned for files that are neither CSV/TSV nor XLSX.
	ErrUnsupportedFormat = errors.New("unsupported file format")
)

// ColumnError reports a required column that the header does not contain.
type ColumnError struct {
	Column    string
	Available []string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column '%s' not found.\nAvailable columns: %s", e.Column, strings.Join(e.Available, ", "))
}

func (e *ColumnError) Is(target error) bool { return target == ErrMissingColumn }

// RowError reports a cell that could not be parsed.
type RowError struct {
	Line   int
	Column string
	Value  string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s %q is not a number", e.Line, e.Column, e.Value)
}

func (e *RowError) Is(target error) bool { return target == ErrBadQuantity }

// LoadFile reads orders from path, choosing the reader by extension.
func LoadFile(path string, opt Options) ([]Order, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open csv: %w", err)
		}
		defer f.Close()
		if opt.Delimiter == 0 {
			opt.Delimiter = sniffDelimiter(path)
		}
		return ReadCSV(f, opt)
	case ".xlsx":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open xlsx: %w", err)
		}
		defer f.Close()
		st, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("stat xlsx: %w", err)
		}
		return ReadXLSX(f, st.Size(), opt)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}
