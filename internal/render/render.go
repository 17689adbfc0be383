// Package render formats recommendation lists and item rankings.
package render

import (
	"encoding/csv"
	"fmt"
	"html/template"
	"io"
	"math"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/KaramelBytes/alsobought-cli/internal/purchase"
	"github.com/KaramelBytes/alsobought-cli/internal/recommend"
	"github.com/KaramelBytes/alsobought-cli/internal/utils"
)

// Format is an output format name.
type Format string

const (
	Text     Format = "text"
	Markdown Format = "markdown"
	JSON     Format = "json"
	CSV      Format = "csv"
	HTML     Format = "html"
)

// ParseFormat accepts a format name or a common alias ("md", "table").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "table":
		return Text, nil
	case "markdown", "md":
		return Markdown, nil
	case "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "html":
		return HTML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use text|markdown|json|csv|html)", s)
	}
}

// Percent formats a correlation as a percentage with two decimals.
func Percent(r float64) string {
	return strconv.FormatFloat(r*100, 'f', 2, 64) + "%"
}

// BarWidth is the bar length in percent of the cell for correlation r.
// Negative correlations get no bar.
func BarWidth(r float64) float64 {
	return math.Round(math.Max(0, math.Min(1, r))*10000) / 100
}

// Quantity formats a summed quantity with thousands separators.
func Quantity(q float64) string {
	if q == math.Trunc(q) {
		return humanize.Comma(int64(q))
	}
	return humanize.Commaf(math.Round(q*100) / 100)
}

// FuncMap exposes the formatters to HTML templates.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"percent":  Percent,
		"bar":      BarWidth,
		"quantity": Quantity,
		"comma":    func(n int) string { return humanize.Comma(int64(n)) },
		"bytes":    func(n int64) string { return humanize.Bytes(uint64(n)) },
		"inc":      func(i int) int { return i + 1 },
	}
}

type recommendationsDoc struct {
	Item            string                     `json:"item"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// Recommendations writes the list of items bought together with item.
func Recommendations(w io.Writer, f Format, item string, recs []recommend.Recommendation) error {
	switch f {
	case Text:
		fmt.Fprintf(w, "Customers who bought %s also bought:\n\n", item)
		if len(recs) == 0 {
			_, err := fmt.Fprintln(w, "(no correlated items)")
			return err
		}
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tITEM\tCORRELATION")
		for i, r := range recs {
			fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, r.Item, Percent(r.Correlation))
		}
		return tw.Flush()
	case Markdown:
		var b strings.Builder
		b.WriteString(fmt.Sprintf("## Customers who bought %s also bought\n\n", mdEscape(item)))
		b.WriteString("| # | Item | Correlation |\n|---:|---|---:|\n")
		for i, r := range recs {
			b.WriteString(fmt.Sprintf("| %d | %s | %s |\n", i+1, mdEscape(r.Item), Percent(r.Correlation)))
		}
		_, err := io.WriteString(w, b.String())
		return err
	case JSON:
		if recs == nil {
			recs = []recommend.Recommendation{}
		}
		b, err := utils.PrettyJSON(recommendationsDoc{Item: item, Recommendations: recs})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case CSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"item", "correlation", "percent"})
		for _, r := range recs {
			_ = cw.Write([]string{r.Item, strconv.FormatFloat(r.Correlation, 'f', -1, 64), Percent(r.Correlation)})
		}
		cw.Flush()
		return cw.Error()
	case HTML:
		return tableTmpl.Execute(w, recommendationsDoc{Item: item, Recommendations: recs})
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

// Items writes the item ranking used to build the matrix.
func Items(w io.Writer, f Format, items []purchase.ItemStat) error {
	switch f {
	case Text:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tITEM\tBUYERS\tQUANTITY")
		for i, it := range items {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", i+1, it.Item, humanize.Comma(int64(it.Orders)), Quantity(it.Quantity))
		}
		return tw.Flush()
	case Markdown:
		var b strings.Builder
		b.WriteString("| # | Item | Buyers | Quantity |\n|---:|---|---:|---:|\n")
		for i, it := range items {
			b.WriteString(fmt.Sprintf("| %d | %s | %d | %s |\n", i+1, mdEscape(it.Item), it.Orders, Quantity(it.Quantity)))
		}
		_, err := io.WriteString(w, b.String())
		return err
	case JSON:
		if items == nil {
			items = []purchase.ItemStat{}
		}
		b, err := utils.PrettyJSON(items)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case CSV:
		cw := csv.NewWriter(w)
		_ = cw.Write([]string{"item", "buyers", "quantity"})
		for _, it := range items {
			_ = cw.Write([]string{it.Item, strconv.Itoa(it.Orders), strconv.FormatFloat(it.Quantity, 'f', -1, 64)})
		}
		cw.Flush()
		return cw.Error()
	case HTML:
		return itemsTmpl.Execute(w, items)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}

func mdEscape(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "\\|")
}
