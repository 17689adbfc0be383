package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/KaramelBytes/alsobought-cli/internal/purchase"
	"github.com/KaramelBytes/alsobought-cli/internal/recommend"
)

var sample = []recommend.Recommendation{
	{Item: "Red Mug", Correlation: 0.875},
	{Item: "Tea | Towel", Correlation: 0.12346},
	{Item: "Coaster", Correlation: -0.5},
}

func TestPercentAndBar(t *testing.T) {
	tests := []struct {
		r       float64
		percent string
		bar     float64
	}{
		{1, "100.00%", 100},
		{0.875, "87.50%", 87.5},
		{0.12346, "12.35%", 12.35},
		{-0.5, "-50.00%", 0},
	}
	for _, tt := range tests {
		if got := Percent(tt.r); got != tt.percent {
			t.Errorf("Percent(%v) = %q, want %q", tt.r, got, tt.percent)
		}
		if got := BarWidth(tt.r); got != tt.bar {
			t.Errorf("BarWidth(%v) = %v, want %v", tt.r, got, tt.bar)
		}
	}
}

func TestQuantity(t *testing.T) {
	if got := Quantity(1234); got != "1,234" {
		t.Errorf("Quantity(1234) = %q", got)
	}
	if got := Quantity(1234.5); got != "1,234.5" {
		t.Errorf("Quantity(1234.5) = %q", got)
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": Text, "table": Text, "MD": Markdown, "json": JSON, "csv": CSV, "html": HTML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("expected error for xml")
	}
}

func TestRecommendations_Formats(t *testing.T) {
	var buf bytes.Buffer
	if err := Recommendations(&buf, Text, "Blue Mug", sample); err != nil {
		t.Fatalf("text: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Customers who bought Blue Mug also bought") || !strings.Contains(out, "87.50%") {
		t.Fatalf("text output missing content: %s", out)
	}

	buf.Reset()
	if err := Recommendations(&buf, Markdown, "Blue Mug", sample); err != nil {
		t.Fatalf("markdown: %v", err)
	}
	if !strings.Contains(buf.String(), "| 2 | Tea \\| Towel | 12.35% |") {
		t.Fatalf("markdown should escape pipes: %s", buf.String())
	}

	buf.Reset()
	if err := Recommendations(&buf, JSON, "Blue Mug", nil); err != nil {
		t.Fatalf("json: %v", err)
	}
	var doc struct {
		Item            string                     `json:"item"`
		Recommendations []recommend.Recommendation `json:"recommendations"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if doc.Item != "Blue Mug" || doc.Recommendations == nil {
		t.Fatalf("expected empty array, not null: %s", buf.String())
	}

	buf.Reset()
	if err := Recommendations(&buf, CSV, "Blue Mug", sample[:1]); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if buf.String() != "item,correlation,percent\nRed Mug,0.875,87.50%\n" {
		t.Fatalf("unexpected csv: %q", buf.String())
	}
}

func TestRecommendations_HTML(t *testing.T) {
	var buf bytes.Buffer
	recs := append([]recommend.Recommendation{{Item: "<script>", Correlation: 0.5}}, sample...)
	if err := Recommendations(&buf, HTML, "Blue Mug", recs); err != nil {
		t.Fatalf("html: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "<script>") || !strings.Contains(out, "&lt;script&gt;") {
		t.Fatalf("item names must be escaped: %s", out)
	}
	if !strings.Contains(out, "width: 87.5%") || !strings.Contains(out, "width: 0%") {
		t.Fatalf("expected proportional bars: %s", out)
	}

	buf.Reset()
	if err := Recommendations(&buf, HTML, "Blue Mug", nil); err != nil {
		t.Fatalf("html empty: %v", err)
	}
	if !strings.Contains(buf.String(), "No correlated items.") {
		t.Fatalf("expected empty-state row: %s", buf.String())
	}
}

func TestItems_Formats(t *testing.T) {
	items := []purchase.ItemStat{{Item: "Blue Mug", Orders: 1200, Quantity: 1500}, {Item: "Red Mug", Orders: 3, Quantity: 4.5}}
	var buf bytes.Buffer
	if err := Items(&buf, Text, items); err != nil {
		t.Fatalf("text: %v", err)
	}
	if !strings.Contains(buf.String(), "1,200") || !strings.Contains(buf.String(), "1,500") {
		t.Fatalf("expected humanized counts: %s", buf.String())
	}
	buf.Reset()
	if err := Items(&buf, CSV, items); err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "item,buyers,quantity\nBlue Mug,1200,1500\n") {
		t.Fatalf("unexpected csv: %q", buf.String())
	}
	buf.Reset()
	if err := Items(&buf, HTML, items); err != nil {
		t.Fatalf("html: %v", err)
	}
	if !strings.Contains(buf.String(), "<td>1</td><td>Blue Mug</td>") {
		t.Fatalf("unexpected html: %s", buf.String())
	}
}
