package orders

import (
	"math"
	"strconv"
	"strings"
)

// parseQuantity accepts plain numbers, decimal commas and thousands
// separators ("1,250", "1.250,5", "2 000"). An empty cell is zero. NaN and
// infinities are rejected.
//
// A lone dot is always a decimal point ("1.250" is 1.25), while a lone comma
// followed by exactly three digits is a thousands separator ("1,250" is 1250).
// Use both separators ("1.250,0") to write dot-grouped thousands.
func parseQuantity(s string) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00a0", " ")
	if raw == "" {
		return 0, true
	}
	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			dec = ','
		}
	case cpos >= 0:
		// A single comma followed by exactly three digits is a thousands separator.
		if strings.Count(raw, ",") > 1 || len(raw)-cpos-1 == 3 {
			dec = '.'
		} else {
			dec = ','
		}
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
