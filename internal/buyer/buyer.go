// Package buyer extracts usernames from free-text buyer fields and encodes
// them as dense integer IDs.
package buyer

import (
	"fmt"
	"regexp"
	"strings"
)

// UnknownBuyer is the single buyer that collects rows without a username
// when the bucket policy is in effect.
const UnknownBuyer = "(unknown)"

var usernamePattern = regexp.MustCompile(`\(.*?\)`)

// Normalize extracts the first parenthesized segment of raw, without the
// parentheses. It reports false when there is no segment or it is empty.
func Normalize(raw string) (string, bool) {
	m := usernamePattern.FindString(raw)
	if m == "" {
		return "", false
	}
	name := strings.TrimSpace(strings.Trim(m, "()"))
	if name == "" {
		return "", false
	}
	return name, true
}

// NormalizeUsername is Normalize that also accepts an already-normalized
// username (a single token without parentheses), so applying it twice is a
// no-op.
func NormalizeUsername(raw string) (string, bool) {
	if name, ok := Normalize(raw); ok {
		return name, true
	}
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "() \t") {
		return "", false
	}
	return s, true
}

// MissingPolicy decides what happens to rows whose buyer field has no username.
type MissingPolicy string

const (
	// Drop removes rows without a username.
	Drop MissingPolicy = "drop"
	// Bucket assigns all such rows to UnknownBuyer.
	Bucket MissingPolicy = "bucket"
)

// ParseMissingPolicy accepts "drop" or "bucket" (case-insensitive); empty means Drop.
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drop":
		return Drop, nil
	case "bucket", "unknown":
		return Bucket, nil
	default:
		return "", fmt.Errorf("invalid missing buyer policy: %s (use drop or bucket)", s)
	}
}

// Resolve applies the policy to the result of a normalizer. It returns the
// username to use and false when the row must be dropped.
func (p MissingPolicy) Resolve(name string, ok bool) (string, bool) {
	if ok {
		return name, true
	}
	if p == Bucket {
		return UnknownBuyer, true
	}
	return "", false
}

// Encoder assigns dense IDs to names in first-seen order.
type Encoder struct {
	ids   map[string]int
	names []string
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{ids: make(map[string]int)}
}

// ID returns the ID of name, assigning the next one if name is new.
func (e *Encoder) ID(name string) int {
	if id, ok := e.Lookup(name); ok {
		return id
	}
	id := len(e.names)
	e.ids[name] = id
	e.names = append(e.names, name)
	return id
}

// Lookup returns the ID of a known name.
func (e *Encoder) Lookup(name string) (int, bool) {
	id, ok := e.ids[name]
	return id, ok
}

// Name returns the name for id, or "" if id was never assigned.
func (e *Encoder) Name(id int) string {
	if id < 0 || id >= len(e.names) {
		return ""
	}
	return e.names[id]
}

// Len returns the number of distinct names seen.
func (e *Encoder) Len() int { return len(e.names) }
