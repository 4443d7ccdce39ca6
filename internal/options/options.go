// Package options decodes the per-product option map that the storefronts
// inject into their detail pages as a script global. The raw payload is a
// JSON-ish object keyed by option id whose entries carry an "option_value"
// string encoding color and size joined by a hyphen. The payload uses
// single-quote string delimiters and backslash escapes, so it has to be
// repaired before it parses as JSON.
package options

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Facets holds the size and color values accumulated from one option map.
// Both sets are duplicate-free and keep insertion order.
type Facets struct {
	sizes  *set
	colors *set
}

// NewFacets returns an empty facet accumulator.
func NewFacets() *Facets {
	return &Facets{sizes: newSet(), colors: newSet()}
}

func (f *Facets) AddSize(v string)  { f.sizes.add(v) }
func (f *Facets) AddColor(v string) { f.colors.add(v) }

func (f *Facets) Sizes() []string  { return f.sizes.values() }
func (f *Facets) Colors() []string { return f.colors.values() }

// SizeList returns the comma-joined size set as stored on the product row.
func (f *Facets) SizeList() string { return strings.Join(f.sizes.values(), ",") }

// ColorList returns the comma-joined color set.
func (f *Facets) ColorList() string { return strings.Join(f.colors.values(), ",") }

// FacetRule assigns one option value to the size/color facets. The assignment
// order differs per site and reflects genuine catalog conventions.
type FacetRule func(value string, facets *Facets)

// DefaultRule splits "<color>-<size>" on the hyphen: the second segment is the
// size, the first the color. A value without a hyphen contributes nothing.
func DefaultRule(value string, facets *Facets) {
	parts := strings.Split(value, "-")
	if len(parts) < 2 {
		return
	}
	facets.AddSize(parts[1])
	facets.AddColor(parts[0])
}

// ColorFallbackRule behaves like DefaultRule but treats a value without a
// hyphen as a bare color.
func ColorFallbackRule(value string, facets *Facets) {
	parts := strings.Split(value, "-")
	if len(parts) < 2 {
		facets.AddColor(parts[0])
		return
	}
	facets.AddSize(parts[1])
	facets.AddColor(parts[0])
}

// Repair rewrites the page-injected payload into valid JSON: single-quote
// string delimiters become double quotes, then backslash escapes are resolved.
func Repair(raw string) string {
	return unescape(strings.ReplaceAll(raw, "'", `"`))
}

// unescape resolves backslash-escaped sequences the way the page encoded
// them, leaving unrecognized escapes as the bare character.
func unescape(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

type optionEntry struct {
	OptionValue string `json:"option_value"`
}

// ParseFacets repairs the raw payload, parses the option map and accumulates
// size/color facets under the given rule. A malformed payload returns an
// error and empty facets; callers treat that as "no options found".
func ParseFacets(raw string, rule FacetRule) (*Facets, error) {
	facets := NewFacets()
	if strings.TrimSpace(raw) == "" {
		return facets, nil
	}

	var entries map[string]optionEntry
	if err := json.Unmarshal([]byte(Repair(raw)), &entries); err != nil {
		return NewFacets(), fmt.Errorf("malformed option payload: %w", err)
	}

	for _, entry := range entries {
		if entry.OptionValue == "" {
			continue
		}
		rule(entry.OptionValue, facets)
	}
	return facets, nil
}

// set is an insertion-ordered, duplicate-free string collection.
type set struct {
	seen map[string]bool
	vals []string
}

func newSet() *set {
	return &set{seen: make(map[string]bool)}
}

func (s *set) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.vals = append(s.vals, v)
}

func (s *set) values() []string {
	return s.vals
}
