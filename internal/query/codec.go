package query

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Decode builds a FilterState from URL parameters. It never fails: malformed
// price bounds decode to NaN and callers are expected to guard with
// PriceRange.MinValid/MaxValid.
func Decode(p Params) FilterState {
	s := FilterState{
		Search:     decodeScalar(p.Get(KeySearch)),
		Categories: decodeList(p.Get(KeyCategories)),
		Page:       decodeScalar(p.Get(KeyPage)),
		SortBy:     decodeScalar(p.Get(KeySortBy)),
		SortOrder:  decodeScalar(p.Get(KeySortOrder)),
		Options:    decodeOptions(p),
	}

	minPrice := decodeNumber(p.Get(KeyMinPrice))
	maxPrice := decodeNumber(p.Get(KeyMaxPrice))
	if minPrice != nil || maxPrice != nil {
		s.PriceRange = &PriceRange{Min: minPrice, Max: maxPrice}
	}
	return s
}

// decodeScalar passes the value through verbatim. A repeated parameter stays
// a list instead of being rejected or truncated to its first value.
func decodeScalar(v *Value) *Value {
	return v
}

// decodeList always yields a sequence, dropping empty entries. An absent
// parameter, or one whose entries are all empty, is absent.
func decodeList(v *Value) []string {
	if v == nil {
		return nil
	}
	var out []string
	for _, item := range v.items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

// decodeNumber parses a price bound. An empty scalar is absent; anything else
// goes through number parsing, so garbage yields NaN.
func decodeNumber(v *Value) *float64 {
	if v == nil {
		return nil
	}
	if !v.list && v.String() == "" {
		return nil
	}
	n := parseNumber(v.String())
	return &n
}

func decodeOptions(p Params) []OptionPair {
	var out []OptionPair
	for _, key := range p.keys {
		if IsReserved(key) {
			continue
		}
		v := p.values[key]
		for _, item := range v.items {
			if item != "" {
				out = append(out, OptionPair{Key: key, Value: item})
			}
		}
	}
	return out
}

// parseNumber follows the lenient rules browsers apply to numeric strings:
// surrounding whitespace is ignored, blank is zero, 0x/0o/0b prefixes and
// Infinity are accepted, anything else that is not a decimal literal is NaN.
func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil {
				return math.NaN()
			}
			return float64(n)
		}
	}

	for _, r := range s {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return math.NaN()
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range literals saturate to ±Inf or 0 instead of failing.
		if errors.Is(err, strconv.ErrRange) {
			return n
		}
		return math.NaN()
	}
	return n
}

// formatNumber is the inverse of parseNumber for every value it produces.
func formatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Encode renders a FilterState as URL parameters. Absent fields are omitted,
// which is how a filter is cleared from the URL. Options are grouped by key:
// one value is emitted as a scalar, several as a list in their original order.
func Encode(s FilterState) Params {
	p := NewParams()

	p.Set(KeyPage, s.Page)
	p.Set(KeySortBy, s.SortBy)
	p.Set(KeySortOrder, s.SortOrder)
	p.Set(KeySearch, s.Search)
	if len(s.Categories) > 0 {
		p.Set(KeyCategories, List(s.Categories...))
	}

	if s.PriceRange != nil {
		if s.PriceRange.Min != nil {
			p.Set(KeyMinPrice, Scalar(formatNumber(*s.PriceRange.Min)))
		}
		if s.PriceRange.Max != nil {
			p.Set(KeyMaxPrice, Scalar(formatNumber(*s.PriceRange.Max)))
		}
	}

	for _, g := range groupOptions(s.Options) {
		if IsReserved(g.key) {
			continue
		}
		if len(g.values) == 1 {
			p.Set(g.key, Scalar(g.values[0]))
		} else {
			p.Set(g.key, List(g.values...))
		}
	}
	return p
}

// CacheKeyParams is Encode without the page, so paginating never busts the
// cache entry for a filter set.
func CacheKeyParams(s FilterState) Params {
	return Encode(s.WithoutPage())
}

type optionGroup struct {
	key    string
	values []string
}

func groupOptions(pairs []OptionPair) []optionGroup {
	var groups []optionGroup
	index := map[string]int{}
	for _, o := range pairs {
		i, ok := index[o.Key]
		if !ok {
			i = len(groups)
			index[o.Key] = i
			groups = append(groups, optionGroup{key: o.Key})
		}
		groups[i].values = append(groups[i].values, o.Value)
	}
	return groups
}
