package query

import (
	"bytes"
	"encoding/json"
	"math"
)

// Reserved parameter names. Everything else in a query string is treated as
// a free-form attribute option.
const (
	KeySearch     = "search"
	KeyCategories = "categories"
	KeyMinPrice   = "minPrice"
	KeyMaxPrice   = "maxPrice"
	KeyPage       = "page"
	KeySortBy     = "sortBy"
	KeySortOrder  = "sortOrder"
)

var reservedKeys = map[string]struct{}{
	KeySearch:     {},
	KeyCategories: {},
	KeyMinPrice:   {},
	KeyMaxPrice:   {},
	KeyPage:       {},
	KeySortBy:     {},
	KeySortOrder:  {},
}

// IsReserved reports whether key has a dedicated FilterState field.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// Sort fields and orders understood by the product listing.
const (
	SortByName      = "name"
	SortByPrice     = "price"
	SortByCreatedAt = "createdAt"
	SortByUpdatedAt = "updatedAt"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// PriceRange bounds may be NaN when the URL carried a malformed number.
type PriceRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// MinValid returns the lower bound if it is present and a real number.
func (r *PriceRange) MinValid() (float64, bool) {
	if r == nil {
		return 0, false
	}
	return validBound(r.Min)
}

// MaxValid returns the upper bound if it is present and a real number.
func (r *PriceRange) MaxValid() (float64, bool) {
	if r == nil {
		return 0, false
	}
	return validBound(r.Max)
}

func validBound(b *float64) (float64, bool) {
	if b == nil || math.IsNaN(*b) {
		return 0, false
	}
	return *b, true
}

// OptionPair is one attribute filter, e.g. Color=Red. It serializes as a
// single-key object ({"Color":"Red"}), the shape the remote API expects.
type OptionPair struct {
	Key   string
	Value string
}

func (o OptionPair) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	key, err := json.Marshal(o.Key)
	if err != nil {
		return nil, err
	}
	val, err := json.Marshal(o.Value)
	if err != nil {
		return nil, err
	}
	b.WriteByte('{')
	b.Write(key)
	b.WriteByte(':')
	b.Write(val)
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (o *OptionPair) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	for k, v := range m {
		o.Key, o.Value = k, v
	}
	return nil
}

// FilterState is the structured form of a product search. A nil field is
// absent. Search, Page, SortBy and SortOrder are Values because a repeated
// parameter decodes to a list.
type FilterState struct {
	Search     *Value
	Categories []string
	PriceRange *PriceRange
	Page       *Value
	SortBy     *Value
	SortOrder  *Value
	Options    []OptionPair
}

// WithoutPage returns a copy with Page cleared. This is the projection used
// for cache keys.
func (s FilterState) WithoutPage() FilterState {
	s.Page = nil
	return s
}

// Option mutates a FilterState copy; see With.
type Option func(*FilterState)

// With returns a copy of s with opts applied in order.
func (s FilterState) With(opts ...Option) FilterState {
	out := s.clone()
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

func (s FilterState) clone() FilterState {
	out := FilterState{
		Search:    s.Search.clone(),
		Page:      s.Page.clone(),
		SortBy:    s.SortBy.clone(),
		SortOrder: s.SortOrder.clone(),
	}
	if s.Categories != nil {
		out.Categories = append([]string(nil), s.Categories...)
	}
	if s.PriceRange != nil {
		pr := PriceRange{}
		if s.PriceRange.Min != nil {
			pr.Min = float64Ptr(*s.PriceRange.Min)
		}
		if s.PriceRange.Max != nil {
			pr.Max = float64Ptr(*s.PriceRange.Max)
		}
		out.PriceRange = &pr
	}
	if s.Options != nil {
		out.Options = append([]OptionPair(nil), s.Options...)
	}
	return out
}

func float64Ptr(f float64) *float64 {
	return &f
}

// WithSearch sets the free-text query; an empty string clears it.
func WithSearch(q string) Option {
	return func(s *FilterState) {
		if q == "" {
			s.Search = nil
			return
		}
		s.Search = Scalar(q)
	}
}

// WithCategories replaces the category list; no arguments clears it.
func WithCategories(categories ...string) Option {
	return func(s *FilterState) {
		if len(categories) == 0 {
			s.Categories = nil
			return
		}
		s.Categories = append([]string(nil), categories...)
	}
}

// WithPriceRange sets both bounds; nil bounds are left open.
func WithPriceRange(lo, hi *float64) Option {
	return func(s *FilterState) {
		if lo == nil && hi == nil {
			s.PriceRange = nil
			return
		}
		pr := &PriceRange{}
		if lo != nil {
			pr.Min = float64Ptr(*lo)
		}
		if hi != nil {
			pr.Max = float64Ptr(*hi)
		}
		s.PriceRange = pr
	}
}

// WithSort sets sort field and order; empty strings clear them.
func WithSort(by, order string) Option {
	return func(s *FilterState) {
		s.SortBy, s.SortOrder = nil, nil
		if by != "" {
			s.SortBy = Scalar(by)
		}
		if order != "" {
			s.SortOrder = Scalar(order)
		}
	}
}

// WithPage sets the pagination cursor; an empty string clears it.
func WithPage(page string) Option {
	return func(s *FilterState) {
		if page == "" {
			s.Page = nil
			return
		}
		s.Page = Scalar(page)
	}
}

// WithOptions replaces every attribute option; no arguments clears them.
func WithOptions(pairs ...OptionPair) Option {
	return func(s *FilterState) {
		if len(pairs) == 0 {
			s.Options = nil
			return
		}
		s.Options = append([]OptionPair(nil), pairs...)
	}
}

// ToggleOption adds key=value if missing, removes it otherwise.
func ToggleOption(key, value string) Option {
	return func(s *FilterState) {
		for i, o := range s.Options {
			if o.Key == key && o.Value == value {
				s.Options = append(s.Options[:i:i], s.Options[i+1:]...)
				if len(s.Options) == 0 {
					s.Options = nil
				}
				return
			}
		}
		s.Options = append(s.Options, OptionPair{Key: key, Value: value})
	}
}
