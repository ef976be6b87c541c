package query

import (
	"net/url"
	"sort"
	"strings"
)

// Value is a single query parameter value: either a scalar string or an
// ordered list of strings (the parameter appeared more than once).
type Value struct {
	items []string
	list  bool
}

// Scalar returns a single-string value.
func Scalar(s string) *Value {
	return &Value{items: []string{s}}
}

// List returns a multi-value. The slice is copied.
func List(items ...string) *Value {
	return &Value{items: append([]string(nil), items...), list: true}
}

// IsList reports whether the value was supplied as a sequence.
func (v *Value) IsList() bool {
	return v != nil && v.list
}

// Items returns the value as a sequence; a scalar becomes a one-element slice.
func (v *Value) Items() []string {
	if v == nil {
		return nil
	}
	return append([]string(nil), v.items...)
}

// String returns the scalar, or the list joined with commas.
func (v *Value) String() string {
	if v == nil {
		return ""
	}
	return strings.Join(v.items, ",")
}

// Equal compares kind and contents.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == nil && o == nil
	}
	if v.list != o.list || len(v.items) != len(o.items) {
		return false
	}
	for i := range v.items {
		if v.items[i] != o.items[i] {
			return false
		}
	}
	return true
}

func (v *Value) clone() *Value {
	if v == nil {
		return nil
	}
	return &Value{items: append([]string(nil), v.items...), list: v.list}
}

// Params is an ordered query parameter set. Keys keep the order in which they
// were first added, which is the order the codec iterates them in.
type Params struct {
	keys   []string
	values map[string]*Value
}

// NewParams returns an empty parameter set.
func NewParams() Params {
	return Params{values: map[string]*Value{}}
}

// ParseQuery parses a raw query string (with or without the leading '?').
// Repeated keys become list values; "?flag" decodes to an empty string.
// Undecodable escapes are kept verbatim.
func ParseQuery(raw string) Params {
	p := NewParams()
	raw = strings.TrimPrefix(raw, "?")
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		p.Add(unescape(k), unescape(v))
	}
	return p
}

// FromValues converts url.Values. Go maps have no order, so keys are sorted.
func FromValues(values url.Values) Params {
	p := NewParams()
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		vs := values[k]
		switch len(vs) {
		case 0:
		case 1:
			p.Set(k, Scalar(vs[0]))
		default:
			p.Set(k, List(vs...))
		}
	}
	return p
}

func unescape(s string) string {
	if out, err := url.QueryUnescape(s); err == nil {
		return out
	}
	return s
}

// Add appends a value under key, promoting a scalar to a list on repetition.
func (p *Params) Add(key, value string) {
	if p.values == nil {
		p.values = map[string]*Value{}
	}
	cur, ok := p.values[key]
	if !ok {
		p.keys = append(p.keys, key)
		p.values[key] = Scalar(value)
		return
	}
	cur.items = append(cur.items, value)
	cur.list = true
}

// Set stores v under key, replacing any previous value in place. A nil value
// deletes the key.
func (p *Params) Set(key string, v *Value) {
	if v == nil {
		p.Del(key)
		return
	}
	if p.values == nil {
		p.values = map[string]*Value{}
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = v.clone()
}

// Del removes key.
func (p *Params) Del(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i:i], p.keys[i+1:]...)
			break
		}
	}
}

// Get returns the value under key, or nil.
func (p Params) Get(key string) *Value {
	return p.values[key].clone()
}

// Has reports whether key is present.
func (p Params) Has(key string) bool {
	_, ok := p.values[key]
	return ok
}

// Keys returns the keys in iteration order.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of distinct keys.
func (p Params) Len() int {
	return len(p.keys)
}

// Clone returns a deep copy.
func (p Params) Clone() Params {
	out := NewParams()
	for _, k := range p.keys {
		out.Set(k, p.values[k])
	}
	return out
}

// Equal compares two sets ignoring key order.
func (p Params) Equal(o Params) bool {
	if len(p.keys) != len(o.keys) {
		return false
	}
	for k, v := range p.values {
		if !v.Equal(o.values[k]) {
			return false
		}
	}
	return true
}

// Values converts to url.Values.
func (p Params) Values() url.Values {
	out := url.Values{}
	for _, k := range p.keys {
		out[k] = p.values[k].Items()
	}
	return out
}

// Encode renders the set as a query string without the leading '?', keeping
// key order. A list renders as one k=v pair per item.
func (p Params) Encode() string {
	var b strings.Builder
	for _, k := range p.keys {
		for _, item := range p.values[k].items {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(item))
		}
	}
	return b.String()
}
