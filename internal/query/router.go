package query

import (
	"fmt"
	"net/url"
	"sync"
)

// Router owns the current URL query. Replace is a partial update: keys in
// update are written, keys in clear are removed, everything else is kept.
type Router interface {
	Query() Params
	Replace(update Params, clear ...string)
}

// Location is an in-memory Router over a path and its query parameters. The
// gateway builds one per request from the browser URL and hands the final
// String() back so the client can replace its address bar.
type Location struct {
	mu     sync.RWMutex
	path   string
	params Params
}

func NewLocation(path string, params Params) *Location {
	return &Location{path: path, params: params.Clone()}
}

// ParseLocation accepts a path with an optional query, or an absolute URL.
func ParseLocation(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid location %q: %w", raw, err)
	}
	return &Location{path: u.Path, params: ParseQuery(u.RawQuery)}, nil
}

func (l *Location) Query() Params {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.params.Clone()
}

func (l *Location) Replace(update Params, clear ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range clear {
		l.params.Del(k)
	}
	for _, k := range update.keys {
		l.params.Set(k, update.values[k])
	}
}

func (l *Location) Path() string {
	return l.path
}

func (l *Location) String() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.params.Len() == 0 {
		return l.path
	}
	return l.path + "?" + l.params.Encode()
}

// SetFilters merges opts into the filter state currently held by r and writes
// the result back. The page is reset unless opts set it again. Every URL key
// the new state does not emit is cleared, including keys the decoder ignored
// such as categories= or an option with only empty values.
func SetFilters(r Router, opts ...Option) FilterState {
	raw := r.Query()
	next := Decode(raw).WithoutPage().With(opts...)
	after := Encode(next)

	var clear []string
	for _, k := range raw.keys {
		if !after.Has(k) {
			clear = append(clear, k)
		}
	}
	r.Replace(after, clear...)
	return next
}

// ResetFilters removes every parameter from r.
func ResetFilters(r Router) {
	r.Replace(NewParams(), r.Query().Keys()...)
}
