package cache

import (
	"net/url"
	"strings"
)

// Key is an ordered tuple such as ("products", "list", "search=hat"). Its
// string form path-escapes every part and joins them with '/', so a part can
// never forge a separator or a glob character.
type Key []string

func NewKey(parts ...string) Key {
	return Key(append([]string(nil), parts...))
}

// Append returns a new key; k is not modified.
func (k Key) Append(parts ...string) Key {
	out := make(Key, 0, len(k)+len(parts))
	out = append(out, k...)
	return append(out, parts...)
}

func (k Key) String() string {
	escaped := make([]string, len(k))
	for i, part := range k {
		escaped[i] = url.PathEscape(part)
	}
	return strings.Join(escaped, "/")
}

// HasPrefix reports whether p is a leading sub-tuple of k.
func (k Key) HasPrefix(p Key) bool {
	if len(p) > len(k) {
		return false
	}
	for i := range p {
		if k[i] != p[i] {
			return false
		}
	}
	return true
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, nil
	}
	parts := strings.Split(s, "/")
	out := make(Key, len(parts))
	for i, p := range parts {
		v, err := url.PathUnescape(p)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// matchesPrefix works on serialized keys: the exact key or anything below it.
func matchesPrefix(serialized, prefix string) bool {
	if prefix == "" {
		return true
	}
	return serialized == prefix || strings.HasPrefix(serialized, prefix+"/")
}
