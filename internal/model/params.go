package model

import (
	"net/url"
	"strings"
)

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered query parameter mapping. Keys are unique; the first
// occurrence of a repeated key wins and keeps its position.
type Params []Param

// ParseParams parses a raw query string preserving parameter order.
// Pairs that fail to unescape are kept verbatim.
func ParseParams(rawQuery string) Params {
	var ps Params
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		k = unescape(k)
		if k == "" {
			continue
		}
		if _, ok := ps.Get(k); ok {
			continue
		}
		ps = append(ps, Param{Key: k, Value: unescape(v)})
	}
	return ps
}

func unescape(s string) string {
	u, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return u
}

// Get returns the value for key and whether it was present.
func (ps Params) Get(key string) (string, bool) {
	for _, p := range ps {
		if p.Key == key {
			return p.Value, true
		}
	}
	return "", false
}

// Clone returns an independent copy.
func (ps Params) Clone() Params {
	if ps == nil {
		return nil
	}
	out := make(Params, len(ps))
	copy(out, ps)
	return out
}

// Pop removes key and returns its value, or def when key is absent.
func (ps *Params) Pop(key, def string) string {
	for i, p := range *ps {
		if p.Key == key {
			*ps = append((*ps)[:i:i], (*ps)[i+1:]...)
			return p.Value
		}
	}
	return def
}

// Encode renders the params as key=value pairs joined by '&', in order.
func (ps Params) Encode() string {
	var b strings.Builder
	for i, p := range ps {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}
