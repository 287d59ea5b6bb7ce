package main

import (
	"strings"

	http "github.com/bogdanfinn/fhttp"
)

// Header is a single request header name/value pair.
type Header struct {
	Name  string
	Value string
}

// HeaderSet is an ordered set of request headers. The order is preserved on
// the wire through fhttp's header ordering.
type HeaderSet []Header

// Get returns the value for name and whether it was present. Names match
// case-insensitively.
func (h HeaderSet) Get(name string) (string, bool) {
	if i := h.index(name); i >= 0 {
		return h[i].Value, true
	}
	return "", false
}

func (h HeaderSet) index(name string) int {
	for i, hdr := range h {
		if strings.EqualFold(hdr.Name, name) {
			return i
		}
	}
	return -1
}

// Merge returns a new set where each override replaces the value of an
// existing header in place and unseen headers are appended in order.
// Headers not named by overrides are kept. Neither input is modified.
func (h HeaderSet) Merge(overrides HeaderSet) HeaderSet {
	merged := make(HeaderSet, len(h), len(h)+len(overrides))
	copy(merged, h)

	for _, o := range overrides {
		if i := merged.index(o.Name); i >= 0 {
			merged[i].Value = o.Value
			continue
		}
		merged = append(merged, o)
	}
	return merged
}

// Clone returns a copy of the set.
func (h HeaderSet) Clone() HeaderSet {
	if h == nil {
		return nil
	}
	out := make(HeaderSet, len(h))
	copy(out, h)
	return out
}

// pseudoHeaderOrder is the HTTP/2 pseudo-header order Chrome uses.
var pseudoHeaderOrder = []string{":method", ":authority", ":scheme", ":path"}

// toHTTP converts the set into an fhttp header map carrying the header order.
func (h HeaderSet) toHTTP() http.Header {
	header := make(http.Header, len(h)+2)
	order := make([]string, 0, len(h))

	for _, hdr := range h {
		header[hdr.Name] = []string{hdr.Value}
		order = append(order, strings.ToLower(hdr.Name))
	}

	header[http.HeaderOrderKey] = order
	header[http.PHeaderOrderKey] = pseudoHeaderOrder
	return header
}
