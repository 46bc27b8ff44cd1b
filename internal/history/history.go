// Package history records what a browse session has requested and visited.
//
// The log is append-only. Besides the ordered slices it keeps the set of URLs
// fetched with a plain GET (no parameters), which is what the resource cache
// consults.
package history

import (
	"net/url"
	"sync"
)

// RequestRecord is one request actually sent, including redirect hops and
// resource fetches.
type RequestRecord struct {
	Method string     `json:"method" yaml:"method"`
	URL    string     `json:"url" yaml:"url"`
	Params url.Values `json:"params,omitempty" yaml:"params,omitempty"`
}

// PageVisit is one top-level Get or Post call.
type PageVisit struct {
	Method string     `json:"method" yaml:"method"`
	URL    string     `json:"url" yaml:"url"`
	Params url.Values `json:"params,omitempty" yaml:"params,omitempty"`
}

// History is the navigation log of one browse session.
type History struct {
	mu       sync.RWMutex
	requests []RequestRecord
	pages    []PageVisit
	plainGet map[string]struct{}
}

// New creates an empty history.
func New() *History {
	return &History{plainGet: make(map[string]struct{})}
}

// AddRequest appends a request record.
func (h *History) AddRequest(method, rawURL string, params url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.requests = append(h.requests, RequestRecord{Method: method, URL: rawURL, Params: params})
	if method == "GET" && len(params) == 0 {
		h.plainGet[rawURL] = struct{}{}
	}
}

// AddPage appends a page visit.
func (h *History) AddPage(method, rawURL string, params url.Values) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.pages = append(h.pages, PageVisit{Method: method, URL: rawURL, Params: params})
}

// HasPlainGet reports whether rawURL was ever requested with GET and no
// parameters.
func (h *History) HasPlainGet(rawURL string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.plainGet[rawURL]
	return ok
}

// Requests returns a copy of the request log in insertion order.
func (h *History) Requests() []RequestRecord {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]RequestRecord, len(h.requests))
	copy(out, h.requests)
	return out
}

// Pages returns a copy of the page log in insertion order.
func (h *History) Pages() []PageVisit {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]PageVisit, len(h.pages))
	copy(out, h.pages)
	return out
}

// Len returns the number of recorded requests.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.requests)
}
