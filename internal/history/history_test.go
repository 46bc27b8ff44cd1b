package history

import (
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddRequestKeepsOrderAndDuplicates(t *testing.T) {
	h := New()
	h.AddRequest("GET", "http://a/", nil)
	h.AddRequest("GET", "http://a/x.css", nil)
	h.AddRequest("GET", "http://a/x.css", nil)

	reqs := h.Requests()
	assert.Len(t, reqs, 3)
	assert.Equal(t, "http://a/", reqs[0].URL)
	assert.Equal(t, reqs[1], reqs[2])
	assert.Equal(t, 3, h.Len())
}

func TestHasPlainGet(t *testing.T) {
	tests := []struct {
		name   string
		method string
		params url.Values
		want   bool
	}{
		{"plain get", "GET", nil, true},
		{"empty params", "GET", url.Values{}, true},
		{"get with params", "GET", url.Values{"q": {"1"}}, false},
		{"post", "POST", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			h.AddRequest(tt.method, "http://a/r", tt.params)
			assert.Equal(t, tt.want, h.HasPlainGet("http://a/r"))
			assert.False(t, h.HasPlainGet("http://a/other"))
		})
	}
}

func TestPages(t *testing.T) {
	h := New()
	h.AddPage("GET", "http://a/", nil)
	h.AddPage("POST", "http://a/login", url.Values{"u": {"bob"}})

	pages := h.Pages()
	assert.Equal(t, []PageVisit{
		{Method: "GET", URL: "http://a/"},
		{Method: "POST", URL: "http://a/login", Params: url.Values{"u": {"bob"}}},
	}, pages)
	assert.Equal(t, 0, h.Len())
}

func TestSnapshotsAreCopies(t *testing.T) {
	h := New()
	h.AddRequest("GET", "http://a/", nil)

	reqs := h.Requests()
	reqs[0].URL = "mutated"
	assert.Equal(t, "http://a/", h.Requests()[0].URL)
}

func TestConcurrentReaders(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.Requests()
			_ = h.HasPlainGet("http://a/")
		}()
	}
	for i := 0; i < 100; i++ {
		h.AddRequest("GET", "http://a/", nil)
	}
	wg.Wait()
	assert.Equal(t, 100, h.Len())
}
