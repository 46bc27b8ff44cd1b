package browser

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/GriffinCanCode/webload/internal/fetch"
)

type call struct {
	Method string
	URL    string
	Params url.Values
}

// scriptedFetcher serves canned responses keyed by URL.
type scriptedFetcher struct {
	pages     map[string]*fetch.Response
	failing   map[string]bool
	calls     []call
	referers  []string
	userAgent string
	headers   map[string]string
	auth      string
}

func newScriptedFetcher() *scriptedFetcher {
	return &scriptedFetcher{
		pages:   make(map[string]*fetch.Response),
		failing: make(map[string]bool),
		headers: make(map[string]string),
	}
}

func (f *scriptedFetcher) page(rawURL, contentType, body string) *scriptedFetcher {
	f.pages[rawURL] = &fetch.Response{
		Code:         http.StatusOK,
		Headers:      http.Header{"Content-Type": {contentType}},
		ContentType:  contentType,
		Body:         []byte(body),
		TotalTime:    0.01,
		SizeDownload: int64(len(body)),
	}
	return f
}

func (f *scriptedFetcher) redirect(rawURL string, code int, location string) *scriptedFetcher {
	h := http.Header{}
	if location != "" {
		h.Set("Location", location)
	}
	f.pages[rawURL] = &fetch.Response{Code: code, Headers: h, TotalTime: 0.001}
	return f
}

func (f *scriptedFetcher) Fetch(_ context.Context, rawURL string, params url.Values, method string) (*fetch.Response, error) {
	f.calls = append(f.calls, call{Method: method, URL: rawURL, Params: params})
	if f.failing[rawURL] {
		return nil, errors.New("connection reset")
	}
	tmpl, ok := f.pages[rawURL]
	if !ok {
		tmpl = &fetch.Response{Code: http.StatusNotFound, Headers: http.Header{}, ContentType: "text/plain"}
	}
	resp := *tmpl
	resp.URL = rawURL
	resp.EffectiveURL = rawURL
	return &resp, nil
}

func (f *scriptedFetcher) SetHeader(name, value string)      { f.headers[name] = value }
func (f *scriptedFetcher) SetUserAgent(value string)         { f.userAgent = value }
func (f *scriptedFetcher) SetBasicAuth(user, password string) { f.auth = user + ":" + password }
func (f *scriptedFetcher) ClearBasicAuth()                   { f.auth = "" }
func (f *scriptedFetcher) SetReferer(rawURL string)          { f.referers = append(f.referers, rawURL) }

func (f *scriptedFetcher) urls() []string {
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.URL
	}
	return out
}

// staticDiscoverer returns the same links for every page.
type staticDiscoverer struct {
	links []string
	err   error
}

func (d staticDiscoverer) Discover([]byte, string) ([]string, error) {
	if d.err != nil {
		return nil, d.err
	}
	return append([]string(nil), d.links...), nil
}

func responseURLs(rs []*fetch.Response) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.URL
	}
	return out
}
