package fetch

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// HTTP methods understood by the browser.
const (
	MethodGet  = http.MethodGet
	MethodPost = http.MethodPost
)

// Fetcher performs single HTTP requests and holds per-session header state.
type Fetcher interface {
	// Fetch sends params as the query string for GET and as a form body
	// for POST. Redirects are returned as-is.
	Fetch(ctx context.Context, rawURL string, params url.Values, method string) (*Response, error)
	SetHeader(name, value string)
	SetUserAgent(value string)
	SetBasicAuth(user, password string)
	ClearBasicAuth()
	SetReferer(rawURL string)
}

// Response is the immutable result of one fetch.
type Response struct {
	URL          string
	EffectiveURL string
	Code         int
	Headers      http.Header
	ContentType  string
	Body         []byte

	// Timings in seconds.
	TotalTime    float64
	ConnectTime  float64
	TransferTime float64

	SizeDownload int64
}

// Header returns the first value of the named header, case-insensitively.
func (r *Response) Header(name string) string {
	if r == nil || r.Headers == nil {
		return ""
	}
	return r.Headers.Get(name)
}

// IsRedirect reports whether the response is a 301 or 302.
func (r *Response) IsRedirect() bool {
	return r.Code == http.StatusMovedPermanently || r.Code == http.StatusFound
}

// IsHTML reports whether the content type looks like markup.
func (r *Response) IsHTML() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "html")
}

// BaseURL is the URL relative references in the response resolve against.
func (r *Response) BaseURL() string {
	if r.EffectiveURL != "" {
		return r.EffectiveURL
	}
	return r.URL
}

// DetectContentType returns the declared Content-Type, or a sniffed one when
// the server sent none.
func DetectContentType(header http.Header, body []byte) string {
	if ct := header.Get("Content-Type"); ct != "" {
		if _, _, err := mime.ParseMediaType(ct); err == nil {
			return ct
		}
	}
	if len(body) == 0 {
		return ""
	}
	return mimetype.Detect(body).String()
}

// EncodeQuery appends params to rawURL's existing query string.
func EncodeQuery(rawURL string, params url.Values) (string, error) {
	if len(params) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
