package discover

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// Discoverer extracts resource URLs from a page body.
type Discoverer interface {
	Discover(body []byte, baseURL string) ([]string, error)
}

// New returns the discoverer registered under name ("css" or "xpath").
func New(name string) (Discoverer, error) {
	switch strings.ToLower(name) {
	case "", "css", "goquery":
		return Selector{}, nil
	case "xpath", "htmlquery":
		return XPath{}, nil
	default:
		return nil, fmt.Errorf("unknown parser %q", name)
	}
}

// resourceAttrs maps an element to the attributes that reference resources.
var resourceAttrs = map[string][]string{
	"link":   {"href"},
	"script": {"src"},
	"img":    {"src"},
	"input":  {"src"},
	"frame":  {"src"},
	"iframe": {"src"},
	"embed":  {"src"},
	"body":   {"background"},
	"table":  {"background"},
	"td":     {"background"},
	"th":     {"background"},
}

var skipSchemes = []string{"data:", "javascript:", "mailto:", "tel:", "about:", "vbscript:"}

// attrGetter abstracts attribute access across parser node types.
type attrGetter func(name string) (string, bool)

// references returns the raw resource references carried by one element.
func references(tag string, attr attrGetter) []string {
	names, ok := resourceAttrs[tag]
	if !ok {
		return nil
	}

	switch tag {
	case "link":
		rel, _ := attr("rel")
		if !loadableRel(rel) {
			return nil
		}
	case "input":
		typ, _ := attr("type")
		if !strings.EqualFold(strings.TrimSpace(typ), "image") {
			return nil
		}
	}

	var refs []string
	for _, name := range names {
		if v, ok := attr(name); ok {
			refs = append(refs, v)
		}
	}
	return refs
}

func loadableRel(rel string) bool {
	for _, r := range strings.Fields(strings.ToLower(rel)) {
		if r == "stylesheet" || r == "icon" {
			return true
		}
	}
	return false
}

// resolver turns raw references into absolute URLs.
type resolver struct {
	base *url.URL
}

func newResolver(baseURL string) (*resolver, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	return &resolver{base: base}, nil
}

// rebase applies a <base href> found in the document.
func (r *resolver) rebase(href string) {
	if href = strings.TrimSpace(href); href == "" {
		return
	}
	if u, err := url.Parse(href); err == nil {
		r.base = r.base.ResolveReference(u)
	}
}

func (r *resolver) resolve(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") {
		return "", false
	}
	lower := strings.ToLower(ref)
	for _, scheme := range skipSchemes {
		if strings.HasPrefix(lower, scheme) {
			return "", false
		}
	}

	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}
	abs := r.base.ResolveReference(u)
	abs.Fragment = ""
	return abs.String(), true
}

// utf8Reader returns body as UTF-8, transcoding when chardet finds another
// charset.
func utf8Reader(body []byte) io.Reader {
	if utf8.Valid(body) {
		return bytes.NewReader(body)
	}
	enc := detectCharset(body)
	r, err := charset.NewReader(bytes.NewReader(body), "text/html; charset="+enc)
	if err != nil {
		return bytes.NewReader(body)
	}
	return r
}

func detectCharset(data []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}
