package browser

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webload/internal/fetch"
)

// fetchResources loads the resources embedded in page. Records are tagged
// with the page's method and params.
func (b *Browser) fetchResources(ctx context.Context, page *fetch.Response, method string, params url.Values, useCache bool) ([]*fetch.Response, error) {
	links, err := b.discoverer.Discover(page.Body, page.BaseURL())
	if err != nil {
		return nil, fmt.Errorf("discovering resources of %s: %w", page.BaseURL(), err)
	}

	if useCache {
		links = b.uncached(links)
	}

	responses := make([]*fetch.Response, 0, len(links))
	for _, link := range links {
		resp, err := b.send(ctx, EventResource, fetch.MethodGet, link, nil)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
		b.history.AddRequest(method, link, params)
	}
	return responses, nil
}

// uncached drops links already fetched with a plain GET. History is read
// once, before any of the links are fetched.
func (b *Browser) uncached(links []string) []string {
	kept := make([]string, 0, len(links))
	for _, link := range links {
		if b.history.HasPlainGet(link) {
			b.logger.Debug("resource cached", zap.String("url", link))
			continue
		}
		kept = append(kept, link)
	}
	return kept
}
