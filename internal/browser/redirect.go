package browser

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/webload/internal/fetch"
)

// follow sends the initial request and chases 301/302 responses while the
// redirect budget lasts. Running out of budget is not an error: the last
// redirect response is returned.
func (b *Browser) follow(ctx context.Context, method, rawURL string, params url.Values) ([]*fetch.Response, error) {
	resp, err := b.send(ctx, EventRequest, method, rawURL, params)
	if err != nil {
		return nil, err
	}
	responses := []*fetch.Response{resp}
	b.history.AddRequest(method, rawURL, params)
	b.SetReferer(rawURL, false)

	budget := b.opts.MaxRedirects
	for resp.IsRedirect() {
		if budget <= 0 {
			b.emit(newEvent(EventRedirectLimit, string(b.id), method, resp.URL, resp))
			break
		}

		location := resp.Header("Location")
		if location == "" {
			b.logger.Warn("redirect without location",
				zap.Int("status", resp.Code),
				zap.String("url", resp.URL))
			break
		}
		next, err := resolveLocation(resp.BaseURL(), location)
		if err != nil {
			return responses, err
		}

		resp, err = b.send(ctx, EventRedirect, method, next, params)
		if err != nil {
			return responses, err
		}
		responses = append(responses, resp)
		b.history.AddRequest(method, next, params)
		b.SetReferer(next, false)
		budget--
	}
	return responses, nil
}

func resolveLocation(base, location string) (string, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid redirect base %q: %w", base, err)
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", fmt.Errorf("invalid redirect location %q: %w", location, err)
	}
	return baseURL.ResolveReference(ref).String(), nil
}
