package browser

import (
	"go.uber.org/zap"

	"github.com/GriffinCanCode/webload/internal/fetch"
)

// EventKind classifies browser events.
type EventKind string

const (
	EventRequest       EventKind = "request"
	EventRedirect      EventKind = "redirect"
	EventResource      EventKind = "resource"
	EventRedirectLimit EventKind = "redirect_limit"
)

// Event describes one step of a browse call.
type Event struct {
	Kind      EventKind
	SessionID string
	Method    string
	URL       string
	Status    int
	// Elapsed is the fetch total time in seconds.
	Elapsed float64
	Size    int64
}

// Observer receives browser events synchronously.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

func (f ObserverFunc) Observe(e Event) { f(e) }

func newEvent(kind EventKind, session, method, rawURL string, resp *fetch.Response) Event {
	e := Event{Kind: kind, SessionID: session, Method: method, URL: rawURL}
	if resp != nil {
		e.Status = resp.Code
		e.Elapsed = resp.TotalTime
		e.Size = resp.SizeDownload
	}
	return e
}

func (b *Browser) emit(e Event) {
	switch e.Kind {
	case EventRedirectLimit:
		b.logger.Warn("too many redirects, giving up",
			zap.Int("max_redirects", b.opts.MaxRedirects),
			zap.String("url", e.URL))
	default:
		b.logger.Debug(string(e.Kind),
			zap.String("method", e.Method),
			zap.String("url", e.URL),
			zap.Int("status", e.Status),
			zap.Float64("elapsed", e.Elapsed),
			zap.Int64("size", e.Size))
	}

	for _, o := range b.observers {
		o.Observe(e)
	}
}
