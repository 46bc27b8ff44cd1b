package retryfetch

import (
	"context"
	"crypto/tls"
	"net/http/httptrace"
	"sync"
	"time"
)

// timer records connection milestones for a single attempt.
type timer struct {
	mu        sync.Mutex
	start     time.Time
	connected time.Time
	firstByte time.Time
}

func (t *timer) withTrace(ctx context.Context) context.Context {
	return httptrace.WithClientTrace(ctx, &httptrace.ClientTrace{
		GetConn: func(string) {
			t.mu.Lock()
			t.start = time.Now()
			t.connected = time.Time{}
			t.firstByte = time.Time{}
			t.mu.Unlock()
		},
		ConnectDone: func(_, _ string, err error) {
			if err == nil {
				t.mark(&t.connected)
			}
		},
		TLSHandshakeDone: func(tls.ConnectionState, error) {
			t.mark(&t.connected)
		},
		GotFirstResponseByte: func() {
			t.mark(&t.firstByte)
		},
	})
}

func (t *timer) mark(at *time.Time) {
	t.mu.Lock()
	*at = time.Now()
	t.mu.Unlock()
}

// durations returns total, connect and transfer seconds given the time the
// body finished reading.
func (t *timer) durations(begin, end time.Time) (total, connect, transfer float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	total = end.Sub(begin).Seconds()
	if !t.connected.IsZero() && !t.start.IsZero() {
		connect = t.connected.Sub(t.start).Seconds()
	}
	if !t.firstByte.IsZero() {
		transfer = end.Sub(t.firstByte).Seconds()
	}
	return total, connect, transfer
}
