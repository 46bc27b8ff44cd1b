package stats

import "github.com/GriffinCanCode/webload/internal/fetch"

// Sample is the timing triple of one response, in seconds.
type Sample struct {
	Total    float64
	Connect  float64
	Transfer float64
}

// Bucket groups samples by requested URL, remembering first-seen order.
type Bucket struct {
	samples  map[string][]Sample
	order    []string
	requests int
	bytes    int64
}

func NewBucket() *Bucket {
	return &Bucket{samples: make(map[string][]Sample)}
}

// Add folds one response into the bucket.
func (b *Bucket) Add(resp *fetch.Response) {
	key := resp.URL
	if _, seen := b.samples[key]; !seen {
		b.order = append(b.order, key)
	}
	b.samples[key] = append(b.samples[key], Sample{
		Total:    resp.TotalTime,
		Connect:  resp.ConnectTime,
		Transfer: resp.TransferTime,
	})
	b.requests++
	b.bytes += resp.SizeDownload
}

// URLs returns the bucket keys in first-seen order.
func (b *Bucket) URLs() []string {
	return append([]string(nil), b.order...)
}

func (b *Bucket) Samples(rawURL string) []Sample {
	return b.samples[rawURL]
}

func (b *Bucket) Requests() int { return b.requests }

func (b *Bucket) Bytes() int64 { return b.bytes }

// series splits samples into total, connect and transfer columns.
func series(samples []Sample) (total, connect, transfer []float64) {
	total = make([]float64, len(samples))
	connect = make([]float64, len(samples))
	transfer = make([]float64, len(samples))
	for i, s := range samples {
		total[i], connect[i], transfer[i] = s.Total, s.Connect, s.Transfer
	}
	return total, connect, transfer
}
