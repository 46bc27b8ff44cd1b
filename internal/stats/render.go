package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var rowTitles = [...]string{
	"average:", "std dev:", "minimum:", "median:",
	"90%:", "95%:", "98%:", "maximum:", "per second:",
}

const rule = "----------- ----------- ------------ ------------\n"

// Render writes r in the named format.
func Render(w io.Writer, r *Report, format string) error {
	switch strings.ToLower(format) {
	case "", FormatText:
		return RenderText(w, r)
	case FormatJSON:
		return RenderJSON(w, r)
	case FormatYAML, "yml":
		return RenderYAML(w, r)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// RenderText writes the classic fixed-width table.
func RenderText(w io.Writer, r *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Performing %d requests, during %.3fs, download: %.2fKb\n", r.Requests, r.Elapsed, r.KB)
	fmt.Fprintf(&b, "  Effective requests per second: %.3f RPS\n", r.RequestsPerSecond)
	fmt.Fprintf(&b, "                 Transfer rate: %.3f Kb/s\n\n", r.TransferRate)

	for _, u := range r.URLs {
		fmt.Fprintf(&b, "Stat for %d requests of: %s\n", u.Count, u.URL)
		b.WriteString("                 total      connect     transfer\n")
		b.WriteString(rule)
		total, connect, transfer := u.Total.values(), u.Connect.values(), u.Transfer.values()
		for i, title := range rowTitles {
			fmt.Fprintf(&b, "%11s%12.6f %12.6f %12.6f\n", title, total[i], connect[i], transfer[i])
		}
		b.WriteString(rule)
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (s Summary) values() [9]float64 {
	return [9]float64{s.Average, s.StdDev, s.Min, s.Median, s.P90, s.P95, s.P98, s.Max, s.PerSecond}
}

func RenderJSON(w io.Writer, r *Report) error {
	data, err := sonic.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func RenderYAML(w io.Writer, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
