package eval

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Reporter formats and outputs evaluation reports.
type Reporter struct {
	writer io.Writer
}

// NewReporter creates a new reporter that writes to the given writer.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = os.Stdout
	}
	return &Reporter{writer: w}
}

// PrintSummary prints a human-readable summary of a report.
func (r *Reporter) PrintSummary(report *Report) {
	w := r.writer

	fmt.Fprintln(w)
	fmt.Fprintln(w, "╔════════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(w, "║              Vordr Query Correction Evaluation                 ║")
	fmt.Fprintln(w, "╚════════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(w)

	fmt.Fprintf(w, "📊 Suite: %s\n", report.Suite)
	fmt.Fprintf(w, "📅 Time:  %s\n", report.RanAt.Format(time.RFC3339))
	fmt.Fprintf(w, "⏱️  Duration: %v\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintln(w)

	m := report.Metrics
	statusIcon := "✅"
	if m.Failed > 0 {
		statusIcon = "⚠️"
	}
	if m.Accuracy < 0.5 {
		statusIcon = "❌"
	}
	fmt.Fprintf(w, "%s Cases: %d/%d passed (%.1f%%)\n",
		statusIcon, m.Passed, m.Total, m.Accuracy*100)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "┌─────────────────────────────────────────────────────────────────┐")
	fmt.Fprintln(w, "│                           Outcomes                              │")
	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────┤")
	fmt.Fprintf(w, "│   %-14s %d\n", "Unchanged", m.Total-m.Corrected-m.Discarded)
	fmt.Fprintf(w, "│   %-14s %d\n", "Corrected", m.Corrected)
	fmt.Fprintf(w, "│   %-14s %d\n", "Discarded", m.Discarded)
	fmt.Fprintln(w, "├─────────────────────────────────────────────────────────────────┤")
	fmt.Fprintf(w, "│   %-14s %s %.3f\n", "Accuracy", r.progressBar(m.Accuracy, 20), m.Accuracy)
	fmt.Fprintln(w, "└─────────────────────────────────────────────────────────────────┘")
	fmt.Fprintln(w)
}

// progressBar creates a visual progress bar.
func (r *Reporter) progressBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s]", bar)
}

// PrintDetails prints per-case results.
func (r *Reporter) PrintDetails(report *Report) {
	w := r.writer

	fmt.Fprintln(w)
	for i, res := range report.Results {
		status := "✅"
		if !res.Passed {
			status = "❌"
		}

		fmt.Fprintf(w, "%s Case %d: %s [%s]\n", status, i+1, res.CaseID, res.Outcome)
		fmt.Fprintf(w, "   Query: %q\n", truncate(res.Query, 60))
		if !res.Passed {
			if res.Outcome == OutcomeDiscarded {
				fmt.Fprintf(w, "   Want:  %q\n", truncate(res.Want, 60))
			} else {
				fmt.Fprintf(w, "   Got:   %q\n", truncate(res.Got, 60))
				if res.Want != "" {
					fmt.Fprintf(w, "   Want:  %q\n", truncate(res.Want, 60))
				}
			}
		}
	}
	fmt.Fprintln(w)
}

// PrintJSON outputs the report as JSON.
func (r *Reporter) PrintJSON(report *Report) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// SaveJSON saves the report to a JSON file.
func (r *Reporter) SaveJSON(report *Report, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

// PrintCompact prints a one-line summary.
func (r *Reporter) PrintCompact(report *Report) {
	status := "PASS"
	if report.Metrics.Failed > 0 {
		status = "FAIL"
	}

	fmt.Fprintf(r.writer, "[%s] %d/%d cases | corrected=%d discarded=%d accuracy=%.2f | %v\n",
		status,
		report.Metrics.Passed, report.Metrics.Total,
		report.Metrics.Corrected,
		report.Metrics.Discarded,
		report.Metrics.Accuracy,
		report.Duration.Round(time.Millisecond),
	)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
