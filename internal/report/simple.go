package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/webrecon/internal/model"
)

// SimpleWriter outputs a plain text summary for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose also lists error rows and, for crawls, the site map.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the error list and site map.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report as text.
func (w *SimpleWriter) Write(report *model.JobReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeResults(&sb, report)
	w.writeFindings(&sb, report)
	if w.verbose {
		w.writeErrors(&sb, report)
		if report.Kind == model.StrategyCrawl && len(report.Rows) > 0 {
			sb.WriteString("\nSite map:\n")
			sb.WriteString(RenderTree(BuildCrawlTree(report.Rows)))
		}
	}
	sb.WriteString("\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.JobReport) {
	title := fmt.Sprintf("%s: %s", kindTitle(report.Kind), report.Target)
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len([]rune(title))) + "\n")

	m := report.Metrics
	fmt.Fprintf(sb, "Job:        %s\n", report.ID)
	fmt.Fprintf(sb, "Status:     %s\n", stateText(report))
	fmt.Fprintf(sb, "Duration:   %s\n", m.RunningTime.Round(time.Millisecond))
	fmt.Fprintf(sb, "Requests:   %d processed, %d retained (%.2f req/s)\n",
		m.ProcessedRequests, m.FilteredRequests, m.RequestsPerSecond)
	if n := len(report.ErrorRows()); n > 0 {
		fmt.Fprintf(sb, "Errors:     %d\n", n)
	}
	if worst, ok := report.MaxSeverity(); ok {
		fmt.Fprintf(sb, "Findings:   %d (worst %s)\n", len(report.Findings), worst)
	}
}

func (w *SimpleWriter) writeResults(sb *strings.Builder, report *model.JobReport) {
	sb.WriteString("\n")
	if len(report.Retained) == 0 {
		sb.WriteString("No results passed the filter.\n")
		return
	}

	sb.WriteString("Results:\n")
	for _, r := range report.Retained {
		sb.WriteString("  " + rowLine(report.Kind, r) + "\n")
	}
}

func (w *SimpleWriter) writeFindings(sb *strings.Builder, report *model.JobReport) {
	if len(report.Findings) == 0 {
		return
	}
	sb.WriteString("\nFindings:\n")
	for _, f := range report.Findings {
		sb.WriteString("  " + findingLine(f) + "\n")
	}
}

// findingLine formats one finding on a single line.
func findingLine(f model.Finding) string {
	line := fmt.Sprintf("[%s] %s", f.Severity, f.Title)
	if f.Value != "" {
		line += ": " + truncateString(f.Value, 60)
	}
	return line + " (" + f.URL + ")"
}

func (w *SimpleWriter) writeErrors(sb *strings.Builder, report *model.JobReport) {
	errs := report.ErrorRows()
	if len(errs) == 0 {
		return
	}
	sb.WriteString("\nErrors:\n")
	for _, r := range errs {
		fmt.Fprintf(sb, "  [%3d] %s %s\n", r.Status, r.URL, orDash(r.ErrorMessage))
	}
}

// rowLine formats one row on a single line.
func rowLine(kind model.StrategyKind, r model.Row) string {
	return fmt.Sprintf("[%3d] %s", r.Status, rowBody(kind, r))
}

func rowBody(kind model.StrategyKind, r model.Row) string {
	switch kind {
	case model.StrategyCrawl:
		return fmt.Sprintf("%s %q (%d words, %d links)", r.URL, r.Title, r.WordCount, r.LinksFound)
	case model.StrategyFuzz:
		return fmt.Sprintf("%s=%s len=%d", r.Parameter, truncateString(r.PayloadOrEmpty(), 50), r.Length)
	default:
		return fmt.Sprintf("%s len=%d", r.URL, r.Length)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04:05 MST")
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
