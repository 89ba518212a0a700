package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/webrecon/internal/model"
)

// JSONWriter outputs reports as JSON for tool integration.
type JSONWriter struct {
	baseWriter

	indentPrefix string
	indentString string
	indent       bool

	// rowsOnly writes the retained rows array instead of the whole report.
	rowsOnly bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented output with the given prefix and indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithRowsOnly writes only the retained rows as a JSON array, the same
// shape a job's filtered results are exported in.
func WithRowsOnly() JSONWriterOption {
	return func(w *JSONWriter) {
		w.rowsOnly = true
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report, or only its retained rows with WithRowsOnly.
func (w *JSONWriter) Write(report *model.JobReport) (int, error) {
	if w.rowsOnly {
		rows := report.Retained
		if rows == nil {
			rows = []model.Row{}
		}
		return w.writeJSON(rows)
	}
	return w.writeJSON(report)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}

// JSONReport wraps a report with the version of the tool that produced it.
type JSONReport struct {
	Version string           `json:"version"`
	Report  *model.JobReport `json:"report"`
	Summary JSONSummary      `json:"summary"`
}

// JSONSummary holds derived figures for quick inspection.
type JSONSummary struct {
	StatusCounts map[int]int    `json:"statusCounts"`
	ErrorCount   int            `json:"errorCount"`
	Duplicates   int            `json:"duplicateBodies"`
	Findings     map[string]int `json:"findingsBySeverity"`
}

// NewJSONReport wraps report.
func NewJSONReport(report *model.JobReport, version string) *JSONReport {
	return &JSONReport{
		Version: version,
		Report:  report,
		Summary: JSONSummary{
			StatusCounts: report.StatusCounts(),
			ErrorCount:   len(report.ErrorRows()),
			Duplicates:   len(report.Duplicates()),
			Findings:     findingCounts(report.Findings),
		},
	}
}

func findingCounts(findings []model.Finding) map[string]int {
	counts := make(map[string]int)
	for _, f := range findings {
		counts[f.Severity.String()]++
	}
	return counts
}

// FullJSONWriter outputs reports wrapped in a JSONReport.
type FullJSONWriter struct {
	*JSONWriter

	version string
}

// NewFullJSONWriter creates a writer for wrapped reports.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the wrapped report.
func (w *FullJSONWriter) Write(report *model.JobReport) (int, error) {
	return w.writeJSON(NewJSONReport(report, w.version))
}
