package report

import (
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/webrecon/internal/model"
)

// Writer renders a finished job.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.JobReport) (int, error)
}

// MultiWriter writes every report to several Writers, for example the
// terminal and a report file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to each writer in order and stops at the first error.
func (m *MultiWriter) Write(report *model.JobReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

var kindLabels = map[model.StrategyKind]string{
	model.StrategyCrawl:      "crawl",
	model.StrategyBruteForce: "brute force",
	model.StrategyFuzz:       "fuzz",
}

// kindTitle returns a heading such as "Brute Force".
func kindTitle(kind model.StrategyKind) string {
	label, ok := kindLabels[kind]
	if !ok {
		label = "scan"
	}
	return cases.Title(language.English).String(label)
}

// stateText describes how a job ended.
func stateText(r *model.JobReport) string {
	switch r.State {
	case model.StateCompleted:
		return "completed"
	case model.StateStopped:
		return "stopped (partial results)"
	case model.StateError:
		if r.Error != "" {
			return "error: " + r.Error
		}
		return "error"
	default:
		return string(r.State)
	}
}

// truncateString shortens s to maxLen runes, ending with "...".
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
