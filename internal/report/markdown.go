package report

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/webrecon/internal/model"
)

// maxMarkdownRows caps the results table; the JSON report has every row.
const maxMarkdownRows = 500

// MarkdownWriter outputs reports in Markdown for sharing and documentation.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown.
func (w *MarkdownWriter) Write(report *model.JobReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeStatusChart(md, report)
	w.writeResults(md, report)
	w.writeFindings(md, report)
	if report.Kind == model.StrategyCrawl && len(report.Rows) > 0 {
		w.writeCrawlTree(md, report)
	}
	w.writeDuplicates(md, report)
	w.writeErrors(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.JobReport) {
	md.H1(kindTitle(report.Kind) + " Report")
	md.PlainText("")

	m := report.Metrics
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Job", "`" + report.ID + "`"},
			{"Target", "`" + report.Target + "`"},
			{"Started", formatTime(report.StartedAt)},
			{"Status", stateText(report)},
			{"Running Time", m.RunningTime.Round(time.Millisecond).String()},
			{"Processed Requests", strconv.Itoa(m.ProcessedRequests)},
			{"Filtered Requests", strconv.Itoa(m.FilteredRequests)},
			{"Requests/sec", strconv.FormatFloat(m.RequestsPerSecond, 'f', 2, 64)},
		},
	})
	md.PlainText("")

	switch report.State {
	case model.StateError:
		md.Cautionf("The job failed: %s", report.Error)
		md.PlainText("")
	case model.StateStopped:
		md.Warning("The job was stopped before finishing. Results are partial.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeStatusChart(md *markdown.Markdown, report *model.JobReport) {
	counts := report.StatusCounts()
	if len(counts) == 0 {
		return
	}

	md.H2("Status Distribution")
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Responses by status"),
		piechart.WithShowData(true),
	)
	for _, status := range sortedStatuses(counts) {
		chart.LabelAndIntValue(statusLabel(status), uint64(counts[status])) //nolint:gosec // counts are non-negative
	}
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeResults(md *markdown.Markdown, report *model.JobReport) {
	md.H2("Results")
	md.PlainText("")

	if len(report.Retained) == 0 {
		md.PlainText("No results passed the filter.")
		md.PlainText("")
		return
	}

	rows := report.Retained
	if len(rows) > maxMarkdownRows {
		rows = rows[:maxMarkdownRows]
	}

	header, cells := resultColumns(report.Kind, rows)
	md.Table(markdown.TableSet{Header: header, Rows: cells})
	md.PlainText("")

	if len(report.Retained) > maxMarkdownRows {
		md.Notef("Showing %d of %d results. Use --json for the full list.", maxMarkdownRows, len(report.Retained))
		md.PlainText("")
	}
}

// resultColumns picks the table layout for a job kind.
func resultColumns(kind model.StrategyKind, rows []model.Row) ([]string, [][]string) {
	cells := make([][]string, len(rows))
	switch kind {
	case model.StrategyCrawl:
		for i, r := range rows {
			cells[i] = []string{
				truncateString(r.URL, 60), strconv.Itoa(r.Status), truncateString(orDash(r.Title), 40),
				strconv.Itoa(r.WordCount), strconv.Itoa(r.LinksFound), strconv.Itoa(r.Length),
			}
		}
		return []string{"URL", "Status", "Title", "Words", "Links", "Length"}, cells
	case model.StrategyFuzz:
		for i, r := range rows {
			cells[i] = []string{
				"`" + truncateString(r.PayloadOrEmpty(), 40) + "`", r.Parameter,
				strconv.Itoa(r.Status), strconv.Itoa(r.Length), truncateString(r.URL, 60),
			}
		}
		return []string{"Payload", "Parameter", "Status", "Length", "URL"}, cells
	default:
		for i, r := range rows {
			cells[i] = []string{truncateString(r.URL, 80), strconv.Itoa(r.Status), strconv.Itoa(r.Length)}
		}
		return []string{"URL", "Status", "Length"}, cells
	}
}

func (w *MarkdownWriter) writeCrawlTree(md *markdown.Markdown, report *model.JobReport) {
	md.H2("Site Map")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlight("text"), RenderTree(BuildCrawlTree(report.Rows)))
	md.PlainText("")
}

func (w *MarkdownWriter) writeDuplicates(md *markdown.Markdown, report *model.JobReport) {
	dups := report.Duplicates()
	if len(dups) == 0 {
		return
	}

	md.H2("Identical Responses")
	md.PlainText("")
	md.Important("Several URLs returned the same body. This often means a catch-all page or a soft 404.")
	md.PlainText("")

	hashes := make([]string, 0, len(dups))
	for h := range dups {
		hashes = append(hashes, h)
	}
	slices.Sort(hashes)

	for _, h := range hashes {
		urls := make([]string, len(dups[h]))
		for i, r := range dups[h] {
			urls[i] = r.URL
		}
		md.Details(fmt.Sprintf("%s (%d responses)", h[:min(12, len(h))], len(urls)), joinLines(urls))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeFindings(md *markdown.Markdown, report *model.JobReport) {
	if len(report.Findings) == 0 {
		return
	}

	md.H2("Findings")
	md.PlainText("")

	cells := make([][]string, len(report.Findings))
	for i, f := range report.Findings {
		cells[i] = []string{f.Severity.String(), f.Title, truncateString(orDash(f.Value), 60), truncateString(f.URL, 60)}
	}
	md.Table(markdown.TableSet{Header: []string{"Severity", "Finding", "Value", "URL"}, Rows: cells})
	md.PlainText("")
}

func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, report *model.JobReport) {
	errs := report.ErrorRows()
	if len(errs) == 0 {
		return
	}

	md.H2("Errors")
	md.PlainText("")

	cells := make([][]string, len(errs))
	for i, r := range errs {
		cells[i] = []string{truncateString(r.URL, 60), strconv.Itoa(r.Status), truncateString(orDash(r.ErrorMessage), 60)}
	}
	md.Table(markdown.TableSet{Header: []string{"URL", "Status", "Message"}, Rows: cells})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [webrecon](https://github.com/nao1215/webrecon)*")
}

func sortedStatuses(counts map[int]int) []int {
	statuses := make([]int, 0, len(counts))
	for s := range counts {
		statuses = append(statuses, s)
	}
	slices.Sort(statuses)
	return statuses
}

func statusLabel(status int) string {
	if status == 0 {
		return "no response"
	}
	return strconv.Itoa(status)
}
