package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/nao1215/webrecon/internal/model"
)

var (
	summaryHeaders = []string{"Kind", "Target", "State", "Processed", "Retained", "Errors", "Duration"}
	historyHeaders = []string{"ID", "Kind", "Target", "State", "Processed", "Retained", "Started"}
)

// WriteSummaryTable renders one line per job, used after batch scans.
// With noColor it falls back to a plain table.
func WriteSummaryTable(w io.Writer, reports []*model.JobReport, noColor bool) {
	writeJobTable(w, summaryHeaders, 2, reports, summaryRow, noColor)
}

// WriteHistoryTable renders stored jobs for the history command. The rows
// of the reports are not needed.
func WriteHistoryTable(w io.Writer, reports []*model.JobReport, noColor bool) {
	writeJobTable(w, historyHeaders, 3, reports, historyRow, noColor)
}

func writeJobTable(w io.Writer, headers []string, stateCol int, reports []*model.JobReport, toRow func(*model.JobReport) []string, noColor bool) {
	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			continue
		}
		rows = append(rows, toRow(r))
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No jobs.")
		return
	}

	if noColor {
		writePlainTable(w, headers, rows)
		return
	}

	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).Padding(0, 1)
			}
			style := lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Padding(0, 1)
			if col == stateCol && row >= 0 && row < len(rows) {
				style = style.Foreground(stateColor(rows[row][stateCol]))
			}
			return style
		})
	for _, row := range rows {
		t.Row(row...)
	}
	fmt.Fprintln(w, t.Render())
}

func summaryRow(r *model.JobReport) []string {
	return []string{
		string(r.Kind),
		truncateString(r.Target, 50),
		string(r.State),
		strconv.Itoa(r.Metrics.ProcessedRequests),
		strconv.Itoa(r.Metrics.FilteredRequests),
		strconv.Itoa(len(r.ErrorRows())),
		r.Metrics.RunningTime.Round(time.Millisecond).String(),
	}
}

func historyRow(r *model.JobReport) []string {
	return []string{
		r.ID,
		string(r.Kind),
		truncateString(r.Target, 50),
		string(r.State),
		strconv.Itoa(r.Metrics.ProcessedRequests),
		strconv.Itoa(r.Metrics.FilteredRequests),
		formatTime(r.StartedAt),
	}
}

func stateColor(state string) lipgloss.Color {
	switch model.JobState(state) {
	case model.StateCompleted:
		return lipgloss.Color("42")
	case model.StateStopped:
		return lipgloss.Color("214")
	case model.StateError:
		return lipgloss.Color("196")
	default:
		return lipgloss.Color("250")
	}
}

func writePlainTable(w io.Writer, headers []string, rows [][]string) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], len([]rune(cell)))
		}
	}

	writeLine := func(cells []string) {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			parts[i] = cell + strings.Repeat(" ", widths[i]-len([]rune(cell)))
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(parts, " | "), " "))
	}

	writeLine(headers)
	seps := make([]string, len(widths))
	for i, width := range widths {
		seps[i] = strings.Repeat("-", width)
	}
	fmt.Fprintln(w, strings.Join(seps, "-+-"))
	for _, row := range rows {
		writeLine(row)
	}
}
