package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/nao1215/webrecon/internal/model"
)

// Risk directions of a Comparison.
const (
	RiskWorsened  = "worsened"
	RiskImproved  = "improved"
	RiskUnchanged = "unchanged"
)

// ErrIncomparableJobs is returned when two jobs ran different strategies.
var ErrIncomparableJobs = errors.New("jobs of different kinds cannot be compared")

// JobMeta describes one side of a comparison.
type JobMeta struct {
	ID        string         `json:"id"`
	StartedAt time.Time      `json:"startedAt"`
	Retained  int            `json:"retained"`
	Findings  map[string]int `json:"findingsBySeverity"`
}

// RowChange is a result present in both jobs whose response differs.
type RowChange struct {
	Key    string    `json:"key"`
	Before model.Row `json:"before"`
	After  model.Row `json:"after"`
}

// Comparison is the difference between an earlier and a later job.
type Comparison struct {
	Kind     model.StrategyKind `json:"kind"`
	Target   string             `json:"target"`
	Previous JobMeta            `json:"previous"`
	Current  JobMeta            `json:"current"`

	// NewResults were retained by the current job only, GoneResults by the
	// previous job only.
	NewResults     []model.Row `json:"newResults"`
	GoneResults    []model.Row `json:"goneResults"`
	ChangedResults []RowChange `json:"changedResults"`

	NewFindings       []model.Finding `json:"newFindings"`
	ResolvedFindings  []model.Finding `json:"resolvedFindings"`
	UnchangedFindings int             `json:"unchangedFindings"`

	// Risk is RiskWorsened, RiskImproved or RiskUnchanged, judged by a
	// severity weighted finding score.
	Risk string `json:"risk"`
}

// Compare diffs the retained results and findings of two jobs.
func Compare(previous, current *model.JobReport) (*Comparison, error) {
	if previous.Kind != current.Kind {
		return nil, fmt.Errorf("%w: %s and %s", ErrIncomparableJobs, previous.Kind, current.Kind)
	}

	c := &Comparison{
		Kind:             current.Kind,
		Target:           current.Target,
		Previous:         jobMeta(previous),
		Current:          jobMeta(current),
		NewResults:       []model.Row{},
		GoneResults:      []model.Row{},
		ChangedResults:   []RowChange{},
		NewFindings:      []model.Finding{},
		ResolvedFindings: []model.Finding{},
	}

	before := make(map[string]model.Row, len(previous.Retained))
	for _, row := range previous.Retained {
		before[resultKey(previous.Kind, row)] = row
	}
	after := make(map[string]model.Row, len(current.Retained))
	for _, row := range current.Retained {
		key := resultKey(current.Kind, row)
		after[key] = row
		old, ok := before[key]
		switch {
		case !ok:
			c.NewResults = append(c.NewResults, row)
		case responseChanged(old, row):
			c.ChangedResults = append(c.ChangedResults, RowChange{Key: key, Before: old, After: row})
		}
	}
	for _, row := range previous.Retained {
		if _, ok := after[resultKey(previous.Kind, row)]; !ok {
			c.GoneResults = append(c.GoneResults, row)
		}
	}

	seen := make(map[string]struct{}, len(previous.Findings))
	for _, f := range previous.Findings {
		seen[f.Key()] = struct{}{}
	}
	still := make(map[string]struct{}, len(current.Findings))
	for _, f := range current.Findings {
		still[f.Key()] = struct{}{}
		if _, ok := seen[f.Key()]; ok {
			c.UnchangedFindings++
		} else {
			c.NewFindings = append(c.NewFindings, f)
		}
	}
	for _, f := range previous.Findings {
		if _, ok := still[f.Key()]; !ok {
			c.ResolvedFindings = append(c.ResolvedFindings, f)
		}
	}
	model.SortFindings(c.NewFindings)
	model.SortFindings(c.ResolvedFindings)

	switch prev, cur := riskScore(previous.Findings), riskScore(current.Findings); {
	case cur > prev:
		c.Risk = RiskWorsened
	case cur < prev:
		c.Risk = RiskImproved
	default:
		c.Risk = RiskUnchanged
	}
	return c, nil
}

func jobMeta(r *model.JobReport) JobMeta {
	return JobMeta{
		ID:        r.ID,
		StartedAt: r.StartedAt,
		Retained:  len(r.Retained),
		Findings:  findingCounts(r.Findings),
	}
}

// resultKey identifies the same probe across two jobs.
func resultKey(kind model.StrategyKind, row model.Row) string {
	if kind == model.StrategyFuzz {
		return row.Parameter + "=" + row.PayloadOrEmpty()
	}
	return row.URL
}

func responseChanged(before, after model.Row) bool {
	if before.Status != after.Status {
		return true
	}
	return before.Hash != "" && after.Hash != "" && before.Hash != after.Hash
}

var severityWeights = map[model.Severity]int{
	model.SeverityCritical: 100,
	model.SeverityHigh:     50,
	model.SeverityMedium:   10,
	model.SeverityLow:      5,
	model.SeverityInfo:     1,
}

func riskScore(findings []model.Finding) int {
	score := 0
	for _, f := range findings {
		score += severityWeights[f.Severity]
	}
	return score
}

// WriteComparisonJSON writes c as indented JSON.
func WriteComparisonJSON(w io.Writer, c *Comparison) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// WriteComparisonText writes c as plain text.
func WriteComparisonText(w io.Writer, c *Comparison) error {
	var sb strings.Builder

	title := fmt.Sprintf("%s comparison: %s", kindTitle(c.Kind), c.Target)
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len([]rune(title))) + "\n")
	fmt.Fprintf(&sb, "Previous:   %s (%s)\n", c.Previous.ID, formatTime(c.Previous.StartedAt))
	fmt.Fprintf(&sb, "Current:    %s (%s)\n", c.Current.ID, formatTime(c.Current.StartedAt))
	fmt.Fprintf(&sb, "Results:    %d -> %d (%s)\n", c.Previous.Retained, c.Current.Retained,
		formatDelta(c.Current.Retained-c.Previous.Retained))
	fmt.Fprintf(&sb, "Risk:       %s\n", riskText(c.Risk))

	writeRowSection(&sb, "New results", "+", c.Kind, c.NewResults)
	writeRowSection(&sb, "Gone results", "-", c.Kind, c.GoneResults)
	if len(c.ChangedResults) > 0 {
		fmt.Fprintf(&sb, "\nChanged results (%d):\n", len(c.ChangedResults))
		for _, ch := range c.ChangedResults {
			fmt.Fprintf(&sb, "  [~] %s [%d] -> [%d]\n", ch.Key, ch.Before.Status, ch.After.Status)
		}
	}

	if len(c.NewFindings) > 0 {
		fmt.Fprintf(&sb, "\nNew findings (%d):\n", len(c.NewFindings))
		for _, f := range c.NewFindings {
			sb.WriteString("  [+] " + findingLine(f) + "\n")
		}
	}
	if len(c.ResolvedFindings) > 0 {
		fmt.Fprintf(&sb, "\nResolved findings (%d):\n", len(c.ResolvedFindings))
		for _, f := range c.ResolvedFindings {
			sb.WriteString("  [-] " + findingLine(f) + "\n")
		}
	}
	if c.UnchangedFindings > 0 {
		fmt.Fprintf(&sb, "\nUnchanged findings: %d\n", c.UnchangedFindings)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRowSection(sb *strings.Builder, title, marker string, kind model.StrategyKind, rows []model.Row) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s (%d):\n", title, len(rows))
	for _, r := range rows {
		fmt.Fprintf(sb, "  [%s] %s\n", marker, rowLine(kind, r))
	}
}

// WriteComparisonMarkdown writes c as Markdown.
func WriteComparisonMarkdown(w io.Writer, c *Comparison) error {
	md := markdown.NewMarkdown(w)

	md.H1(kindTitle(c.Kind) + " Comparison")
	md.PlainText("")
	md.PlainTextf("**Target:** `%s`  ", c.Target)
	md.PlainTextf("**Risk:** %s", riskText(c.Risk))
	md.PlainText("")

	rows := [][]string{
		{"Job", c.Previous.ID, c.Current.ID, "-"},
		{"Started", formatTime(c.Previous.StartedAt), formatTime(c.Current.StartedAt), "-"},
		{"Results", strconv.Itoa(c.Previous.Retained), strconv.Itoa(c.Current.Retained),
			formatDelta(c.Current.Retained - c.Previous.Retained)},
	}
	for s := model.SeverityCritical; s >= model.SeverityInfo; s-- {
		name := s.String()
		before, after := c.Previous.Findings[name], c.Current.Findings[name]
		rows = append(rows, []string{name, strconv.Itoa(before), strconv.Itoa(after), formatDelta(after - before)})
	}
	md.Table(markdown.TableSet{Header: []string{"Metric", "Previous", "Current", "Change"}, Rows: rows})
	md.PlainText("")

	if len(c.NewResults) > 0 || len(c.GoneResults) > 0 || len(c.ChangedResults) > 0 {
		md.H2("Results")
		md.PlainText("")
		var cells [][]string
		for _, r := range c.NewResults {
			cells = append(cells, []string{"new", truncateString(resultKey(c.Kind, r), 60), "-", strconv.Itoa(r.Status)})
		}
		for _, r := range c.GoneResults {
			cells = append(cells, []string{"gone", truncateString(resultKey(c.Kind, r), 60), strconv.Itoa(r.Status), "-"})
		}
		for _, ch := range c.ChangedResults {
			cells = append(cells, []string{"changed", truncateString(ch.Key, 60),
				strconv.Itoa(ch.Before.Status), strconv.Itoa(ch.After.Status)})
		}
		md.Table(markdown.TableSet{Header: []string{"Change", "Result", "Before", "After"}, Rows: cells})
		md.PlainText("")
	}

	if len(c.NewFindings) > 0 {
		md.H2(fmt.Sprintf("New Findings (%d)", len(c.NewFindings)))
		md.PlainText("")
		md.BulletList(findingItems(c.NewFindings)...)
		md.PlainText("")
	}
	if len(c.ResolvedFindings) > 0 {
		md.H2(fmt.Sprintf("Resolved Findings (%d)", len(c.ResolvedFindings)))
		md.PlainText("")
		md.BulletList(findingItems(c.ResolvedFindings)...)
		md.PlainText("")
	}

	return md.Build()
}

func findingItems(findings []model.Finding) []string {
	items := make([]string, len(findings))
	for i, f := range findings {
		items[i] = findingLine(f)
	}
	return items
}

func riskText(direction string) string {
	switch direction {
	case RiskImproved:
		return "IMPROVED (risk decreased)"
	case RiskWorsened:
		return "WORSENED (risk increased)"
	default:
		return "UNCHANGED"
	}
}

func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
