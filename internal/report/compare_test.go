package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/webrecon/internal/model"
)

func comparePair() (*model.JobReport, *model.JobReport) {
	prev := model.NewJobReport("old", model.StrategyBruteForce, "http://x")
	prev.Retained = []model.Row{
		{URL: "http://x/admin", Status: 403, Hash: "a"},
		{URL: "http://x/backup", Status: 200, Hash: "b"},
		{URL: "http://x/login", Status: 200, Hash: "c"},
	}
	prev.Findings = []model.Finding{
		{Type: "directory_listing", Title: "Directory listing enabled", Severity: model.SeverityMedium, Value: "/backup", URL: "http://x/backup"},
		{Type: "server_version", Title: "Server version disclosed", Severity: model.SeverityLow, Value: "nginx/1.2", URL: "http://x/login"},
	}

	cur := model.NewJobReport("new", model.StrategyBruteForce, "http://x")
	cur.Retained = []model.Row{
		{URL: "http://x/admin", Status: 200, Hash: "a2"},
		{URL: "http://x/login", Status: 200, Hash: "c"},
		{URL: "http://x/.env", Status: 200, Hash: "d"},
	}
	cur.Findings = []model.Finding{
		{Type: "server_version", Title: "Server version disclosed", Severity: model.SeverityLow, Value: "nginx/1.2", URL: "http://x/login"},
		{Type: "env_file", Title: "Environment file contents exposed", Severity: model.SeverityCritical, Value: "DB_PASSW...[REDACTED]", URL: "http://x/.env"},
	}
	return prev, cur
}

// TestCompare tests the job diff.
func TestCompare(t *testing.T) {
	t.Parallel()

	t.Run("results and findings", func(t *testing.T) {
		t.Parallel()

		c, err := Compare(comparePair())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(c.NewResults) != 1 || c.NewResults[0].URL != "http://x/.env" {
			t.Errorf("unexpected new results %v", c.NewResults)
		}
		if len(c.GoneResults) != 1 || c.GoneResults[0].URL != "http://x/backup" {
			t.Errorf("unexpected gone results %v", c.GoneResults)
		}
		if len(c.ChangedResults) != 1 || c.ChangedResults[0].Key != "http://x/admin" {
			t.Errorf("unexpected changed results %v", c.ChangedResults)
		}
		if len(c.NewFindings) != 1 || c.NewFindings[0].Type != "env_file" {
			t.Errorf("unexpected new findings %v", c.NewFindings)
		}
		if len(c.ResolvedFindings) != 1 || c.ResolvedFindings[0].Type != "directory_listing" {
			t.Errorf("unexpected resolved findings %v", c.ResolvedFindings)
		}
		if c.UnchangedFindings != 1 {
			t.Errorf("expected 1 unchanged finding, got %d", c.UnchangedFindings)
		}
		if c.Risk != RiskWorsened {
			t.Errorf("expected worsened risk, got %s", c.Risk)
		}
	})

	t.Run("reversed order improves", func(t *testing.T) {
		t.Parallel()

		prev, cur := comparePair()
		c, err := Compare(cur, prev)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if c.Risk != RiskImproved {
			t.Errorf("expected improved risk, got %s", c.Risk)
		}
	})

	t.Run("fuzz results are keyed by payload", func(t *testing.T) {
		t.Parallel()

		prev := model.NewJobReport("a", model.StrategyFuzz, "http://x/search")
		prev.Retained = []model.Row{{URL: "http://x/search?q=%27", Parameter: "q", Payload: model.StringPtr("'"), Status: 500}}
		cur := model.NewJobReport("b", model.StrategyFuzz, "http://x/search")
		cur.Retained = []model.Row{{URL: "http://x/search?q=%27&t=1", Parameter: "q", Payload: model.StringPtr("'"), Status: 500}}

		c, err := Compare(prev, cur)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(c.NewResults)+len(c.GoneResults)+len(c.ChangedResults) != 0 || c.Risk != RiskUnchanged {
			t.Errorf("expected no difference, got %+v", c)
		}
	})

	t.Run("different kinds", func(t *testing.T) {
		t.Parallel()

		_, err := Compare(crawlReport(), fuzzReport())
		if !errors.Is(err, ErrIncomparableJobs) {
			t.Errorf("expected ErrIncomparableJobs, got %v", err)
		}
	})
}

// TestWriteComparison tests the comparison renderers.
func TestWriteComparison(t *testing.T) {
	t.Parallel()

	c, err := Compare(comparePair())
	if err != nil {
		t.Fatal(err)
	}

	t.Run("text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteComparisonText(&buf, c); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{
			"Brute Force comparison: http://x",
			"Results:    3 -> 3 (0)",
			"WORSENED",
			"[+] [200] http://x/.env",
			"[-] [200] http://x/backup",
			"[~] http://x/admin [403] -> [200]",
			"[+] [CRITICAL] Environment file contents exposed",
			"Unchanged findings: 1",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteComparisonMarkdown(&buf, c); err != nil {
			t.Fatal(err)
		}
		out := buf.String()
		for _, want := range []string{"# Brute Force Comparison", "## Results", "## New Findings (1)", "## Resolved Findings (1)"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected %q in output:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if err := WriteComparisonJSON(&buf, c); err != nil {
			t.Fatal(err)
		}
		var got Comparison
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if got.Risk != RiskWorsened || got.Current.Findings["CRITICAL"] != 1 {
			t.Errorf("unexpected decoded comparison %+v", got)
		}
	})
}
