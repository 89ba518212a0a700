package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/database"
	"github.com/nao1215/webrecon/internal/model"
	"github.com/nao1215/webrecon/internal/report"
	"github.com/nao1215/webrecon/internal/tor"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func siteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Home</title></head><body><a href="/docs">docs</a><a href="/missing">x</a></body></html>`)
	})
	mux.HandleFunc("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><head><title>Docs</title></head><body><a href="/">home</a> mail webmaster@example.org</body></html>`)
	})
	mux.HandleFunc("/admin", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "admin panel")
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Query().Get("q"), "'") {
			http.Error(w, "syntax error near '", http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, "no results")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// TestCrawlCommand tests a crawl with a JSON report written to a file.
func TestCrawlCommand(t *testing.T) {
	t.Parallel()

	srv := siteServer(t)
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "out", "crawl.json")

	_, stderr, err := execute(t, "crawl",
		"--config", writeFile(t, "profile.yaml", "defaults: {}\n"),
		"--db-dir", dir,
		"--json", "-o", reportPath,
		"--quiet", "--no-color",
		srv.URL+"/")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}

	data, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("expected report file: %v", err)
	}
	var got report.JSONReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, data)
	}

	r := got.Report
	if r.Kind != model.StrategyCrawl || r.State != model.StateCompleted {
		t.Fatalf("unexpected kind/state %s/%s", r.Kind, r.State)
	}
	urls := make(map[string]bool)
	for _, row := range r.Rows {
		urls[row.URL] = true
	}
	for _, want := range []string{srv.URL + "/", srv.URL + "/docs", srv.URL + "/missing"} {
		if !urls[want] {
			t.Errorf("expected %s to be visited, got %v", want, urls)
		}
	}
	if got.Summary.StatusCounts[404] != 1 {
		t.Errorf("expected one 404, got %v", got.Summary.StatusCounts)
	}

	var email *model.Finding
	for i := range r.Findings {
		if r.Findings[i].Type == "email_address" {
			email = &r.Findings[i]
		}
	}
	if email == nil || email.Value != "webmaster@example.org" || email.URL != srv.URL+"/docs" {
		t.Errorf("expected the address on /docs as a finding, got %+v", r.Findings)
	}
}

// TestBruteForceAndHistory tests a brute force run followed by the history
// command reading the stored job.
func TestBruteForceAndHistory(t *testing.T) {
	t.Parallel()

	srv := siteServer(t)
	dbDir := t.TempDir()
	words := writeFile(t, "words.txt", "# common\nadmin\nbackup\nlogin\n")

	stdout, stderr, err := execute(t, "bruteforce",
		"--config", writeFile(t, "profile.yaml", "defaults: {}\n"),
		"--db-dir", dbDir,
		"-w", words,
		"--quiet", "--no-color",
		srv.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "[200] "+srv.URL+"/admin len=11") {
		t.Errorf("expected /admin hit in report:\n%s", stdout)
	}
	if strings.Contains(stdout, "/backup") {
		t.Errorf("filtered path in report:\n%s", stdout)
	}

	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	jobs, err := db.ListJobs(context.Background(), model.StrategyBruteForce)
	db.Close()
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 1 {
		t.Fatalf("expected 1 stored job, got %d", len(jobs))
	}
	id := jobs[0].ID

	t.Run("lists stored jobs", func(t *testing.T) {
		out, _, err := execute(t, "history", "--db-dir", dbDir, "--no-color")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(out, id) || !strings.Contains(out, "bruteforce") {
			t.Errorf("expected job in listing:\n%s", out)
		}
	})

	t.Run("filters by kind", func(t *testing.T) {
		out, _, err := execute(t, "history", "--db-dir", dbDir, "--no-color", "--kind", "crawl")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(out) != "No jobs." {
			t.Errorf("expected no crawl jobs, got:\n%s", out)
		}
	})

	t.Run("renders a stored job", func(t *testing.T) {
		out, _, err := execute(t, "history", "--db-dir", dbDir, "--json", id)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var got report.JSONReport
		if err := json.Unmarshal([]byte(out), &got); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, out)
		}
		if got.Report.ID != id || len(got.Report.Rows) != 3 || len(got.Report.Retained) != 1 {
			t.Errorf("unexpected stored report %+v", got.Report)
		}
	})

	t.Run("rejects unknown kind", func(t *testing.T) {
		if _, _, err := execute(t, "history", "--db-dir", dbDir, "--kind", "portscan"); err == nil {
			t.Error("expected error for unknown kind")
		}
	})

	t.Run("deletes a stored job", func(t *testing.T) {
		if _, _, err := execute(t, "history", "--db-dir", dbDir, "--delete", id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, _, err := execute(t, "history", "--db-dir", dbDir, id)
		if !errors.Is(err, database.ErrJobNotFound) {
			t.Errorf("expected ErrJobNotFound after delete, got %v", err)
		}
	})
}

// TestFuzzCommand tests fuzzing a query parameter with inline payloads.
func TestFuzzCommand(t *testing.T) {
	t.Parallel()

	srv := siteServer(t)

	stdout, stderr, err := execute(t, "fuzz",
		"--config", writeFile(t, "profile.yaml", "defaults: {}\n"),
		"--no-save", "--json", "--no-color",
		"--param", "q",
		"--payload", "hello",
		"--payload", "'",
		"--status", "500",
		srv.URL+"/search")
	if err != nil {
		t.Fatalf("unexpected error: %v\n%s", err, stderr)
	}

	var got report.JSONReport
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	r := got.Report
	if len(r.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(r.Rows))
	}
	if len(r.Retained) != 1 || r.Retained[0].PayloadOrEmpty() != "'" {
		t.Errorf("expected only the quote payload retained, got %+v", r.Retained)
	}

	// Live output goes to stderr and honors the status filter.
	if !strings.Contains(stderr, "[500]") || strings.Contains(stderr, "[200]") {
		t.Errorf("unexpected live output:\n%s", stderr)
	}
}

// TestScanCommandErrors tests failures reported before any request is sent.
func TestScanCommandErrors(t *testing.T) {
	t.Parallel()

	profile := writeFile(t, "profile.yaml", "defaults: {}\n")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "fuzz without parameters",
			args: []string{"fuzz", "--config", profile, "--no-save", "http://127.0.0.1/"},
			want: model.ErrNoParameters,
		},
		{
			name: "fuzz with an empty payload file",
			args: []string{"fuzz", "--config", profile, "--no-save", "--param", "q",
				"--payload-file", writeFile(t, "empty.txt", "\n"), "http://127.0.0.1/"},
			want: model.ErrNoPayloads,
		},
		{
			name: "mistyped onion address",
			args: []string{"crawl", "--config", profile, "--no-save", "http://abc.onion/"},
			want: tor.ErrInvalidOnionAddress,
		},
		{
			name: "tor combined with a proxy",
			args: []string{"crawl", "--config", profile, "--no-save", "--tor", "--proxy", "socks5://127.0.0.1:9050", "http://127.0.0.1/"},
			want: config.ErrTorWithProxy,
		},
		{
			name: "unknown finding severity",
			args: []string{"crawl", "--config", profile, "--no-save", "--min-severity", "urgent", "http://127.0.0.1/"},
			want: config.ErrInvalidSeverity,
		},
		{
			name: "negative crawl depth",
			args: []string{"crawl", "--config", profile, "--no-save", "--depth=-1", "http://127.0.0.1/"},
			want: model.ErrInvalidDepth,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, _, err := execute(t, tt.args...); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
