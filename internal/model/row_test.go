package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestRowComputeHash(t *testing.T) {
	t.Parallel()

	t.Run("same body gives same hash", func(t *testing.T) {
		t.Parallel()
		var a, b Row
		a.ComputeHash("hello")
		b.ComputeHash("hello")
		if a.Hash == "" || a.Hash != b.Hash {
			t.Errorf("expected equal non-empty hashes, got %q and %q", a.Hash, b.Hash)
		}
		if len(a.Hash) != 64 {
			t.Errorf("expected 64 hex characters, got %d", len(a.Hash))
		}
	})

	t.Run("different body gives different hash", func(t *testing.T) {
		t.Parallel()
		var a, b Row
		a.ComputeHash("hello")
		b.ComputeHash("world")
		if a.Hash == b.Hash {
			t.Error("expected different hashes")
		}
	})

	t.Run("empty body leaves hash empty", func(t *testing.T) {
		t.Parallel()
		r := Row{Hash: "stale"}
		r.ComputeHash("")
		if r.Hash != "" {
			t.Errorf("expected empty hash, got %q", r.Hash)
		}
	})
}

func TestRowSetSnippet(t *testing.T) {
	t.Parallel()

	var r Row
	r.SetSnippet(strings.Repeat("é", 300))
	if got := len([]rune(r.Snippet)); got != MaxSnippetLength {
		t.Errorf("expected %d runes, got %d", MaxSnippetLength, got)
	}

	r.SetSnippet("short")
	if r.Snippet != "short" {
		t.Errorf("expected short body to be kept, got %q", r.Snippet)
	}
}

func TestRowJSONNullables(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Row{ID: 1, URL: "http://x/", Status: 200})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	for _, want := range []string{`"parentUrl":null`, `"payload":null`, `"error":false`} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %s in %s", want, s)
		}
	}
	if strings.Contains(s, "depthRemaining") {
		t.Errorf("did not expect depthRemaining in %s", s)
	}

	r := Row{ParentURL: StringPtr("http://p/"), Payload: StringPtr("admin")}
	if r.ParentOrEmpty() != "http://p/" || r.PayloadOrEmpty() != "admin" {
		t.Error("unexpected accessor values")
	}
	if (Row{}).ParentOrEmpty() != "" || (Row{}).PayloadOrEmpty() != "" {
		t.Error("expected empty accessors for nil pointers")
	}
}

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics(2*time.Second, 10, 4)
	if m.RequestsPerSecond != 5 {
		t.Errorf("expected 5 rps, got %v", m.RequestsPerSecond)
	}
	if m.ProcessedRequests != 10 || m.FilteredRequests != 4 {
		t.Errorf("unexpected counters %+v", m)
	}

	zero := NewMetrics(0, 10, 4)
	if zero.RequestsPerSecond != 0 {
		t.Errorf("expected 0 rps for zero elapsed time, got %v", zero.RequestsPerSecond)
	}
}

func TestJobState(t *testing.T) {
	t.Parallel()

	terminal := []JobState{StateStopped, StateCompleted, StateError}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []JobState{StateIdle, StateConfigured, StateRunning, StatePaused} {
		if s.IsTerminal() {
			t.Errorf("did not expect %s to be terminal", s)
		}
	}
	if !StatePaused.IsActive() || !StateRunning.IsActive() || StateIdle.IsActive() {
		t.Error("unexpected IsActive result")
	}
}

func TestJobReportHelpers(t *testing.T) {
	t.Parallel()

	r := NewJobReport("job", StrategyBruteForce, "http://x")
	r.Rows = []Row{
		{ID: 1, Status: 200, Hash: "aa"},
		{ID: 2, Status: 0, Error: true},
		{ID: 3, Status: 200, Hash: "aa"},
		{ID: 4, Status: 404, Hash: "bb", Error: true},
	}
	r.Retained = []Row{r.Rows[0], r.Rows[2]}

	if got := len(r.ErrorRows()); got != 2 {
		t.Errorf("expected 2 error rows, got %d", got)
	}
	counts := r.StatusCounts()
	if counts[200] != 2 || counts[0] != 1 || counts[404] != 1 {
		t.Errorf("unexpected status counts %v", counts)
	}
	dups := r.Duplicates()
	if len(dups) != 1 || len(dups["aa"]) != 2 {
		t.Errorf("unexpected duplicates %v", dups)
	}
}
