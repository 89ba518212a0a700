package main

import (
	"bytes"
	"testing"

	"github.com/nao1215/webrecon/internal/model"
)

func TestWriteFindingTotals(t *testing.T) {
	t.Parallel()

	t.Run("worst first", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writeFindingTotals(&buf, map[model.Severity]int{
			model.SeverityLow:      3,
			model.SeverityCritical: 1,
		})
		if got := buf.String(); got != "Findings: 1 CRITICAL, 3 LOW\n" {
			t.Errorf("unexpected output %q", got)
		}
	})

	t.Run("nothing stored", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		writeFindingTotals(&buf, nil)
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}
