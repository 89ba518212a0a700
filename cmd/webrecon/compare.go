package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/database"
	"github.com/nao1215/webrecon/internal/report"
)

// NewCompareCmd creates the compare command.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <job-id> [newer-job-id]",
		Short: "Compare two stored jobs",
		Long: `Compare shows what changed between two stored jobs of the same kind:
results that appeared, disappeared or changed status or body, and findings
that are new or resolved.

With one job ID the job is compared with the previous run of the same
kind against the same target. Use 'webrecon history' to find job IDs.

Examples:
  # Compare a job with its previous run
  webrecon compare 5f0c6f1e-4a3b-4d7e-9c55-0d1f7a2b9e10

  # Compare two specific jobs as Markdown
  webrecon compare -m <older-id> <newer-id>`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runCompareCmd,
	}

	f := cmd.Flags()
	f.BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	f.BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")
	f.String("db-dir", config.XDGDataDir(), "Directory holding the job database")

	return cmd
}

func runCompareCmd(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	jsonOut, err := f.GetBool("json")
	if err != nil {
		return err
	}
	markdownOut, err := f.GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOut && markdownOut {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}
	dbDir, err := f.GetString("db-dir")
	if err != nil {
		return err
	}

	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	previousID, currentID := "", args[0]
	if len(args) == 2 {
		previousID, currentID = args[0], args[1]
	} else {
		prev, err := db.PreviousJob(ctx, currentID)
		if errors.Is(err, database.ErrJobNotFound) {
			return fmt.Errorf("no earlier job to compare %s with: %w", currentID, err)
		}
		if err != nil {
			return err
		}
		previousID = prev.ID
	}

	previous, err := db.GetJobReport(ctx, previousID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", previousID, err)
	}
	current, err := db.GetJobReport(ctx, currentID)
	if err != nil {
		return fmt.Errorf("failed to load job %s: %w", currentID, err)
	}

	c, err := report.Compare(previous, current)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch {
	case jsonOut:
		return report.WriteComparisonJSON(out, c)
	case markdownOut:
		return report.WriteComparisonMarkdown(out, c)
	default:
		return report.WriteComparisonText(out, c)
	}
}
