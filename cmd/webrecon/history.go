package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/database"
	"github.com/nao1215/webrecon/internal/model"
	"github.com/nao1215/webrecon/internal/report"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [job-id]",
		Short: "List stored jobs or show the report of one job",
		Long: `History reads the job database written by crawl, bruteforce and fuzz.

Without arguments it lists stored jobs, newest first. With a job ID it
renders that job's report again in the selected format.

Examples:
  # List every stored job
  webrecon history

  # List brute force jobs only
  webrecon history --kind bruteforce

  # Show a stored job as Markdown
  webrecon history -m 5f0c6f1e-4a3b-4d7e-9c55-0d1f7a2b9e10

  # Delete a stored job
  webrecon history --delete 5f0c6f1e-4a3b-4d7e-9c55-0d1f7a2b9e10`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	f := cmd.Flags()
	f.StringP("kind", "k", "", "Only list jobs of this kind (crawl, bruteforce, fuzz)")
	f.Bool("delete", false, "Delete the given job")
	f.BoolP("json", "j", false, "Output JSON report (mutually exclusive with --markdown)")
	f.BoolP("markdown", "m", false, "Output Markdown report (mutually exclusive with --json)")
	f.String("db-dir", config.XDGDataDir(), "Directory holding the job database")
	f.Bool("no-color", false, "Disable colored output")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()

	cfg := config.NewConfig()
	var err error
	if cfg.DBDir, err = f.GetString("db-dir"); err != nil {
		return err
	}
	if cfg.JSONReport, err = f.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = f.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.JSONReport && cfg.MarkdownReport {
		return fmt.Errorf("configuration error: %w", config.ErrConflictingReportFormats)
	}
	if cfg.NoColor, err = f.GetBool("no-color"); err != nil {
		return err
	}
	cfg.Verbose = true
	kind, err := f.GetString("kind")
	if err != nil {
		return err
	}
	if kind != "" && !model.StrategyKind(kind).IsValid() {
		return fmt.Errorf("unknown job kind %q", kind)
	}
	deleteJob, err := f.GetBool("delete")
	if err != nil {
		return err
	}
	if deleteJob && len(args) == 0 {
		return errors.New("--delete requires a job ID")
	}

	db, err := database.Open(cfg.DBDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case len(args) == 0:
		summaries, err := db.ListJobs(ctx, model.StrategyKind(kind))
		if err != nil {
			return err
		}
		reports := make([]*model.JobReport, 0, len(summaries))
		for _, s := range summaries {
			reports = append(reports, summaryReport(s))
		}
		report.WriteHistoryTable(out, reports, cfg.NoColor)

		counts, err := db.CountFindingsBySeverity(ctx, model.StrategyKind(kind))
		if err != nil {
			return err
		}
		writeFindingTotals(out, counts)
		return nil

	case deleteJob:
		if err := db.DeleteJob(ctx, args[0]); err != nil {
			return fmt.Errorf("failed to delete job %s: %w", args[0], err)
		}
		fmt.Fprintf(out, "Deleted job %s\n", args[0])
		return nil

	default:
		r, err := db.GetJobReport(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to load job %s: %w", args[0], err)
		}
		_, err = newReportWriter(cfg, out).Write(r)
		return err
	}
}

// writeFindingTotals prints the stored findings per severity, worst first.
func writeFindingTotals(w io.Writer, counts map[model.Severity]int) {
	var parts []string
	for s := model.SeverityCritical; s >= model.SeverityInfo; s-- {
		if n := counts[s]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, s))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "Findings: %s\n", strings.Join(parts, ", "))
	}
}

// summaryReport turns stored job metadata into a report without rows.
func summaryReport(s database.JobSummary) *model.JobReport {
	r := model.NewJobReport(s.ID, s.Kind, s.Target)
	r.State = s.State
	r.Error = s.Error
	r.StartedAt = s.StartedAt
	r.FinishedAt = s.FinishedAt
	r.Metrics = s.Metrics
	return r
}
