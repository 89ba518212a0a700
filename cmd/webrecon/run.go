package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/webrecon/internal/config"
	"github.com/nao1215/webrecon/internal/database"
	"github.com/nao1215/webrecon/internal/engine"
	"github.com/nao1215/webrecon/internal/inspect"
	"github.com/nao1215/webrecon/internal/log"
	"github.com/nao1215/webrecon/internal/model"
	"github.com/nao1215/webrecon/internal/pipeline"
	"github.com/nao1215/webrecon/internal/report"
	"github.com/nao1215/webrecon/internal/tor"
	"github.com/nao1215/webrecon/internal/transport"
)

// jobBuilder turns one target and the profile of its host into a job
// configuration.
type jobBuilder func(target string, profile config.Profile) (model.JobConfig, error)

// requestSettings are the per-target request fields shared by every job kind.
type requestSettings struct {
	UserAgent string
	Proxy     string
	Headers   map[string]string
	Cookies   map[string]string
}

// resolveRequest merges command line values over the profile. Flag headers
// and cookies override profile entries with the same name.
func resolveRequest(cfg *config.Config, p config.Profile, headers map[string]string, cookie string) requestSettings {
	s := requestSettings{
		UserAgent: firstNonEmpty(cfg.UserAgent, p.UserAgent),
		Proxy:     firstNonEmpty(cfg.Proxy, p.Proxy),
	}
	if len(p.Headers) > 0 || len(headers) > 0 {
		s.Headers = maps.Clone(p.Headers)
		if s.Headers == nil {
			s.Headers = make(map[string]string, len(headers))
		}
		maps.Copy(s.Headers, headers)
	}
	profileCookies := p.Cookies()
	flagCookies := config.ParseCookies(cookie)
	if len(profileCookies) > 0 || len(flagCookies) > 0 {
		s.Cookies = make(map[string]string, len(profileCookies)+len(flagCookies))
		maps.Copy(s.Cookies, profileCookies)
		maps.Copy(s.Cookies, flagCookies)
	}
	return s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// jobRunner holds what every job of one command invocation shares.
type jobRunner struct {
	cfg       *config.Config
	logger    *slog.Logger
	stderr    io.Writer
	client    engine.Transport
	inspector engine.Inspector
	db        *database.JobDB
	writer    report.Writer
	writeMu   sync.Mutex
	group     *engine.Group
	jobs      map[string]model.JobConfig
}

// runJobs builds one job per target and runs them through the batch
// processor. It fails when any job ended in the error state.
func runJobs(cmd *cobra.Command, cfg *config.Config, build jobBuilder) error {
	stderr := cmd.ErrOrStderr()
	logger := log.NewSecureLogger(stderr, cfg.Verbose)

	// Every target is configured up front so mistakes surface before any
	// request is sent or Tor is started.
	jobs, err := buildJobs(cfg, build)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if cfg.UseTor {
		daemon := tor.NewDaemon(tor.WithStartupTimeout(cfg.TorStartupTimeout))
		fmt.Fprintln(stderr, "Starting Tor, this can take a few minutes...")
		if err := daemon.Start(ctx); err != nil {
			return err
		}
		defer func() {
			if err := daemon.Stop(); err != nil {
				logger.Error("failed to stop Tor daemon", "error", err)
			}
		}()
		if cfg.Proxy, err = daemon.ProxyURL(); err != nil {
			return err
		}
		if jobs, err = buildJobs(cfg, build); err != nil {
			return err
		}
	}

	if cfg.Proxy != "" {
		if err := transport.CheckProxy(ctx, cfg.Proxy); err != nil {
			return fmt.Errorf("proxy check failed for %s: %w", cfg.Proxy, err)
		}
	}
	for _, target := range cfg.Targets {
		if tor.IsOnionURL(target) && cfg.Proxy == "" && cfg.Profiles.ProfileFor(target).Proxy == "" {
			fmt.Fprintf(stderr, "Warning: %s is an onion service but no proxy is set (use --tor or --proxy)\n", target)
		}
	}

	r := &jobRunner{
		cfg:    cfg,
		logger: logger,
		stderr: stderr,
		client: newTransport(cfg, logger),
		group:  engine.NewGroup(),
		jobs:   jobs,
	}
	if cfg.Inspect {
		r.inspector = inspect.New(
			inspect.WithMinSeverity(cfg.MinSeverityLevel()),
			inspect.WithMaxBodySize(int(min(cfg.MaxBodySize, inspect.DefaultMaxBodySize))),
		)
	}

	if cfg.SaveToDB {
		db, err := database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		r.db = db
		logger.Debug("database opened", "path", db.Path())
	}

	out, closeOut, err := openOutput(cfg.ReportFile, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer closeOut()
	r.writer = newReportWriter(cfg, out)

	stopSignals := watchSignals(r.group, cancel, stderr, logger)
	defer stopSignals()

	bp := pipeline.NewBatchProcessor(r.newPipeline,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)
	reports, err := bp.ProcessBatch(ctx, cfg.Targets)

	if len(cfg.Targets) > 1 && !cfg.Quiet {
		fmt.Fprintln(stderr)
		report.WriteSummaryTable(stderr, reports, cfg.NoColor)
	}
	if cfg.ReportFile != "" {
		fmt.Fprintf(stderr, "Report written to %s\n", cfg.ReportFile)
	}
	if err != nil {
		return err
	}

	failed := 0
	for _, rep := range reports {
		if rep != nil && rep.State == model.StateError {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d jobs failed", failed, len(cfg.Targets))
	}
	return nil
}

// buildJobs configures and validates one job per target.
func buildJobs(cfg *config.Config, build jobBuilder) (map[string]model.JobConfig, error) {
	jobs := make(map[string]model.JobConfig, len(cfg.Targets))
	for _, target := range cfg.Targets {
		if err := tor.CheckOnionURL(target); err != nil {
			return nil, fmt.Errorf("%s: %w", target, err)
		}
		jobCfg, err := build(target, cfg.Profiles.ProfileFor(target))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", target, err)
		}
		if err := jobCfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", target, err)
		}
		jobs[target] = jobCfg
	}
	return jobs, nil
}

// newPipeline is the batch processor's factory: scan, finish the live
// output, save, then report.
func (r *jobRunner) newPipeline(target string) (*pipeline.Pipeline, error) {
	jobCfg, ok := r.jobs[target]
	if !ok {
		return nil, fmt.Errorf("no job configured for %s", target)
	}

	scanOpts := []pipeline.ScanStepOption{
		pipeline.WithGroup(r.group),
		pipeline.WithScanLogger(r.logger),
	}
	if r.inspector != nil {
		scanOpts = append(scanOpts, pipeline.WithEngineOptions(engine.WithInspector(r.inspector)))
	}

	var live *report.LivePrinter
	if !r.cfg.Quiet {
		classifier := engine.ClassifierFor(jobCfg)
		liveOpts := []report.LiveOption{
			report.WithNoColor(r.cfg.NoColor),
			report.WithRowFilter(func(row model.Row) bool {
				return classifier.Retain(row.Status, row.Length)
			}),
		}
		// Concurrent progress bars would overwrite each other.
		if len(r.cfg.Targets) > 1 && r.cfg.BatchSize > 1 {
			liveOpts = append(liveOpts, report.WithoutProgressBar())
		}
		live = report.NewLivePrinter(r.stderr, jobCfg.Kind(), liveOpts...)
		scanOpts = append(scanOpts, pipeline.WithEngineOptions(
			engine.WithRowHandler(live.OnRow),
			engine.WithFindingHandler(live.OnFinding),
			engine.WithProgressHandler(live.OnProgress),
		))
	}

	p := pipeline.New(
		pipeline.WithLogger(r.logger),
		pipeline.WithContinueOnError(true),
	)
	p.AddStep(pipeline.NewScanStep(r.client, jobCfg, scanOpts...))
	if live != nil {
		p.AddStep(pipeline.NewFuncStep("live", func(context.Context, *model.JobReport) error {
			live.Finish()
			return nil
		}))
	}
	if r.db != nil {
		p.AddStep(pipeline.NewSaveStep(r.db, r.logger))
	}
	p.AddStep(pipeline.NewReportStep(r.writer, &r.writeMu))
	return p, nil
}

// newTransport creates the HTTP client shared by every job.
func newTransport(cfg *config.Config, logger *slog.Logger) *transport.Client {
	return transport.New(
		transport.WithTimeout(cfg.Timeout),
		transport.WithMaxBodySize(cfg.MaxBodySize),
		transport.WithUserAgent(config.DefaultUserAgent),
		transport.WithInsecureTLS(cfg.InsecureTLS),
		transport.WithFollowRedirects(cfg.FollowRedirects),
		transport.WithRateLimit(cfg.RateLimit),
		transport.WithLogger(logger),
	)
}

// newReportWriter selects the report format.
func newReportWriter(cfg *config.Config, out io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
}

// openOutput returns stdout, or the report file when path is set. The file
// is created with owner-only permissions since reports may contain
// session data.
func openOutput(path string, stdout io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}
	return f, f.Close, nil
}
