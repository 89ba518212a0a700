package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/nao1215/webrecon/internal/database"
	"github.com/nao1215/webrecon/internal/engine"
	"github.com/nao1215/webrecon/internal/model"
	"github.com/nao1215/webrecon/internal/report"
)

// ScanStep runs one job on a fresh engine Controller and copies the
// outcome into the pipeline's report.
type ScanStep struct {
	transport engine.Transport
	config    model.JobConfig
	options   []engine.Option
	group     *engine.Group
	logger    *slog.Logger
}

// ScanStepOption configures a ScanStep.
type ScanStepOption func(*ScanStep)

// WithEngineOptions passes options to the controller the step creates.
func WithEngineOptions(opts ...engine.Option) ScanStepOption {
	return func(s *ScanStep) {
		s.options = append(s.options, opts...)
	}
}

// WithGroup registers the controller with g while the job runs, so pause,
// resume and stop requests reach it.
func WithGroup(g *engine.Group) ScanStepOption {
	return func(s *ScanStep) {
		s.group = g
	}
}

// WithScanLogger sets the logger used by the step and its controller.
func WithScanLogger(logger *slog.Logger) ScanStepOption {
	return func(s *ScanStep) {
		s.logger = logger
	}
}

// NewScanStep creates a step that runs cfg over t.
func NewScanStep(t engine.Transport, cfg model.JobConfig, opts ...ScanStepOption) *ScanStep {
	s := &ScanStep{
		transport: t,
		config:    cfg,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *ScanStep) Name() string {
	return "scan"
}

// Do runs the job. The report keeps its ID; everything else is replaced
// by the controller's final report. A job that ended in StateError returns
// its error after the report has been filled; a configuration failure marks
// the report as StateError.
func (s *ScanStep) Do(ctx context.Context, r *model.JobReport) error {
	opts := append([]engine.Option{engine.WithLogger(s.logger.With("job", r.ID))}, s.options...)
	c, err := engine.NewController(s.transport, opts...)
	if err != nil {
		return err
	}
	if err := c.Configure(s.config); err != nil {
		r.Kind = s.config.Kind()
		r.Target = s.config.TargetURL()
		r.State = model.StateError
		return fmt.Errorf("configure %s job: %w", s.config.Kind(), err)
	}

	if s.group != nil {
		remove := s.group.Add(c)
		defer remove()
	}

	_, runErr := c.Start(ctx)
	*r = *c.Report(r.ID)
	return runErr
}

// SaveStep stores the report in the job database.
type SaveStep struct {
	db     *database.JobDB
	logger *slog.Logger
}

// NewSaveStep creates a step that saves to db.
func NewSaveStep(db *database.JobDB, logger *slog.Logger) *SaveStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &SaveStep{db: db, logger: logger}
}

// Name returns the step name.
func (s *SaveStep) Name() string {
	return "save"
}

// Do saves the report. Jobs that never started are not stored.
func (s *SaveStep) Do(ctx context.Context, r *model.JobReport) error {
	if !r.State.IsTerminal() {
		s.logger.Debug("skipping save of unfinished job", "job", r.ID, "state", r.State)
		return nil
	}
	// The scan may have been cancelled; the save must still happen.
	if err := s.db.SaveJobReport(context.WithoutCancel(ctx), r); err != nil {
		return fmt.Errorf("save job %s: %w", r.ID, err)
	}
	s.logger.Info("job saved", "job", r.ID, "path", s.db.Path())
	return nil
}

// ReportStep renders the report with a report.Writer. Steps that share a
// writer across concurrent pipelines must share the same lock.
type ReportStep struct {
	writer report.Writer
	mu     *sync.Mutex
}

// NewReportStep creates a step that writes through w, serialized by mu.
// A nil mu gives the step its own lock.
func NewReportStep(w report.Writer, mu *sync.Mutex) *ReportStep {
	if mu == nil {
		mu = &sync.Mutex{}
	}
	return &ReportStep{writer: w, mu: mu}
}

// Name returns the step name.
func (s *ReportStep) Name() string {
	return "report"
}

// Do writes the report.
func (s *ReportStep) Do(_ context.Context, r *model.JobReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.writer.Write(r); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
