package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/webrecon/internal/model"
)

// Step is one stage of a job: scanning, persisting or reporting.
// Steps run in order and share the job's report.
type Step interface {
	// Do executes the step. Non-fatal problems should be logged and nil
	// returned so later steps still run.
	Do(ctx context.Context, report *model.JobReport) error

	// Name returns the step's name for logging.
	Name() string
}

// FuncStep adapts a function to the Step interface.
type FuncStep struct {
	name string
	fn   func(ctx context.Context, report *model.JobReport) error
}

// NewFuncStep creates a step named name that calls fn.
func NewFuncStep(name string, fn func(ctx context.Context, report *model.JobReport) error) *FuncStep {
	return &FuncStep{name: name, fn: fn}
}

// Do calls the wrapped function.
func (s *FuncStep) Do(ctx context.Context, report *model.JobReport) error {
	return s.fn(ctx, report)
}

// Name returns the step name.
func (s *FuncStep) Name() string {
	return s.name
}

// Pipeline executes steps in sequence.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps executing steps after one fails. A job that
// ended in error is still saved and reported this way.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps in order. Cancellation is checked before each
// step. It returns the first step error unless continue-on-error is set,
// in which case the first error is recorded on the report and nil is
// returned once all steps have run.
func (p *Pipeline) Execute(ctx context.Context, report *model.JobReport) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", err)
			return err
		}

		p.logger.Debug("executing step", "step", step.Name(), "job", report.ID, "target", report.Target)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "job", report.ID, "error", err)
			if report.Error == "" {
				report.Error = err.Error()
			}
			if !p.continueOnError {
				return err
			}
			continue
		}

		p.logger.Debug("step completed", "step", step.Name(), "job", report.ID)
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
