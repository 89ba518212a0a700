package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/webrecon/internal/model"
)

// Factory builds the pipeline for one target. It is called once per
// target so no state is shared between jobs.
type Factory func(target string) (*Pipeline, error)

// BatchProcessor runs one pipeline per target with bounded concurrency.
type BatchProcessor struct {
	factory     Factory
	concurrency int
	logger      *slog.Logger
	newID       func() string
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets the batch logger.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of jobs running at once.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithIDGenerator replaces the random job ID generator.
func WithIDGenerator(newID func() string) BatchOption {
	return func(b *BatchProcessor) {
		b.newID = newID
	}
}

// NewBatchProcessor creates a BatchProcessor. Concurrency defaults to 1.
func NewBatchProcessor(factory Factory, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		factory:     factory,
		concurrency: 1,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch runs every target and returns the reports in target order.
// A failing job does not stop the others; its error is on its report.
// The returned error is non-nil only when ctx was cancelled before every
// job could start, in which case reports of unstarted jobs are nil.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.JobReport, error) {
	results := make([]*model.JobReport, len(targets))
	err := bp.ProcessBatchWithCallback(ctx, targets, func(r *model.JobReport, index int) {
		results[index] = r
	})
	return results, err
}

// ProcessBatchWithCallback runs every target and calls callback with each
// finished report and the target's index. The callback runs on the job's
// goroutine.
func (bp *BatchProcessor) ProcessBatchWithCallback(
	ctx context.Context,
	targets []string,
	callback func(r *model.JobReport, index int),
) error {
	bp.logger.Info("starting batch", "targets", len(targets), "concurrency", bp.concurrency)
	start := time.Now()

	var g errgroup.Group
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return err
		}
		g.Go(func() error {
			r := model.NewJobReport(bp.newID(), "", target)

			p, err := bp.factory(target)
			if err != nil {
				bp.logger.Warn("job setup failed", "target", target, "error", err)
				r.State = model.StateError
				r.Error = err.Error()
				callback(r, i)
				return nil
			}

			if err := p.Execute(ctx, r); err != nil {
				bp.logger.Warn("job failed", "target", target, "error", err)
				if r.Error == "" {
					r.Error = err.Error()
				}
			}
			callback(r, i)
			return nil
		})
	}

	err := g.Wait()
	bp.logger.Info("batch complete", "targets", len(targets), "elapsed", time.Since(start))
	return err
}
