package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/nao1215/webrecon/internal/crawler"
	"github.com/nao1215/webrecon/internal/model"
	"github.com/nao1215/webrecon/internal/wordlist"
)

// Controller runs one job. A controller is single use: once it reaches a
// terminal state a new controller is needed for the next job.
//
// Configure and Start must be called from one goroutine. Pause, Resume,
// Stop, State, Metrics, FilteredResults, Findings and Report may be called
// from any goroutine at any time.
type Controller struct {
	transport     Transport
	extractor     Extractor
	inspector     Inspector
	onRow         RowHandler
	onFinding     FindingHandler
	onProgress    ProgressHandler
	logger        *slog.Logger
	now           func() time.Time
	loadPayloads  func(path string) ([]string, error)
	maxRowHistory int

	mu         sync.Mutex
	state      model.JobState
	config     model.JobConfig
	strategy   strategy
	classifier Classifier
	total      int
	rows       []model.Row
	retained   []model.Row
	processed  int
	findings   []model.Finding
	seen       map[string]struct{}
	startedAt  time.Time
	finishedAt time.Time
	err        error

	// paused and stopped are the requests recorded by Pause and Stop.
	// resumeCh exists while paused and is closed by Resume or Stop.
	paused   bool
	stopped  bool
	resumeCh chan struct{}
	stopCh   chan struct{}
}

// Option configures a Controller.
type Option func(*Controller)

// WithExtractor replaces the HTML extractor used by crawls.
func WithExtractor(e Extractor) Option {
	return func(c *Controller) {
		if e != nil {
			c.extractor = e
		}
	}
}

// WithInspector runs i over every response the job receives.
func WithInspector(i Inspector) Option {
	return func(c *Controller) {
		c.inspector = i
	}
}

// WithFindingHandler registers the finding callback.
func WithFindingHandler(h FindingHandler) Option {
	return func(c *Controller) {
		c.onFinding = h
	}
}

// WithRowHandler registers the row callback.
func WithRowHandler(h RowHandler) Option {
	return func(c *Controller) {
		c.onRow = h
	}
}

// WithProgressHandler registers the progress callback.
func WithProgressHandler(h ProgressHandler) Option {
	return func(c *Controller) {
		c.onProgress = h
	}
}

// WithLogger sets the logger for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithPayloadLoader replaces the function that reads FuzzConfig.PayloadFile.
func WithPayloadLoader(load func(path string) ([]string, error)) Option {
	return func(c *Controller) {
		if load != nil {
			c.loadPayloads = load
		}
	}
}

// WithMaxRowHistory bounds how many emitted rows the controller keeps in
// memory. Zero keeps all rows. Counters and the retained set are not
// affected.
func WithMaxRowHistory(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.maxRowHistory = n
		}
	}
}

// NewController creates an idle controller that sends requests through t.
func NewController(t Transport, opts ...Option) (*Controller, error) {
	if t == nil {
		return nil, ErrNoTransport
	}
	c := &Controller{
		transport:    t,
		extractor:    crawler.NewExtractor(),
		logger:       slog.Default(),
		now:          time.Now,
		loadPayloads: wordlist.LoadPayloads,
		state:        model.StateIdle,
		stopCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Configure validates cfg and binds the matching strategy. It may be called
// again while the controller is Configured; every call resets counters and
// clears pending pause and stop requests.
func (c *Controller) Configure(cfg model.JobConfig) error {
	if cfg == nil {
		return fmt.Errorf("%w: no configuration given", model.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s, err := c.newStrategy(cfg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != model.StateIdle && c.state != model.StateConfigured {
		return fmt.Errorf("%w: configure in state %s", ErrInvalidTransition, c.state)
	}

	c.config = cfg
	c.strategy = s
	c.classifier = s.classifier()
	c.total = s.total()
	c.rows = nil
	c.retained = nil
	c.processed = 0
	c.findings = nil
	c.seen = make(map[string]struct{})
	c.err = nil
	c.startedAt = time.Time{}
	c.finishedAt = time.Time{}
	c.paused = false
	c.stopped = false
	c.resumeCh = nil
	c.stopCh = make(chan struct{})
	c.state = model.StateConfigured
	return nil
}

func (c *Controller) newStrategy(cfg model.JobConfig) (strategy, error) {
	switch v := cfg.(type) {
	case model.CrawlConfig:
		return newCrawlStrategy(v, c.extractor), nil
	case *model.CrawlConfig:
		return newCrawlStrategy(*v, c.extractor), nil
	case model.BruteForceConfig:
		return newBruteForceStrategy(v), nil
	case *model.BruteForceConfig:
		return newBruteForceStrategy(*v), nil
	case model.FuzzConfig:
		return newFuzzStrategy(v, c.loadPayloads)
	case *model.FuzzConfig:
		return newFuzzStrategy(*v, c.loadPayloads)
	default:
		return nil, fmt.Errorf("%w: unsupported configuration %T", model.ErrConfiguration, cfg)
	}
}

// Start runs the bound strategy until it finishes, is stopped, or fails,
// and returns every emitted row.
//
// A stop request or cancellation of ctx ends the job in StateStopped with a
// nil error. An unexpected failure ends it in StateError; the partial rows
// are still returned together with the error.
func (c *Controller) Start(ctx context.Context) ([]model.Row, error) {
	c.mu.Lock()
	if c.state != model.StateConfigured {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: start in state %s", ErrInvalidTransition, state)
	}
	c.state = model.StateRunning
	c.startedAt = c.now()
	s := c.strategy
	cfg := c.config
	c.mu.Unlock()

	c.logger.Info("job started", "kind", cfg.Kind(), "target", cfg.TargetURL())

	err := c.execute(ctx, s)

	c.mu.Lock()
	c.finishedAt = c.now()
	switch {
	case err == nil:
		c.state = model.StateCompleted
	case errors.Is(err, ErrStopped):
		c.state = model.StateStopped
		err = nil
	default:
		c.state = model.StateError
		c.err = err
	}
	c.resumeCh = nil
	state := c.state
	rows := append([]model.Row(nil), c.rows...)
	metrics := c.metricsLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("job failed", "kind", cfg.Kind(), "target", cfg.TargetURL(), "error", err)
	} else {
		c.logger.Info("job finished",
			"kind", cfg.Kind(),
			"state", state,
			"processed", metrics.ProcessedRequests,
			"filtered", metrics.FilteredRequests,
			"elapsed", metrics.RunningTime)
	}
	return rows, err
}

// execute runs the strategy and turns a panic into an error.
func (c *Controller) execute(ctx context.Context, s strategy) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()
	return s.run(ctx, c)
}

// Pause asks the running job to suspend at its next checkpoint.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.paused || c.stopped || c.state.IsTerminal() {
		return
	}
	c.paused = true
	c.resumeCh = make(chan struct{})
}

// Resume clears a pause request. A paused job continues from the
// checkpoint it is waiting at.
func (c *Controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.paused {
		return
	}
	c.paused = false
	if c.resumeCh != nil {
		close(c.resumeCh)
		c.resumeCh = nil
	}
}

// Stop asks the job to end at its next checkpoint. It also wakes a paused
// job and cuts short an inter-request delay. Stop is idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}
	c.stopped = true
	c.paused = false
	if c.resumeCh != nil {
		close(c.resumeCh)
		c.resumeCh = nil
	}
	close(c.stopCh)
}

// checkpoint is where pause and stop requests take effect. It returns
// ErrStopped when the job must end and blocks while the job is paused.
func (c *Controller) checkpoint(ctx context.Context) error {
	for {
		c.mu.Lock()
		if c.stopped || ctx.Err() != nil {
			c.mu.Unlock()
			return ErrStopped
		}
		if !c.paused {
			if c.state == model.StatePaused {
				c.state = model.StateRunning
				c.logger.Info("job resumed")
			}
			c.mu.Unlock()
			return nil
		}
		if c.state != model.StatePaused {
			c.state = model.StatePaused
			c.logger.Info("job paused")
		}
		wait := c.resumeCh
		c.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
		}
	}
}

// sleep waits for d unless the job is stopped or ctx ends first.
func (c *Controller) sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	stopCh := c.stopCh
	c.mu.Unlock()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-stopCh:
	case <-ctx.Done():
	}
}

// send issues one request through the transport.
func (c *Controller) send(ctx context.Context, req *model.HTTPRequest) (*model.HTTPResponse, error) {
	resp, err := c.transport.Send(ctx, req)
	if err != nil {
		c.logger.Debug("request failed", "method", req.Method, "url", req.URL, "error", err)
		return nil, err
	}
	c.inspect(resp)
	return resp, nil
}

// inspect records the findings in resp that were not seen before.
func (c *Controller) inspect(resp *model.HTTPResponse) {
	if c.inspector == nil {
		return
	}
	found := c.inspector.Inspect(resp)
	if len(found) == 0 {
		return
	}

	c.mu.Lock()
	fresh := make([]model.Finding, 0, len(found))
	for _, f := range found {
		if _, dup := c.seen[f.Key()]; dup {
			continue
		}
		c.seen[f.Key()] = struct{}{}
		c.findings = append(c.findings, f)
		fresh = append(fresh, f)
	}
	c.mu.Unlock()

	for _, f := range fresh {
		c.logger.Debug("finding", "type", f.Type, "severity", f.Severity, "url", f.URL)
		if c.onFinding != nil {
			c.onFinding(f)
		}
	}
}

// emit numbers a row, records it, and notifies the handlers. current is the
// URL, word or payload reported as progress.
func (c *Controller) emit(row model.Row, current string) {
	c.mu.Lock()
	c.processed++
	row.ID = c.processed
	c.rows = append(c.rows, row)
	if c.maxRowHistory > 0 && len(c.rows) > c.maxRowHistory {
		c.rows = c.rows[len(c.rows)-c.maxRowHistory:]
	}
	if c.classifier.Retain(row.Status, row.Length) {
		c.retained = append(c.retained, row)
	}
	progress := model.Progress{
		Processed: c.processed,
		Total:     c.total,
		Current:   current,
		Err:       row.ErrorMessage,
	}
	c.mu.Unlock()

	if c.onRow != nil {
		c.onRow(row)
	}
	if c.onProgress != nil {
		c.onProgress(progress)
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() model.JobState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Err returns the failure of a job that ended in StateError.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Metrics returns a snapshot of the job counters.
func (c *Controller) Metrics() model.Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.metricsLocked()
}

func (c *Controller) metricsLocked() model.Metrics {
	var elapsed time.Duration
	switch {
	case c.startedAt.IsZero():
	case c.finishedAt.IsZero():
		elapsed = c.now().Sub(c.startedAt)
	default:
		elapsed = c.finishedAt.Sub(c.startedAt)
	}
	return model.NewMetrics(elapsed, c.processed, len(c.retained))
}

// Findings returns the distinct findings observed so far, in discovery
// order.
func (c *Controller) Findings() []model.Finding {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Finding(nil), c.findings...)
}

// FilteredResults returns a copy of the rows retained so far.
func (c *Controller) FilteredResults() []model.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Row(nil), c.retained...)
}

// Rows returns a copy of the emitted rows kept in memory.
func (c *Controller) Rows() []model.Row {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Row(nil), c.rows...)
}

// Report builds the job record for the current state under the given id.
func (c *Controller) Report(id string) *model.JobReport {
	c.mu.Lock()
	defer c.mu.Unlock()

	var kind model.StrategyKind
	var target string
	if c.config != nil {
		kind = c.config.Kind()
		target = c.config.TargetURL()
	}
	r := model.NewJobReport(id, kind, target)
	r.State = c.state
	if c.err != nil {
		r.Error = c.err.Error()
	}
	r.StartedAt = c.startedAt
	r.FinishedAt = c.finishedAt
	r.Metrics = c.metricsLocked()
	r.Rows = append(r.Rows, c.rows...)
	r.Retained = append(r.Retained, c.retained...)
	r.Findings = append(r.Findings, c.findings...)
	model.SortFindings(r.Findings)
	return r
}
