package report

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/nao1215/webrecon/internal/model"
)

// LivePrinter prints rows and findings as a job emits them and keeps a
// progress bar below them. Its OnRow, OnFinding and OnProgress methods plug
// into the engine's handlers.
type LivePrinter struct {
	mu      sync.Mutex
	out     io.Writer
	kind    model.StrategyKind
	filter  func(model.Row) bool
	bar     *progressbar.ProgressBar
	noBar   bool
	printed int

	green, yellow, red, gray func(a ...any) string
}

// LiveOption configures a LivePrinter.
type LiveOption func(*LivePrinter)

// WithRowFilter prints only rows for which keep returns true. Transport
// failures are always printed.
func WithRowFilter(keep func(model.Row) bool) LiveOption {
	return func(p *LivePrinter) {
		p.filter = keep
	}
}

// WithoutProgressBar disables the progress bar.
func WithoutProgressBar() LiveOption {
	return func(p *LivePrinter) {
		p.noBar = true
	}
}

// WithNoColor disables colored output.
func WithNoColor(noColor bool) LiveOption {
	return func(p *LivePrinter) {
		if noColor {
			p.setColors(true)
		}
	}
}

// NewLivePrinter creates a printer for a job of the given kind.
func NewLivePrinter(out io.Writer, kind model.StrategyKind, opts ...LiveOption) *LivePrinter {
	p := &LivePrinter{out: out, kind: kind}
	p.setColors(false)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *LivePrinter) setColors(disabled bool) {
	mk := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if disabled {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	p.green = mk(color.FgGreen)
	p.yellow = mk(color.FgYellow)
	p.red = mk(color.FgRed)
	p.gray = mk(color.FgHiBlack)
}

// OnRow prints one row.
func (p *LivePrinter) OnRow(row model.Row) {
	if row.Status != 0 && p.filter != nil && !p.filter(row) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Clear()
	}
	fmt.Fprintln(p.out, p.format(row))
	p.printed++
	if p.bar != nil {
		_ = p.bar.RenderBlank()
	}
}

// OnFinding prints a finding when it is first observed.
func (p *LivePrinter) OnFinding(f model.Finding) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Clear()
	}
	fmt.Fprintln(p.out, p.severity(f.Severity)+" "+findingLine(f))
	if p.bar != nil {
		_ = p.bar.RenderBlank()
	}
}

// OnProgress advances the progress bar.
func (p *LivePrinter) OnProgress(pr model.Progress) {
	if p.noBar {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar == nil {
		p.bar = progressbar.NewOptions(pr.Total,
			progressbar.OptionSetWriter(p.out),
			progressbar.OptionSetWidth(30),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("req"),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
	}
	p.bar.Describe(truncateString(pr.Current, 40))
	_ = p.bar.Set(pr.Processed)
}

// Finish removes the progress bar.
func (p *LivePrinter) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bar != nil {
		_ = p.bar.Finish()
		_ = p.bar.Clear()
		p.bar = nil
	}
}

// Printed returns the number of rows printed so far.
func (p *LivePrinter) Printed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printed
}

func (p *LivePrinter) format(row model.Row) string {
	if row.Error && row.Status == 0 {
		return fmt.Sprintf("%s %s %s", p.red("[ERR]"), row.URL, p.gray(row.ErrorMessage))
	}
	return fmt.Sprintf("%s %s", p.status(row.Status), rowBody(p.kind, row))
}

func (p *LivePrinter) severity(s model.Severity) string {
	switch {
	case s >= model.SeverityHigh:
		return p.red("[!]")
	case s == model.SeverityMedium:
		return p.yellow("[!]")
	default:
		return p.gray("[i]")
	}
}

func (p *LivePrinter) status(code int) string {
	tag := fmt.Sprintf("[%3d]", code)
	switch {
	case code >= 200 && code < 300:
		return p.green(tag)
	case code >= 300 && code < 400:
		return p.gray(tag)
	case code >= 400 && code < 500:
		return p.yellow(tag)
	default:
		return p.red(tag)
	}
}
