package inspect

import (
	"github.com/nao1215/webrecon/internal/model"
)

// Detector finds one family of problems in a response.
type Detector interface {
	// Name identifies the detector in logs and configuration.
	Name() string

	// Detect returns the findings in resp. It must not modify resp and
	// must be safe for concurrent use.
	Detect(resp *model.HTTPResponse) []model.Finding
}

// Inspector runs detectors over responses. It is safe for concurrent use.
type Inspector struct {
	detectors   []Detector
	minSeverity model.Severity
	maxBodySize int
}

// Option configures an Inspector.
type Option func(*Inspector)

// WithDetectors replaces the default detector set.
func WithDetectors(detectors ...Detector) Option {
	return func(i *Inspector) {
		i.detectors = detectors
	}
}

// WithMinSeverity drops findings below s.
func WithMinSeverity(s model.Severity) Option {
	return func(i *Inspector) {
		i.minSeverity = s
	}
}

// WithMaxBodySize limits how much of each body is scanned. Zero or less
// scans the whole body.
func WithMaxBodySize(n int) Option {
	return func(i *Inspector) {
		i.maxBodySize = n
	}
}

// DefaultMaxBodySize is the number of body bytes scanned by default.
const DefaultMaxBodySize = 1 << 20

// New creates an Inspector running DefaultDetectors.
func New(opts ...Option) *Inspector {
	i := &Inspector{
		detectors:   DefaultDetectors(),
		minSeverity: model.SeverityInfo,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// DefaultDetectors returns every built-in detector.
func DefaultDetectors() []Detector {
	return []Detector{
		NewSecretDetector(),
		NewExposureDetector(),
		NewEmailDetector(),
		NewTrackingDetector(),
		NewHeaderDetector(),
	}
}

// Detectors returns the names of the configured detectors.
func (i *Inspector) Detectors() []string {
	names := make([]string, 0, len(i.detectors))
	for _, d := range i.detectors {
		names = append(names, d.Name())
	}
	return names
}

// Inspect runs every detector over resp and returns the distinct findings,
// each stamped with the response URL.
func (i *Inspector) Inspect(resp *model.HTTPResponse) []model.Finding {
	if resp == nil {
		return nil
	}
	scanned := resp
	if i.maxBodySize > 0 && len(resp.Body) > i.maxBodySize {
		clipped := *resp
		clipped.Body = resp.Body[:i.maxBodySize]
		scanned = &clipped
	}

	var out []model.Finding
	seen := make(map[string]struct{})
	for _, d := range i.detectors {
		for _, f := range d.Detect(scanned) {
			if f.Severity < i.minSeverity {
				continue
			}
			if _, dup := seen[f.Key()]; dup {
				continue
			}
			seen[f.Key()] = struct{}{}
			f.URL = resp.URL
			out = append(out, f)
		}
	}
	return out
}
