package config

import (
	"net/url"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/webrecon/internal/model"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "webrecon"

	// DefaultTimeout bounds a single HTTP request.
	DefaultTimeout = 5 * time.Second

	// DefaultCrawlDepth is how many link levels below the start page a crawl follows.
	DefaultCrawlDepth = 2

	// DefaultPageLimit caps the number of pages a crawl visits.
	DefaultPageLimit = 100

	// DefaultBatchSize is the number of targets scanned concurrently.
	DefaultBatchSize = 1

	// DefaultUserAgent identifies webrecon in HTTP requests.
	DefaultUserAgent = "webrecon/1.0"

	// DefaultMaxBodySize limits the response body size read per request.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultTorStartupTimeout bounds the embedded Tor bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute

	// DefaultMinSeverity reports every finding.
	DefaultMinSeverity = "info"
)

// Config holds the options shared by every scan command. It is populated
// from CLI flags and passed down explicitly.
type Config struct {
	// Targets are the URLs to scan. Each target becomes its own job.
	Targets []string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// Quiet suppresses the live row output and progress bar.
	Quiet bool

	// NoColor disables colored terminal output.
	NoColor bool

	// BatchSize is the number of targets scanned concurrently.
	BatchSize int

	// RateLimit caps requests per second across all jobs. Zero disables it.
	RateLimit float64

	// UserAgent is the default User-Agent header.
	UserAgent string

	// Proxy routes requests through an http, https or socks5 proxy.
	Proxy string

	// UseTor starts an embedded Tor daemon and routes every request through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// InsecureTLS disables certificate verification.
	InsecureTLS bool

	// FollowRedirects makes the transport follow 3xx responses.
	FollowRedirects bool

	// MaxBodySize is the maximum number of body bytes read per response.
	MaxBodySize int64

	// ConfigFilePath is the path of the profile file. When empty, .webrecon
	// is searched in the current directory and then the home directory.
	ConfigFilePath string

	// Profiles holds per-host settings loaded from the profile file.
	Profiles *File

	// JSONReport selects the JSON report format. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects the Markdown report format.
	MarkdownReport bool

	// ReportFile writes the report to a file instead of stdout.
	ReportFile string

	// DBDir is the directory holding the job database.
	DBDir string

	// SaveToDB stores finished jobs in the database.
	SaveToDB bool

	// Inspect runs the finding detectors over every response.
	Inspect bool

	// MinSeverity is the lowest finding severity kept, e.g. "medium".
	MinSeverity string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		BatchSize:         DefaultBatchSize,
		UserAgent:         DefaultUserAgent,
		FollowRedirects:   true,
		MaxBodySize:       DefaultMaxBodySize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		DBDir:             XDGDataDir(),
		SaveToDB:          true,
		Inspect:           true,
		MinSeverity:       DefaultMinSeverity,
	}
}

// XDGDataDir returns the XDG data directory for webrecon.
// On Linux: ~/.local/share/webrecon
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for webrecon.
// On Linux: ~/.config/webrecon
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	for _, target := range c.Targets {
		u, err := url.Parse(target)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			return ErrInvalidTarget
		}
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.RateLimit < 0 {
		return ErrInvalidRateLimit
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.UseTor {
		if c.Proxy != "" {
			return ErrTorWithProxy
		}
		if c.TorStartupTimeout <= 0 {
			return ErrInvalidTorTimeout
		}
	}
	if c.Proxy != "" {
		u, err := url.Parse(c.Proxy)
		if err != nil || u.Host == "" {
			return ErrInvalidProxy
		}
	}
	if c.Inspect {
		if _, err := model.ParseSeverity(c.MinSeverity); err != nil {
			return ErrInvalidSeverity
		}
	}
	return nil
}

// MinSeverityLevel returns MinSeverity parsed, or SeverityInfo when it is
// not a valid name.
func (c *Config) MinSeverityLevel() model.Severity {
	s, err := model.ParseSeverity(c.MinSeverity)
	if err != nil {
		return model.SeverityInfo
	}
	return s
}
