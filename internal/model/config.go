package model

import (
	"net/url"
	"strings"
	"time"
)

// Default filter allow-lists applied by WithDefaults when none is given.
var (
	DefaultBruteForceAllow = []int{200}
	DefaultFuzzAllow       = []int{200, 403, 500}
)

// JobConfig is the configuration of one job. The set of implementations is
// closed: CrawlConfig, BruteForceConfig and FuzzConfig.
type JobConfig interface {
	// Kind reports which strategy the configuration selects.
	Kind() StrategyKind

	// TargetURL returns the start URL or target URL of the job.
	TargetURL() string

	// Validate reports the first configuration problem as an error wrapping
	// ErrConfiguration.
	Validate() error

	isJobConfig()
}

// CrawlConfig configures a recursive link-following crawl.
type CrawlConfig struct {
	// StartURL is the first page fetched.
	StartURL string `json:"startUrl" yaml:"startUrl"`

	// Depth is how many link levels below StartURL are followed.
	// Depth 0 fetches only StartURL.
	Depth int `json:"depth" yaml:"depth"`

	// PageLimit caps the number of distinct URLs visited.
	PageLimit int `json:"pageLimit" yaml:"pageLimit"`

	// Delay is slept after each fetch.
	Delay time.Duration `json:"delay" yaml:"delay"`

	UserAgent string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Proxy     string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies   map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty"`

	// Excluded URLs are skipped when any entry is a substring of the raw
	// extracted URL.
	Excluded []string `json:"excluded,omitempty" yaml:"excluded,omitempty"`

	// SameHostOnly restricts the crawl to the host of StartURL.
	SameHostOnly bool `json:"sameHostOnly,omitempty" yaml:"sameHostOnly,omitempty"`

	// IgnorePatterns and FollowPatterns are glob patterns matched against
	// the path of resolved URLs.
	IgnorePatterns []string `json:"ignorePatterns,omitempty" yaml:"ignorePatterns,omitempty"`
	FollowPatterns []string `json:"followPatterns,omitempty" yaml:"followPatterns,omitempty"`

	// Timeout is the per-request timeout. Zero uses the transport default.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

func (CrawlConfig) isJobConfig() {}

// Kind returns StrategyCrawl.
func (CrawlConfig) Kind() StrategyKind { return StrategyCrawl }

// TargetURL returns StartURL.
func (c CrawlConfig) TargetURL() string { return c.StartURL }

// Validate checks the crawl configuration.
func (c CrawlConfig) Validate() error {
	if err := validateTarget(c.StartURL); err != nil {
		return err
	}
	if c.Depth < 0 {
		return ErrInvalidDepth
	}
	if c.PageLimit <= 0 {
		return ErrInvalidPageLimit
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// IsExcluded reports whether rawURL contains any exclusion entry.
func (c CrawlConfig) IsExcluded(rawURL string) bool {
	for _, ex := range c.Excluded {
		if ex != "" && strings.Contains(rawURL, ex) {
			return true
		}
	}
	return false
}

// BruteForceConfig configures directory and file enumeration.
type BruteForceConfig struct {
	// Target is the base URL. A trailing slash is ignored.
	Target string `json:"target" yaml:"target"`

	// Wordlist entries are appended to Target/TopDir one by one.
	Wordlist []string `json:"-" yaml:"-"`

	// TopDir is an optional directory inserted between Target and each word.
	TopDir string `json:"topDir,omitempty" yaml:"topDir,omitempty"`

	// AllowStatus lists retained status codes. Empty means DefaultBruteForceAllow.
	AllowStatus []int `json:"allowStatus,omitempty" yaml:"allowStatus,omitempty"`

	// DenyStatus lists status codes that are never retained.
	DenyStatus []int `json:"denyStatus,omitempty" yaml:"denyStatus,omitempty"`

	// MinLength is the minimum body length a retained row must have.
	MinLength int `json:"minLength,omitempty" yaml:"minLength,omitempty"`

	// AttemptLimit caps the number of words tried. Zero or negative means unbounded.
	AttemptLimit int `json:"attemptLimit,omitempty" yaml:"attemptLimit,omitempty"`

	UserAgent string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Proxy     string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies   map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Timeout   time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

func (BruteForceConfig) isJobConfig() {}

// Kind returns StrategyBruteForce.
func (BruteForceConfig) Kind() StrategyKind { return StrategyBruteForce }

// TargetURL returns Target.
func (c BruteForceConfig) TargetURL() string { return c.Target }

// Validate checks the brute force configuration.
func (c BruteForceConfig) Validate() error {
	if err := validateTarget(c.Target); err != nil {
		return err
	}
	if len(c.Wordlist) == 0 {
		return ErrEmptyWordlist
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// WithDefaults returns a copy with the default allow-list applied and the
// target and top directory normalized.
func (c BruteForceConfig) WithDefaults() BruteForceConfig {
	c.Target = strings.TrimRight(c.Target, "/")
	c.TopDir = strings.Trim(c.TopDir, "/")
	if len(c.AllowStatus) == 0 {
		c.AllowStatus = append([]int(nil), DefaultBruteForceAllow...)
	}
	return c
}

// CandidateURL builds the URL requested for one word. The config is
// expected to have gone through WithDefaults.
func (c BruteForceConfig) CandidateURL(word string) string {
	if c.TopDir == "" {
		return c.Target + "/" + word
	}
	return c.Target + "/" + c.TopDir + "/" + word
}

// Attempts returns how many words will be tried.
func (c BruteForceConfig) Attempts() int {
	if c.AttemptLimit > 0 && c.AttemptLimit < len(c.Wordlist) {
		return c.AttemptLimit
	}
	return len(c.Wordlist)
}

// FuzzConfig configures parameter fuzzing.
type FuzzConfig struct {
	// Target is the URL requested for every payload and parameter pair.
	Target string `json:"target" yaml:"target"`

	// Method is the HTTP method. GET, HEAD and DELETE carry parameters in the
	// query string, every other method in the body.
	Method string `json:"method" yaml:"method"`

	// Parameters are the names each payload is injected into.
	Parameters []string `json:"parameters" yaml:"parameters"`

	// Payloads are the injected values.
	Payloads []string `json:"-" yaml:"-"`

	// PayloadFile is read when Payloads is empty.
	PayloadFile string `json:"payloadFile,omitempty" yaml:"payloadFile,omitempty"`

	// BodyTemplate holds extra fields sent with every request. It is copied
	// before each injection and never mutated.
	BodyTemplate map[string]string `json:"bodyTemplate,omitempty" yaml:"bodyTemplate,omitempty"`

	// BodyEncoding selects form or JSON bodies. Empty means form.
	BodyEncoding BodyEncoding `json:"bodyEncoding,omitempty" yaml:"bodyEncoding,omitempty"`

	AllowStatus []int `json:"allowStatus,omitempty" yaml:"allowStatus,omitempty"`
	DenyStatus  []int `json:"denyStatus,omitempty" yaml:"denyStatus,omitempty"`
	MinLength   int   `json:"minLength,omitempty" yaml:"minLength,omitempty"`

	UserAgent string            `json:"userAgent,omitempty" yaml:"userAgent,omitempty"`
	Proxy     string            `json:"proxy,omitempty" yaml:"proxy,omitempty"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Cookies   map[string]string `json:"cookies,omitempty" yaml:"cookies,omitempty"`
	Timeout   time.Duration     `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

func (FuzzConfig) isJobConfig() {}

// Kind returns StrategyFuzz.
func (FuzzConfig) Kind() StrategyKind { return StrategyFuzz }

// TargetURL returns Target.
func (c FuzzConfig) TargetURL() string { return c.Target }

// Validate checks the fuzz configuration.
func (c FuzzConfig) Validate() error {
	if err := validateTarget(c.Target); err != nil {
		return err
	}
	if strings.TrimSpace(c.Method) == "" {
		return ErrMissingMethod
	}
	if len(c.Parameters) == 0 {
		return ErrNoParameters
	}
	if len(c.Payloads) == 0 && c.PayloadFile == "" {
		return ErrNoPayloads
	}
	switch c.BodyEncoding {
	case "", BodyForm, BodyJSON:
	default:
		return ErrInvalidBodyEncoding
	}
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// WithDefaults returns a copy with the method upper-cased and the default
// encoding and allow-list applied.
func (c FuzzConfig) WithDefaults() FuzzConfig {
	c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
	if c.BodyEncoding == "" {
		c.BodyEncoding = BodyForm
	}
	if len(c.AllowStatus) == 0 {
		c.AllowStatus = append([]int(nil), DefaultFuzzAllow...)
	}
	return c
}

// UsesQuery reports whether the method sends parameters in the query string.
func (c FuzzConfig) UsesQuery() bool {
	switch strings.ToUpper(c.Method) {
	case "GET", "HEAD", "DELETE":
		return true
	default:
		return false
	}
}

func validateTarget(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return ErrMissingTarget
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidTargetURL
	}
	return nil
}
