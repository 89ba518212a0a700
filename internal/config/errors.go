package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoTarget is returned when no target URL is given.
	ErrNoTarget = errors.New("no target specified: provide at least one url or use --list")

	// ErrInvalidTarget is returned when a target is not an absolute http(s) URL.
	ErrInvalidTarget = errors.New("invalid target: must be an absolute http or https url")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidRateLimit is returned for a negative rate limit.
	ErrInvalidRateLimit = errors.New("invalid rate limit: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidProxy is returned when the proxy is not a URL with a host.
	ErrInvalidProxy = errors.New("invalid proxy: expected a url such as socks5://127.0.0.1:9050")

	// ErrTorWithProxy is returned when --tor and --proxy are combined.
	ErrTorWithProxy = errors.New("conflicting proxies: --tor and --proxy cannot be used together")

	// ErrInvalidTorTimeout is returned when the Tor startup timeout is not positive.
	ErrInvalidTorTimeout = errors.New("invalid tor startup timeout: must be positive")

	// ErrInvalidSeverity is returned for an unknown --min-severity name.
	ErrInvalidSeverity = errors.New("invalid severity: use info, low, medium, high or critical")
)
