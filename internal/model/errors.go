package model

import "errors"

// ErrConfiguration is the root of every job configuration error.
// Each specific error below wraps it, so callers can check either
// errors.Is(err, ErrConfiguration) or the precise sentinel.
var ErrConfiguration = errors.New("invalid job configuration")

// Job configuration errors returned by the Validate methods.
var (
	// ErrMissingTarget is returned when the target or start URL is empty.
	ErrMissingTarget = configError("target url is required")

	// ErrInvalidTargetURL is returned when the target is not an absolute http(s) URL.
	ErrInvalidTargetURL = configError("target url must be an absolute http or https url")

	// ErrInvalidDepth is returned for a negative crawl depth.
	ErrInvalidDepth = configError("crawl depth must be non-negative")

	// ErrInvalidPageLimit is returned when the crawl page limit is not positive.
	ErrInvalidPageLimit = configError("page limit must be positive")

	// ErrInvalidDelay is returned for a negative inter-request delay.
	ErrInvalidDelay = configError("delay must be non-negative")

	// ErrEmptyWordlist is returned when a brute force job has no words.
	ErrEmptyWordlist = configError("wordlist must not be empty")

	// ErrMissingMethod is returned when a fuzz job has no HTTP method.
	ErrMissingMethod = configError("http method is required")

	// ErrNoParameters is returned when a fuzz job has no parameters to inject.
	ErrNoParameters = configError("at least one parameter is required")

	// ErrNoPayloads is returned when a fuzz job has neither payloads nor a payload file.
	ErrNoPayloads = configError("at least one payload or a payload file is required")

	// ErrInvalidBodyEncoding is returned for an unknown fuzz body encoding.
	ErrInvalidBodyEncoding = configError("body encoding must be form or json")

	// ErrInvalidTimeout is returned for a negative request timeout.
	ErrInvalidTimeout = configError("timeout must be non-negative")
)

type wrappedConfigError struct {
	msg string
}

func configError(msg string) error {
	return &wrappedConfigError{msg: msg}
}

func (e *wrappedConfigError) Error() string {
	return ErrConfiguration.Error() + ": " + e.msg
}

func (e *wrappedConfigError) Unwrap() error {
	return ErrConfiguration
}

// ErrUnknownSeverity is returned when a severity name cannot be parsed.
var ErrUnknownSeverity = errors.New("unknown severity")
