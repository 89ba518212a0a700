package model

import "time"

// Metrics is a snapshot of a job's counters.
type Metrics struct {
	// RunningTime is the wall-clock time since Start, frozen at termination.
	RunningTime time.Duration `json:"runningTime"`

	// ProcessedRequests counts every emitted row, errors included.
	ProcessedRequests int `json:"processedRequests"`

	// FilteredRequests counts rows that passed the job's filter.
	FilteredRequests int `json:"filteredRequests"`

	// RequestsPerSecond is ProcessedRequests / RunningTime, or 0 when no
	// time has elapsed.
	RequestsPerSecond float64 `json:"requestsPerSecond"`
}

// NewMetrics builds a snapshot and derives the request rate.
func NewMetrics(elapsed time.Duration, processed, filtered int) Metrics {
	m := Metrics{
		RunningTime:       elapsed,
		ProcessedRequests: processed,
		FilteredRequests:  filtered,
	}
	if secs := elapsed.Seconds(); secs > 0 {
		m.RequestsPerSecond = float64(processed) / secs
	}
	return m
}

// UnknownTotal is the Progress.Total value when the amount of work is not
// known in advance, as for crawls.
const UnknownTotal = -1

// Progress is delivered after every emitted row.
type Progress struct {
	// Processed is the number of rows emitted so far.
	Processed int `json:"processed"`

	// Total is the expected number of rows, or UnknownTotal.
	Total int `json:"total"`

	// Current is the URL, word or payload just processed.
	Current string `json:"current"`

	// Err holds the error text of the row, if any.
	Err string `json:"error,omitempty"`
}
