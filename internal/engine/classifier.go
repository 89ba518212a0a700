package engine

import (
	"slices"

	"github.com/nao1215/webrecon/internal/model"
)

// Classifier decides whether a response is retained in the filtered results.
// The zero value retains everything.
type Classifier struct {
	// Allow, when non-empty, lists the only statuses retained.
	Allow []int

	// Deny lists statuses that are never retained, even if allowed.
	Deny []int

	// MinLength is the smallest retained body length, inclusive.
	MinLength int
}

// Retain reports whether a response with the given status and body length
// passes the filter.
func (c Classifier) Retain(status, length int) bool {
	if slices.Contains(c.Deny, status) {
		return false
	}
	if len(c.Allow) > 0 && !slices.Contains(c.Allow, status) {
		return false
	}
	return length >= c.MinLength
}

// ClassifierFor returns the filter a job configured with cfg applies to its
// rows. Crawls retain every row.
func ClassifierFor(cfg model.JobConfig) Classifier {
	switch v := cfg.(type) {
	case model.BruteForceConfig:
		return ClassifierFor(&v)
	case *model.BruteForceConfig:
		d := v.WithDefaults()
		return Classifier{Allow: d.AllowStatus, Deny: d.DenyStatus, MinLength: d.MinLength}
	case model.FuzzConfig:
		return ClassifierFor(&v)
	case *model.FuzzConfig:
		d := v.WithDefaults()
		return Classifier{Allow: d.AllowStatus, Deny: d.DenyStatus, MinLength: d.MinLength}
	default:
		return Classifier{}
	}
}
