package model

import (
	"cmp"
	"slices"
)

// Finding is something sensitive observed in a response: leaked key
// material, a contact address, an exposed endpoint or a version banner.
type Finding struct {
	// Type identifies the detector, e.g. "aws_access_key".
	Type string `json:"type"`

	// Title is a short human-readable description.
	Title string `json:"title"`

	Severity Severity `json:"severity"`

	// Value is the matched text. Secrets are redacted before they get here.
	Value string `json:"value,omitempty"`

	// URL is the response the finding was observed in. When the same
	// finding shows up in several responses only the first is kept.
	URL string `json:"url"`
}

// Key identifies a finding independently of where it was seen.
func (f Finding) Key() string {
	return f.Type + "|" + f.Value
}

// SortFindings orders findings by descending severity, then by type and
// value, so reports list the worst problems first.
func SortFindings(findings []Finding) {
	slices.SortStableFunc(findings, func(a, b Finding) int {
		if c := cmp.Compare(b.Severity, a.Severity); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Type, b.Type); c != 0 {
			return c
		}
		return cmp.Compare(a.Value, b.Value)
	})
}
