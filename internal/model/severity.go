package model

import (
	"fmt"
	"strings"
)

// Severity is the risk level of a finding. Higher values are worse, so
// severities sort naturally.
type Severity int

const (
	// SeverityInfo marks findings with no direct impact, such as tracking IDs.
	SeverityInfo Severity = iota
	// SeverityLow marks version banners and similar fingerprinting aids.
	SeverityLow
	// SeverityMedium marks contact data and exposed tooling.
	SeverityMedium
	// SeverityHigh marks exposed endpoints and configuration.
	SeverityHigh
	// SeverityCritical marks leaked credentials and key material.
	SeverityCritical
)

var severityNames = map[Severity]string{
	SeverityInfo:     "INFO",
	SeverityLow:      "LOW",
	SeverityMedium:   "MEDIUM",
	SeverityHigh:     "HIGH",
	SeverityCritical: "CRITICAL",
}

// String returns the upper-case severity name.
func (s Severity) String() string {
	if name, ok := severityNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseSeverity converts a name such as "high" back into a Severity.
func ParseSeverity(name string) (Severity, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range severityNames {
		if n == upper {
			return s, nil
		}
	}
	return SeverityInfo, fmt.Errorf("%w: %q", ErrUnknownSeverity, name)
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	v, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
