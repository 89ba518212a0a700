package model

import "time"

// JobReport is the terminal record of one job. It is what gets persisted,
// rendered by report writers and passed between pipeline steps.
type JobReport struct {
	// ID uniquely identifies the job.
	ID string `json:"id"`

	// Kind is the strategy the job ran.
	Kind StrategyKind `json:"kind"`

	// Target is the start URL or target URL.
	Target string `json:"target"`

	// State is the lifecycle state the job ended in.
	State JobState `json:"state"`

	// Error is the message of an unhandled failure when State is StateError.
	Error string `json:"error,omitempty"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`

	Metrics Metrics `json:"metrics"`

	// Rows holds every emitted row in emission order.
	Rows []Row `json:"rows"`

	// Retained holds the rows that passed the filter, in emission order.
	Retained []Row `json:"retained"`

	// Findings are the distinct findings observed in any response.
	Findings []Finding `json:"findings"`
}

// NewJobReport creates an empty report for a job.
func NewJobReport(id string, kind StrategyKind, target string) *JobReport {
	return &JobReport{
		ID:       id,
		Kind:     kind,
		Target:   target,
		State:    StateIdle,
		Rows:     []Row{},
		Retained: []Row{},
		Findings: []Finding{},
	}
}

// MaxSeverity returns the worst severity among the findings and false when
// there are none.
func (r *JobReport) MaxSeverity() (Severity, bool) {
	if len(r.Findings) == 0 {
		return SeverityInfo, false
	}
	worst := r.Findings[0].Severity
	for _, f := range r.Findings[1:] {
		worst = max(worst, f.Severity)
	}
	return worst, true
}

// ErrorRows returns the rows flagged as errors.
func (r *JobReport) ErrorRows() []Row {
	var out []Row
	for _, row := range r.Rows {
		if row.Error {
			out = append(out, row)
		}
	}
	return out
}

// StatusCounts tallies emitted rows by status code.
func (r *JobReport) StatusCounts() map[int]int {
	counts := make(map[int]int)
	for _, row := range r.Rows {
		counts[row.Status]++
	}
	return counts
}

// Duplicates groups retained rows by body hash and returns the groups with
// more than one member. Identical bodies across different URLs usually
// indicate a catch-all or soft 404 page.
func (r *JobReport) Duplicates() map[string][]Row {
	groups := make(map[string][]Row)
	for _, row := range r.Retained {
		if row.Hash == "" {
			continue
		}
		groups[row.Hash] = append(groups[row.Hash], row)
	}
	for hash, rows := range groups {
		if len(rows) < 2 {
			delete(groups, hash)
		}
	}
	return groups
}
