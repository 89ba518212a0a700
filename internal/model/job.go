package model

// StrategyKind identifies which scanning strategy a job runs.
type StrategyKind string

const (
	// StrategyCrawl recursively follows links discovered in fetched pages.
	StrategyCrawl StrategyKind = "crawl"
	// StrategyBruteForce requests target/topdir/word for every wordlist entry.
	StrategyBruteForce StrategyKind = "bruteforce"
	// StrategyFuzz injects every payload into every configured parameter.
	StrategyFuzz StrategyKind = "fuzz"
)

// String returns the strategy kind as a string.
func (k StrategyKind) String() string {
	return string(k)
}

// IsValid reports whether the kind is one of the known strategies.
func (k StrategyKind) IsValid() bool {
	switch k {
	case StrategyCrawl, StrategyBruteForce, StrategyFuzz:
		return true
	default:
		return false
	}
}

// JobState is the lifecycle state of a scanning job.
//
// The legal transitions are:
//
//	Idle -> Configured -> Running <-> Paused
//	Running|Paused -> Stopped | Completed | Error
//
// Stopped, Completed and Error are terminal.
type JobState string

const (
	// StateIdle is the state of a controller that has no configuration yet.
	StateIdle JobState = "idle"
	// StateConfigured means a validated configuration is bound.
	StateConfigured JobState = "configured"
	// StateRunning means the strategy is issuing requests.
	StateRunning JobState = "running"
	// StatePaused means the strategy is blocked at a checkpoint.
	StatePaused JobState = "paused"
	// StateStopped means the job ended early on request.
	StateStopped JobState = "stopped"
	// StateCompleted means the strategy exhausted its work.
	StateCompleted JobState = "completed"
	// StateError means the strategy failed with an unhandled error.
	StateError JobState = "error"
)

// String returns the state as a string.
func (s JobState) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible.
func (s JobState) IsTerminal() bool {
	return s == StateStopped || s == StateCompleted || s == StateError
}

// IsActive reports whether the job is currently executing, paused or not.
func (s JobState) IsActive() bool {
	return s == StateRunning || s == StatePaused
}
