package engine

import "errors"

var (
	// ErrStopped unwinds a strategy when Stop was requested or the context
	// passed to Start was canceled. Start maps it to model.StateStopped and
	// never returns it.
	ErrStopped = errors.New("job stopped")

	// ErrInvalidTransition is returned when a lifecycle method is called in
	// a state that does not allow it, such as a second Start.
	ErrInvalidTransition = errors.New("invalid job state transition")

	// ErrNoTransport is returned by NewController when no transport is given.
	ErrNoTransport = errors.New("transport is required")
)
