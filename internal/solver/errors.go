package solver

import "errors"

var (
	// ErrUnknownBackend means the configured backend name is not in the
	// backend table.
	ErrUnknownBackend = errors.New("unknown solver backend")

	// ErrObjectiveSet means a second objective install was attempted.
	ErrObjectiveSet = errors.New("objective already set")

	// ErrValueUnavailable means a variable has no finite value yet.
	ErrValueUnavailable = errors.New("variable value unavailable")

	// ErrBadSense means a sense name was outside {maximize, minimize}.
	ErrBadSense = errors.New("invalid objective sense")

	// ErrSingular means the Newton step produced an unsolvable linear
	// system, usually from a structurally deficient equation set.
	ErrSingular = errors.New("singular jacobian system")
)
