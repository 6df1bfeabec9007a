package domain

import (
	"errors"
	"fmt"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSnapshotVersion is returned when a persisted snapshot carries an
// incompatible schema version. Callers must reset rather than hydrate.
var ErrSnapshotVersion = errors.New("incompatible snapshot version")

// InvariantError rejects an operation that would corrupt the day sequence.
// The aggregate is left unchanged when one is returned.
type InvariantError struct {
	Op     string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s rejected: %s", e.Op, e.Reason)
}
