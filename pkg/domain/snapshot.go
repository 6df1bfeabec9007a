package domain

// SnapshotVersion is the current schema version of persisted sessions.
// Loading a snapshot with a different version triggers a clean reset rather
// than partial hydration.
const SnapshotVersion = 1

// Snapshot is the durable serialization of one session: the wizard answers,
// the trip aggregate and the step the conversation was on.
type Snapshot struct {
	Version int            `json:"version"`
	Step    string         `json:"step"`
	Answers map[string]any `json:"answers,omitempty"`
	Trip    *TripState     `json:"trip"`
}

// NewSnapshot creates a fresh snapshot positioned at the given step.
func NewSnapshot(step string) *Snapshot {
	return &Snapshot{
		Version: SnapshotVersion,
		Step:    step,
		Answers: make(map[string]any),
		Trip:    NewTripState(),
	}
}

// Compatible reports whether the snapshot can be hydrated by this build.
func (s *Snapshot) Compatible() bool {
	return s != nil && s.Version == SnapshotVersion && s.Trip != nil
}
