/*
Package flow defines the conversation steps of the itinerary wizard.

Each step has an entry handler, a response handler and a next-step
consistency check. Steps are registered in a Registry the driver dispatches
against; they never hold per-session state themselves. Loop-local state
(the zone cursor, the remaining experience pool) lives on the per-session
Context, so concurrent sessions can never bleed into each other.
*/
package flow

import (
	"context"
	"fmt"
)

// Step IDs, in walking order. packages and hotels are loop states: the
// named step stays active while an internal cursor advances across zones.
const (
	StepWelcome             = "welcome"
	StepDuration            = "duration"
	StepZones               = "zones"
	StepPackages            = "packages"
	StepSummaryBeforeHotels = "summary_before_hotels"
	StepHotels              = "hotels"
	StepFinalSummary        = "final_summary"
)

// walkOrder positions the canonical steps along the wizard walk.
var walkOrder = map[string]int{
	StepWelcome:             0,
	StepDuration:            1,
	StepZones:               2,
	StepPackages:            3,
	StepSummaryBeforeHotels: 4,
	StepHotels:              5,
	StepFinalSummary:        6,
}

// Forward reports whether a transition from one step to another advances
// the wizard toward completion. Backward and lateral moves (revisiting
// zones from the packages loop, restarting from the final summary) are not
// forward. Steps outside the canonical walk count as forward, so custom
// registries keep the stricter behavior.
func Forward(from, to string) bool {
	a, okFrom := walkOrder[from]
	b, okTo := walkOrder[to]
	if !okFrom || !okTo {
		return true
	}
	return b > a
}

// Step is one named state of the conversation.
type Step interface {
	// ID returns the step's registry name.
	ID() string

	// Enter runs once per activation. It may read the aggregate, stage
	// messages and trigger catalog loading. It must be idempotent under
	// re-entry: loop state already initialized for the current cursor
	// position is left alone.
	Enter(ctx context.Context, fc *Context) error

	// Respond processes one user input. It mutates the aggregate through
	// its action set only, and returns the ID of the step to transition to,
	// or "" to stay and re-render options.
	Respond(ctx context.Context, fc *Context, input string) (string, error)

	// Next is the consistency check, a pure function of the session state:
	// it returns the step's own ID while the step is genuinely incomplete,
	// "" once it has no objection to moving on. The driver consults it
	// before honoring a transition requested by Respond.
	Next(fc *Context) string
}

// Registry is the table of named steps.
type Registry struct {
	steps map[string]Step
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{steps: make(map[string]Step)}
}

// Register adds a step. A step with the same ID is overwritten.
func (r *Registry) Register(step Step) {
	r.steps[step.ID()] = step
}

// Get looks up a step by ID.
func (r *Registry) Get(id string) (Step, error) {
	step, ok := r.steps[id]
	if !ok {
		return nil, fmt.Errorf("unknown step: %s", id)
	}
	return step, nil
}

// Default builds the registry with the full wizard walk:
// welcome → duration → zones → packages* → summary_before_hotels →
// hotels* → final_summary.
func Default() *Registry {
	r := NewRegistry()
	r.Register(&welcomeStep{})
	r.Register(&durationStep{})
	r.Register(&zonesStep{})
	r.Register(&packagesStep{})
	r.Register(&summaryStep{})
	r.Register(&hotelsStep{})
	r.Register(&finalSummaryStep{})
	return r
}
