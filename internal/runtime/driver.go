// Package runtime drives the conversation: it owns the current-step
// pointer, dispatches user input to the active step, and runs entry
// handlers exactly once per activation.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyago/itinera/internal/logging"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/flow"
)

// Driver walks one session through the step registry. It is not safe for
// concurrent use; callers serialize access per session.
type Driver struct {
	registry *flow.Registry
	fc       *flow.Context
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	current string
	// lastEntered guards entry idempotency: a transition that lands on the
	// step already active does not re-run its entry handler, so loop-local
	// cursors survive redundant dispatches.
	lastEntered string
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver's logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithHooks installs lifecycle callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(d *Driver) { d.hooks = h }
}

// NewDriver assembles a driver over a registry and a session context.
func NewDriver(registry *flow.Registry, fc *flow.Context, opts ...Option) *Driver {
	d := &Driver{
		registry: registry,
		fc:       fc,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Current returns the active step ID, or "" before Start.
func (d *Driver) Current() string { return d.current }

// Done reports whether the session reached the terminal step.
func (d *Driver) Done() bool { return d.current == flow.StepFinalSummary }

// Start activates the given step, or the welcome step when empty. Used both
// for fresh sessions and for resuming from a snapshot, where the entry
// handler re-renders the step the traveller left off at.
func (d *Driver) Start(ctx context.Context, stepID string) error {
	if stepID == "" {
		stepID = flow.StepWelcome
	}
	return d.Transition(ctx, stepID)
}

// HandleInput dispatches one user utterance to the active step.
//
// The step's response handler proposes a transition; the target step's
// consistency check can veto it and keep the session in place. A proposed
// target equal to the active step re-renders without re-running entry.
func (d *Driver) HandleInput(ctx context.Context, input string) error {
	step, err := d.registry.Get(d.current)
	if err != nil {
		return fmt.Errorf("no active step: %w", err)
	}

	next, err := step.Respond(ctx, d.fc, input)
	if err != nil {
		return fmt.Errorf("step %s: %w", d.current, err)
	}
	if next == "" || next == d.current {
		return nil
	}

	// The active step gets the last word on whether it is complete. The
	// check guards completion only: a detour backward (picking up another
	// zone from the packages loop) always goes through.
	if hold := step.Next(d.fc); hold != "" && hold != next && flow.Forward(d.current, next) {
		d.logger.Debug("transition vetoed", "from", d.current, "wanted", next, "held_at", hold)
		next = hold
	}
	return d.Transition(ctx, next)
}

// Transition moves the session to the target step and runs its entry
// handler, unless the target is already the entered step.
func (d *Driver) Transition(ctx context.Context, target string) error {
	step, err := d.registry.Get(target)
	if err != nil {
		return err
	}

	if target == d.current && target == d.lastEntered {
		return nil
	}

	if d.current != "" && d.current != target {
		d.emitStep(ctx, domain.EventStepLeave, d.current)
	}

	d.current = target
	d.logger.Debug("step enter", "session", d.fc.SessionID, "step", target)
	if err := step.Enter(ctx, d.fc); err != nil {
		return fmt.Errorf("entering %s: %w", target, err)
	}
	d.lastEntered = target
	d.emitStep(ctx, domain.EventStepEnter, target)
	return nil
}

// Close tears the session down, cancelling every message still staged.
func (d *Driver) Close() {
	d.fc.Out.CancelAll()
}

func (d *Driver) emitStep(ctx context.Context, kind domain.EventType, stepID string) {
	var fn func(context.Context, *domain.StepEvent)
	switch kind {
	case domain.EventStepEnter:
		fn = d.hooks.OnStepEnter
	case domain.EventStepLeave:
		fn = d.hooks.OnStepLeave
	}
	if fn == nil {
		return
	}
	fn(ctx, &domain.StepEvent{
		Timestamp: time.Now(),
		Type:      kind,
		SessionID: d.fc.SessionID,
		StepID:    stepID,
	})
}
