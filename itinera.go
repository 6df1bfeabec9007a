package itinera

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voyago/itinera/internal/logging"
	"github.com/voyago/itinera/internal/runtime"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/flow"
	"github.com/voyago/itinera/pkg/ports"
	"github.com/voyago/itinera/pkg/schedule"
	"github.com/voyago/itinera/pkg/trip"
)

// Version is the build version, overridden at release time via ldflags.
var Version = "dev"

// Engine is the high-level entry point for one planning session. It wires
// the step registry, the trip aggregate, the message log and the typing
// scheduler, and exposes a simple Start/Input/Snapshot surface.
//
// An Engine serves exactly one session; it is not safe for concurrent use.
type Engine struct {
	sessionID string
	catalog   ports.CatalogSource
	registry  *flow.Registry
	notifier  ports.Notifier
	hooks     domain.LifecycleHooks
	logger    *slog.Logger

	typingMin time.Duration
	typingMax time.Duration
	direct    bool

	resume *domain.Snapshot

	log       *flow.MessageLog
	scheduler *schedule.Scheduler
	fc        *flow.Context
	driver    *runtime.Driver
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithNotifier routes fire-and-forget notices to a custom sink.
func WithNotifier(n ports.Notifier) Option {
	return func(e *Engine) { e.notifier = n }
}

// WithTypingDelay bounds the simulated typing delay of staged messages.
func WithTypingDelay(min, max time.Duration) Option {
	return func(e *Engine) {
		e.typingMin = min
		e.typingMax = max
	}
}

// WithDirectDelivery disables the typing scheduler: messages land on the
// log synchronously. Tests and the HTTP adapter use this.
func WithDirectDelivery() Option {
	return func(e *Engine) { e.direct = true }
}

// WithSnapshot resumes the session from a persisted snapshot instead of
// starting fresh. Incompatible snapshots are rejected by New.
func WithSnapshot(snap *domain.Snapshot) Option {
	return func(e *Engine) { e.resume = snap }
}

// WithRegistry replaces the default step registry.
func WithRegistry(r *flow.Registry) Option {
	return func(e *Engine) { e.registry = r }
}

// New assembles an engine for the given session over a catalog source.
func New(sessionID string, catalog ports.CatalogSource, opts ...Option) (*Engine, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("catalog source is required")
	}

	e := &Engine{
		sessionID: sessionID,
		catalog:   catalog,
		typingMin: 400 * time.Millisecond,
		typingMax: 1500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.resume != nil && !e.resume.Compatible() {
		return nil, domain.ErrSnapshotVersion
	}
	if e.registry == nil {
		e.registry = flow.Default()
	}
	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	e.logger = e.logger.With("session", sessionID)

	e.log = flow.NewMessageLog()

	// The log is wrapped so every delivery reaches the OnMessage hook, and
	// the typing messenger reports what teardown dropped.
	var sink ports.MessageSink = e.log
	if e.hooks.OnMessage != nil {
		sink = &hookSink{sink: e.log, sessionID: sessionID, onMessage: e.hooks.OnMessage}
	}

	var out flow.Messenger
	if e.direct {
		out = flow.DirectMessenger{Sink: sink}
	} else {
		e.scheduler = schedule.New()
		tm := flow.NewTypingMessenger(e.scheduler, sink, e.typingMin, e.typingMax)
		if e.hooks.OnMessage != nil {
			tm.OnCancel = func(stepID string) {
				e.hooks.OnMessage(context.Background(), &domain.MessageEvent{
					Timestamp: time.Now(),
					SessionID: sessionID,
					StepID:    stepID,
					Cancelled: true,
				})
			}
		}
		out = tm
	}

	snap := e.resume
	if snap == nil {
		snap = domain.NewSnapshot(flow.StepWelcome)
	}

	e.fc = flow.NewContext(sessionID, trip.New(snap.Trip), catalog, out)
	e.fc.Logger = e.logger
	if e.notifier != nil {
		e.fc.Notifier = e.notifier
	}
	for k, v := range snap.Answers {
		e.fc.Answers[k] = v
	}

	e.driver = runtime.NewDriver(e.registry, e.fc,
		runtime.WithLogger(e.logger),
		runtime.WithHooks(e.hooks),
	)
	return e, nil
}

// Start activates the session's first step: welcome for a fresh session,
// the persisted step when resuming from a snapshot.
func (e *Engine) Start(ctx context.Context) error {
	step := ""
	if e.resume != nil {
		step = e.resume.Step
	}
	return e.driver.Start(ctx, step)
}

// Input dispatches one user utterance to the active step.
func (e *Engine) Input(ctx context.Context, text string) error {
	clean, err := SanitizeInput(text)
	if err != nil {
		return fmt.Errorf("rejecting input: %w", err)
	}
	return e.driver.HandleInput(ctx, clean)
}

// Current returns the active step ID.
func (e *Engine) Current() string { return e.driver.Current() }

// Done reports whether the session reached the final summary.
func (e *Engine) Done() bool { return e.driver.Done() }

// Messages returns the ordered message log the frontend renders from.
func (e *Engine) Messages() *flow.MessageLog { return e.log }

// Trip exposes the session's trip aggregate read-only, for inspection.
func (e *Engine) Trip() *trip.Trip { return e.fc.Trip }

// Snapshot captures the session for persistence. The trip state is deep
// copied so the caller can serialize it without racing the session.
func (e *Engine) Snapshot() *domain.Snapshot {
	answers := make(map[string]any, len(e.fc.Answers))
	for k, v := range e.fc.Answers {
		answers[k] = v
	}
	return &domain.Snapshot{
		Version: domain.SnapshotVersion,
		Step:    e.driver.Current(),
		Answers: answers,
		Trip:    e.fc.Trip.State().Clone(),
	}
}

// Pending returns the number of staged messages not yet delivered. Always
// zero with direct delivery.
func (e *Engine) Pending() int {
	if e.scheduler == nil {
		return 0
	}
	return e.scheduler.Pending()
}

// Close tears the session down: pending staged messages are cancelled and
// never delivered.
func (e *Engine) Close() {
	e.driver.Close()
	if e.scheduler != nil {
		e.scheduler.Close()
	}
}

// hookSink mirrors every delivered message into the OnMessage lifecycle
// hook on its way to the log.
type hookSink struct {
	sink      ports.MessageSink
	sessionID string
	onMessage func(context.Context, *domain.MessageEvent)
}

func (h *hookSink) Append(stepID, text string) {
	h.sink.Append(stepID, text)
	h.onMessage(context.Background(), &domain.MessageEvent{
		Timestamp: time.Now(),
		SessionID: h.sessionID,
		StepID:    stepID,
	})
}
