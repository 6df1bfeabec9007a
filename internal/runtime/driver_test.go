package runtime

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/flow"
)

// stubStep is a scriptable step for driver tests.
type stubStep struct {
	id         string
	enterCount int
	respond    func(fc *flow.Context, input string) string
	hold       func(fc *flow.Context) string
}

func (s *stubStep) ID() string { return s.id }

func (s *stubStep) Enter(ctx context.Context, fc *flow.Context) error {
	s.enterCount++
	return nil
}

func (s *stubStep) Respond(ctx context.Context, fc *flow.Context, input string) (string, error) {
	if s.respond == nil {
		return "", nil
	}
	return s.respond(fc, input), nil
}

func (s *stubStep) Next(fc *flow.Context) string {
	if s.hold == nil {
		return ""
	}
	return s.hold(fc)
}

func newTestDriver(t *testing.T, steps ...*stubStep) (*Driver, *flow.Context) {
	t.Helper()
	reg := flow.NewRegistry()
	for _, s := range steps {
		reg.Register(s)
	}
	fc := newSessionContext(t)
	return NewDriver(reg, fc), fc
}

func newSessionContext(t *testing.T) *flow.Context {
	t.Helper()
	return flow.NewContext("s-test", nil, nil, flow.DirectMessenger{Sink: flow.NewMessageLog()})
}

func TestStartEntersWelcomeByDefault(t *testing.T) {
	welcome := &stubStep{id: flow.StepWelcome}
	d, _ := newTestDriver(t, welcome)

	require.NoError(t, d.Start(context.Background(), ""))
	assert.Equal(t, flow.StepWelcome, d.Current())
	assert.Equal(t, 1, welcome.enterCount)
}

func TestStartResumesAtSnapshotStep(t *testing.T) {
	welcome := &stubStep{id: flow.StepWelcome}
	hotels := &stubStep{id: flow.StepHotels}
	d, _ := newTestDriver(t, welcome, hotels)

	require.NoError(t, d.Start(context.Background(), flow.StepHotels))
	assert.Equal(t, flow.StepHotels, d.Current())
	assert.Equal(t, 0, welcome.enterCount)
	assert.Equal(t, 1, hotels.enterCount)
}

func TestRedundantTransitionDoesNotReEnter(t *testing.T) {
	step := &stubStep{id: flow.StepPackages}
	d, _ := newTestDriver(t, step)

	ctx := context.Background()
	require.NoError(t, d.Transition(ctx, flow.StepPackages))
	require.NoError(t, d.Transition(ctx, flow.StepPackages))
	require.NoError(t, d.Transition(ctx, flow.StepPackages))

	assert.Equal(t, 1, step.enterCount, "entry handler must run once per activation")
}

func TestEmptyResponseStaysWithoutReEntry(t *testing.T) {
	step := &stubStep{
		id:      flow.StepPackages,
		respond: func(fc *flow.Context, input string) string { return "" },
	}
	d, _ := newTestDriver(t, step)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx, flow.StepPackages))
	require.NoError(t, d.HandleInput(ctx, "skip"))
	require.NoError(t, d.HandleInput(ctx, "skip"))

	assert.Equal(t, flow.StepPackages, d.Current())
	assert.Equal(t, 1, step.enterCount)
}

func TestConsistencyCheckVetoesTransition(t *testing.T) {
	incomplete := true
	packages := &stubStep{
		id:      flow.StepPackages,
		respond: func(fc *flow.Context, input string) string { return flow.StepSummaryBeforeHotels },
		hold: func(fc *flow.Context) string {
			if incomplete {
				return flow.StepPackages
			}
			return ""
		},
	}
	summary := &stubStep{id: flow.StepSummaryBeforeHotels}
	d, _ := newTestDriver(t, packages, summary)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx, flow.StepPackages))

	// Held in place while incomplete, without re-running entry.
	require.NoError(t, d.HandleInput(ctx, "finish"))
	assert.Equal(t, flow.StepPackages, d.Current())
	assert.Equal(t, 0, summary.enterCount)
	assert.Equal(t, 1, packages.enterCount)

	incomplete = false
	require.NoError(t, d.HandleInput(ctx, "finish"))
	assert.Equal(t, flow.StepSummaryBeforeHotels, d.Current())
	assert.Equal(t, 1, summary.enterCount)
}

func TestConsistencyCheckAllowsBackwardDetour(t *testing.T) {
	packages := &stubStep{
		id:      flow.StepPackages,
		respond: func(fc *flow.Context, input string) string { return flow.StepZones },
		// Incomplete the whole time: the hold must still not trap a
		// backward move to the zones step.
		hold: func(fc *flow.Context) string { return flow.StepPackages },
	}
	zones := &stubStep{id: flow.StepZones}
	d, _ := newTestDriver(t, packages, zones)

	ctx := context.Background()
	require.NoError(t, d.Start(ctx, flow.StepPackages))
	require.NoError(t, d.HandleInput(ctx, "zone"))

	assert.Equal(t, flow.StepZones, d.Current())
	assert.Equal(t, 1, zones.enterCount)
}

func TestUnknownStepTransitionFails(t *testing.T) {
	d, _ := newTestDriver(t, &stubStep{id: flow.StepWelcome})
	require.NoError(t, d.Start(context.Background(), ""))
	assert.Error(t, d.Transition(context.Background(), "no_such_step"))
	assert.Equal(t, flow.StepWelcome, d.Current(), "failed transition must not move the session")
}

func TestLifecycleHooks(t *testing.T) {
	var entered, left []string
	hooks := domain.LifecycleHooks{
		OnStepEnter: func(_ context.Context, e *domain.StepEvent) { entered = append(entered, e.StepID) },
		OnStepLeave: func(_ context.Context, e *domain.StepEvent) { left = append(left, e.StepID) },
	}

	reg := flow.NewRegistry()
	welcome := &stubStep{
		id:      flow.StepWelcome,
		respond: func(fc *flow.Context, input string) string { return flow.StepDuration },
	}
	reg.Register(welcome)
	reg.Register(&stubStep{id: flow.StepDuration})

	d := NewDriver(reg, newSessionContext(t), WithHooks(hooks))
	ctx := context.Background()
	require.NoError(t, d.Start(ctx, ""))
	require.NoError(t, d.HandleInput(ctx, "hi"))

	assert.Equal(t, []string{flow.StepWelcome, flow.StepDuration}, entered)
	assert.Equal(t, []string{flow.StepWelcome}, left)
}

func TestDoneAtFinalSummary(t *testing.T) {
	d, _ := newTestDriver(t, &stubStep{id: flow.StepFinalSummary})
	require.NoError(t, d.Start(context.Background(), flow.StepFinalSummary))
	assert.True(t, d.Done())
}
