package flow_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/itinera/pkg/adapters/memory"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/flow"
	"github.com/voyago/itinera/pkg/trip"
)

type recordingNotifier struct {
	notices []string
}

func (r *recordingNotifier) Notify(message string) {
	r.notices = append(r.notices, message)
}

type harness struct {
	fc       *flow.Context
	log      *flow.MessageLog
	notifier *recordingNotifier
	registry *flow.Registry
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	log := flow.NewMessageLog()
	notifier := &recordingNotifier{}
	fc := flow.NewContext("s1", trip.New(nil), memory.DemoCatalog(), flow.DirectMessenger{Sink: log})
	fc.Notifier = notifier
	return &harness{fc: fc, log: log, notifier: notifier, registry: flow.Default()}
}

func (h *harness) step(t *testing.T, id string) flow.Step {
	t.Helper()
	step, err := h.registry.Get(id)
	require.NoError(t, err)
	return step
}

func (h *harness) enter(t *testing.T, id string) {
	t.Helper()
	require.NoError(t, h.step(t, id).Enter(context.Background(), h.fc))
}

func (h *harness) respond(t *testing.T, id, input string) string {
	t.Helper()
	next, err := h.step(t, id).Respond(context.Background(), h.fc, input)
	require.NoError(t, err)
	return next
}

func (h *harness) transcript() string {
	var b strings.Builder
	for _, m := range h.log.Messages() {
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// seedTrip walks the harness to the packages step with an 8-day COAST trip.
func (h *harness) seedTrip(t *testing.T) {
	t.Helper()
	require.Equal(t, flow.StepDuration, h.respond(t, flow.StepWelcome, "hi"))
	require.Equal(t, flow.StepZones, h.respond(t, flow.StepDuration, "8 for 2"))
	require.Equal(t, flow.StepPackages, h.respond(t, flow.StepZones, "COAST"))
	h.enter(t, flow.StepPackages)
}

func TestDurationRejectsNonsense(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "", h.respond(t, flow.StepDuration, "a while"))
	assert.Equal(t, 0, h.fc.Trip.State().TotalDays)
	assert.NotEmpty(t, h.notifier.notices)

	assert.Equal(t, flow.StepZones, h.respond(t, flow.StepDuration, "8"))
	assert.Equal(t, 8, h.fc.Trip.State().TotalDays)
}

func TestDurationRejectsTooShort(t *testing.T) {
	h := newHarness(t)
	assert.Equal(t, "", h.respond(t, flow.StepDuration, "1"))
	assert.Equal(t, 0, h.fc.Trip.State().TotalDays)
}

func TestZonesOfferRespectsUnlockStage(t *testing.T) {
	h := newHarness(t)
	h.enter(t, flow.StepZones)

	text := h.transcript()
	assert.Contains(t, text, "Amalfi Coast")
	assert.Contains(t, text, "Mountain Pass")
	assert.NotContains(t, text, "High Peaks", "stage-2 zone stays hidden at availability 1")
}

func TestZonesUnknownCodeIsNotified(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, flow.StepDuration, h.respond(t, flow.StepWelcome, "hi"))
	require.Equal(t, flow.StepZones, h.respond(t, flow.StepDuration, "8"))

	assert.Equal(t, "", h.respond(t, flow.StepZones, "ATLANTIS"))
	assert.Empty(t, h.fc.Trip.State().Zones)
	require.NotEmpty(t, h.notifier.notices)
	assert.Contains(t, h.notifier.notices[len(h.notifier.notices)-1], "ATLANTIS")
}

func TestZonesMultiSelectBuildsSkeleton(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, flow.StepDuration, h.respond(t, flow.StepWelcome, "hi"))
	require.Equal(t, flow.StepZones, h.respond(t, flow.StepDuration, "10"))
	require.Equal(t, flow.StepPackages, h.respond(t, flow.StepZones, "COAST, PASS, HILLS"))

	state := h.fc.Trip.State()
	require.Len(t, state.Zones, 3)
	require.Len(t, state.Blocks, 3)
	assert.Equal(t, domain.BlockArrival, state.Blocks[0].Type)
	assert.Equal(t, domain.BlockTransfer, state.Blocks[1].Type, "transit waypoint yields a transfer day")
	assert.Equal(t, domain.BlockLogistics, state.Blocks[2].Type)
}

func TestPackagesSkipPagesThroughPool(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)

	// COAST has four experiences: one page of three, then a page of one.
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "skip"))
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "skip"))

	text := h.transcript()
	assert.Contains(t, text, "out of suggestions")
}

func TestPackagesLikeBooksAndNarrows(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)

	assert.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))
	state := h.fc.Trip.State()
	require.Len(t, state.Blocks, 2)
	assert.Equal(t, 2, state.Blocks[1].Day)
	assert.Equal(t, "C1", state.Blocks[1].Experience.Code)

	// The booked experience is never re-offered.
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))
	require.NotEmpty(t, h.notifier.notices)
}

func TestPackagesFreeDaysStopAtBudget(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)

	// 8 days leave 6 allocatable; asking for 10 free days books 6.
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "free 10"))
	state := h.fc.Trip.State()
	assert.Len(t, state.Blocks, 7)
	assert.Equal(t, 0, h.fc.Trip.DaysRemaining())
	for _, b := range state.Blocks[1:] {
		assert.Equal(t, domain.BlockFree, b.Type)
	}
	require.NotEmpty(t, h.notifier.notices)
}

func TestPackagesFinishUnlocksNextStage(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)
	require.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))

	next := h.respond(t, flow.StepPackages, "finish")
	assert.Equal(t, flow.StepSummaryBeforeHotels, next)
	assert.Equal(t, 2, h.fc.Trip.State().Availability)
}

func TestPackagesChangeZoneKeepsBookings(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)
	require.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))
	h.fc.Cursor.Liked = append([]string{}, h.fc.Cursor.Liked...)

	next := h.respond(t, flow.StepPackages, "zone")
	assert.Equal(t, flow.StepZones, next)
	assert.Len(t, h.fc.Trip.State().Blocks, 2, "committed days survive a zone change")
	assert.Empty(t, h.fc.Cursor.Liked, "only the liked-list is cleared")
}

func TestPackagesNextHoldsWhileZoneEmpty(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)

	// COAST owns the arrival block, so the step itself is satisfiable; an
	// additional empty zone holds it again.
	step := h.step(t, flow.StepPackages)
	assert.Equal(t, "", step.Next(h.fc))

	require.Equal(t, flow.StepZones, h.respond(t, flow.StepPackages, "zone"))
	require.Equal(t, flow.StepPackages, h.respond(t, flow.StepZones, "HILLS"))
	assert.Equal(t, flow.StepPackages, step.Next(h.fc))
}

func TestPackagesLikeFitsLastFreeDay(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, flow.StepDuration, h.respond(t, flow.StepWelcome, "hi"))
	require.Equal(t, flow.StepZones, h.respond(t, flow.StepDuration, "4"))
	require.Equal(t, flow.StepPackages, h.respond(t, flow.StepZones, "COAST"))
	h.enter(t, flow.StepPackages)

	// 4 days: arrival + 2 free slots + departure. Likes in the zone being
	// planned cost one day each, so both slots can be filled.
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))
	assert.Equal(t, 1, h.fc.Trip.DaysRemaining())

	assert.Equal(t, "", h.respond(t, flow.StepPackages, "like C2"))
	state := h.fc.Trip.State()
	require.Len(t, state.Blocks, 3)
	assert.Equal(t, "C2", state.Blocks[2].Experience.Code)
	assert.Equal(t, 0, h.fc.Trip.DaysRemaining())
	assert.Contains(t, h.transcript(), "That fills the trip")
}

func TestPackagesResumeAfterSummaryBack(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)
	require.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))
	require.Equal(t, flow.StepSummaryBeforeHotels, h.respond(t, flow.StepPackages, "finish"))

	// Finishing walked the cursor off the end of the zone list; coming back
	// from the summary must re-arm it instead of dead-ending.
	require.Equal(t, flow.StepPackages, h.respond(t, flow.StepSummaryBeforeHotels, "back"))
	h.enter(t, flow.StepPackages)
	assert.Contains(t, h.transcript(), "Let's plan Amalfi Coast")

	assert.Equal(t, "", h.respond(t, flow.StepPackages, "free 1"))
	state := h.fc.Trip.State()
	require.Len(t, state.Blocks, 3)
	assert.Equal(t, domain.BlockFree, state.Blocks[2].Type)
}

func TestPackagesExtendExplicitCount(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, flow.StepDuration, h.respond(t, flow.StepWelcome, "hi"))
	require.Equal(t, flow.StepZones, h.respond(t, flow.StepDuration, "3"))
	require.Equal(t, flow.StepPackages, h.respond(t, flow.StepZones, "COAST"))
	h.enter(t, flow.StepPackages)

	// Sea Lover needs 3 days against 1 available, so it parks as pending.
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "package PKG-SEA"))
	require.NotNil(t, h.fc.Cursor.PendingPackage)
	assert.Equal(t, 2, h.fc.Cursor.PendingMissingDays)
	require.Len(t, h.fc.Trip.State().Blocks, 1)

	// An explicit count is honored even when it falls short of the gap: the
	// trip grows by exactly one day and the package stays pending.
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "extend 1"))
	assert.Equal(t, 4, h.fc.Trip.State().TotalDays)
	require.NotNil(t, h.fc.Cursor.PendingPackage)
	assert.Equal(t, 1, h.fc.Cursor.PendingMissingDays)
	require.Len(t, h.fc.Trip.State().Blocks, 1)
	assert.Contains(t, h.transcript(), "still misses 1 day(s)")

	// A bare extend covers the recomputed shortfall and books the package.
	assert.Equal(t, "", h.respond(t, flow.StepPackages, "extend"))
	state := h.fc.Trip.State()
	assert.Equal(t, 5, state.TotalDays)
	require.Len(t, state.Blocks, 4)
	assert.Nil(t, h.fc.Cursor.PendingPackage)
	assert.Equal(t, 0, h.fc.Trip.DaysRemaining())
}

func TestHotelsBooksEveryZoneThenFinishes(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)
	require.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))

	h.enter(t, flow.StepHotels)
	next := h.respond(t, flow.StepHotels, "premium with spa, breakfast note ground floor please")
	assert.Equal(t, flow.StepFinalSummary, next)

	sel, ok := h.fc.Trip.State().HotelFor("COAST")
	require.True(t, ok)
	assert.Equal(t, "premium", sel.Tier)
	assert.Equal(t, 2, sel.Nights)
	assert.Len(t, sel.Extras, 2)
	assert.Equal(t, "ground floor please", sel.Note)
}

func TestHotelsSkipStillCovers(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)

	h.enter(t, flow.StepHotels)
	next := h.respond(t, flow.StepHotels, "skip")
	assert.Equal(t, flow.StepFinalSummary, next)

	sel, ok := h.fc.Trip.State().HotelFor("COAST")
	require.True(t, ok)
	assert.Equal(t, "none", sel.Tier)
	assert.Equal(t, 0, sel.Nights)
}

func TestHotelsUnknownTierReprompts(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)

	h.enter(t, flow.StepHotels)
	next := h.respond(t, flow.StepHotels, "palace")
	assert.Equal(t, "", next)
	_, ok := h.fc.Trip.State().HotelFor("COAST")
	assert.False(t, ok)
}

func TestSummaryRendersItineraryAndCosts(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)
	require.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))

	h.enter(t, flow.StepSummaryBeforeHotels)
	text := h.transcript()
	assert.Contains(t, text, "8-day itinerary")
	assert.Contains(t, text, "Sunrise boat tour")
	assert.Contains(t, text, "Departure")
	assert.Contains(t, text, "Total")

	assert.Equal(t, flow.StepHotels, h.respond(t, flow.StepSummaryBeforeHotels, "hotels"))
	assert.Equal(t, flow.StepPackages, h.respond(t, flow.StepSummaryBeforeHotels, "back"))
}

func TestFinalSummaryRestartResets(t *testing.T) {
	h := newHarness(t)
	h.seedTrip(t)
	require.Equal(t, "", h.respond(t, flow.StepPackages, "like C1"))

	next := h.respond(t, flow.StepFinalSummary, "restart")
	assert.Equal(t, flow.StepWelcome, next)
	state := h.fc.Trip.State()
	assert.Zero(t, state.TotalDays)
	assert.Empty(t, state.Blocks)
	assert.Empty(t, state.Zones)
	assert.Empty(t, h.fc.Answers)
}
