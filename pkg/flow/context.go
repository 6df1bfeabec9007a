package flow

import (
	"log/slog"

	"github.com/voyago/itinera/internal/logging"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/ports"
	"github.com/voyago/itinera/pkg/trip"
)

// Messenger stages user-facing output. The production implementation
// schedules deliveries with a typing delay; tests append directly.
type Messenger interface {
	Say(stepID, text string)
	CancelAll()
}

// LoopState is the loop-local cursor for the packages and hotels steps. It
// survives across many discrete user responses while the named step stays
// active, and is only re-initialized when the cursor moves to a new zone.
//
// It lives on the per-session Context, never on the shared step
// descriptors in the registry.
type LoopState struct {
	// ZoneIndex is the position in the trip's zone list currently being
	// filled (packages) or booked (hotels).
	ZoneIndex int

	// PoolZone records which zone the pool below belongs to, so re-entry
	// can tell initialization from re-render.
	PoolZone string

	// Pool is the remaining experience pool for the current zone.
	Pool []domain.Experience

	// Offered is the page (at most pageSize entries) currently presented.
	Offered []domain.Experience

	// Liked tracks experience codes accepted for the current zone.
	Liked []string

	// PendingPackage holds a package whose addition failed day-budget
	// validation, while the traveller decides between extending the trip
	// and abandoning the addition.
	PendingPackage *ports.Package

	// PendingMissingDays is the shortfall reported with PendingPackage.
	PendingMissingDays int
}

// reset clears the cursor for a new zone, keeping nothing.
func (l *LoopState) reset() {
	*l = LoopState{ZoneIndex: l.ZoneIndex}
}

// Context is the per-session bundle handed to every step handler: the
// aggregate, its collaborators, and the loop-local cursor.
type Context struct {
	SessionID string

	Trip    *trip.Trip
	Answers map[string]any

	Catalog  ports.CatalogSource
	Notifier ports.Notifier
	Out      Messenger
	Logger   *slog.Logger

	Cursor LoopState
}

// NewContext assembles a session context around a trip aggregate.
func NewContext(sessionID string, tr *trip.Trip, cat ports.CatalogSource, out Messenger) *Context {
	return &Context{
		SessionID: sessionID,
		Trip:      tr,
		Answers:   make(map[string]any),
		Catalog:   cat,
		Notifier:  ports.NopNotifier{},
		Out:       out,
		Logger:    logging.NewNop(),
	}
}

// Say stages one message attributed to the given step.
func (fc *Context) Say(stepID, text string) {
	fc.Out.Say(stepID, text)
}

// Notify pushes a fire-and-forget notice. Delivery is best-effort.
func (fc *Context) Notify(message string) {
	if fc.Notifier != nil {
		fc.Notifier.Notify(message)
	}
}

// nonTransitZones returns the selected zones that consume allocatable days,
// in visiting order.
func (fc *Context) nonTransitZones() []domain.Zone {
	var out []domain.Zone
	for _, z := range fc.Trip.State().Zones {
		if !z.Transit {
			out = append(out, z)
		}
	}
	return out
}
