package trip

import (
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/rules"
)

// Trip wraps a TripState with its action set. It owns the state
// exclusively: a session holds exactly one Trip and all writes funnel
// through these methods.
type Trip struct {
	state *domain.TripState
}

// New wraps an existing state. Pass domain.NewTripState() for a fresh session.
func New(state *domain.TripState) *Trip {
	if state == nil {
		state = domain.NewTripState()
	}
	return &Trip{state: state}
}

// State returns the underlying state. Callers must treat it as read-only.
func (t *Trip) State() *domain.TripState {
	return t.state
}

// SetTotalDays fixes the trip length. It applies only once per session;
// later growth goes through ExtendDays.
func (t *Trip) SetTotalDays(days int) error {
	if t.state.TotalDays != 0 {
		return &domain.InvariantError{Op: "set total days", Reason: "trip length is already set"}
	}
	if days < 2 {
		return &domain.InvariantError{Op: "set total days", Reason: "a trip needs at least arrival and departure"}
	}
	t.state.TotalDays = days
	return nil
}

// ExtendDays grows the trip by n days. This is the only way TotalDays
// increases after the duration step.
func (t *Trip) ExtendDays(n int) {
	if n > 0 {
		t.state.TotalDays += n
	}
}

// SetTravellers sets the party size used by cost computation.
func (t *Trip) SetTravellers(n int) {
	if n > 0 {
		t.state.Travellers = n
	}
}

// AddZone appends a zone to the visiting order. No-op when the code is
// already selected. The first zone creates the arrival block on day 1;
// every later zone creates one logistics day (or a transfer day for a
// transit waypoint) at the end of the filled blocks.
func (t *Trip) AddZone(zone domain.Zone) {
	if _, exists := t.state.Zone(zone.Code); exists {
		return
	}

	zone.Order = len(t.state.Zones) + 1
	if len(t.state.Zones) == 0 {
		t.state.Zones = append(t.state.Zones, zone)
		t.state.Blocks = []domain.Block{{
			Day:      1,
			Type:     domain.BlockArrival,
			ZoneCode: zone.Code,
			ZoneName: zone.Name,
			Experience: &domain.Experience{
				Name:        "Arrival in " + zone.Name,
				Description: "First day of the trip: arrival and check-in in " + zone.Name + ".",
			},
		}}
		return
	}

	previous := rules.PreviousZoneName(t.state.Blocks)
	if previous == "" {
		previous = t.state.Zones[len(t.state.Zones)-1].Name
	}
	t.state.Zones = append(t.state.Zones, zone)

	blockType := domain.BlockLogistics
	description := "Logistics day: moving from " + previous + " and settling in " + zone.Name + "."
	if zone.Transit {
		blockType = domain.BlockTransfer
		description = "Transit through " + zone.Name + " on the way onward."
	}
	t.state.Blocks = append(t.state.Blocks, domain.Block{
		Day:      rules.LastDay(t.state.Blocks) + 1,
		Type:     blockType,
		ZoneCode: zone.Code,
		ZoneName: zone.Name,
		Experience: &domain.Experience{
			Name:        "Transfer to " + zone.Name,
			Description: description,
		},
	})
}

// RegisterZone appends a zone selection without touching the block list.
// The packages loop uses it when the traveller picks an additional zone:
// the transfer and logistics days are created by the package addition
// itself, which knows whether the zone actually changed.
func (t *Trip) RegisterZone(zone domain.Zone) {
	if _, exists := t.state.Zone(zone.Code); exists {
		return
	}
	zone.Order = len(t.state.Zones) + 1
	t.state.Zones = append(t.state.Zones, zone)
}

// RemoveZone drops a zone, renumbers the remaining orders densely from 1,
// and removes every block belonging to the zone.
//
// Remaining days are deliberately not compacted here: bulk zone removal is
// expected to be followed by a re-add, unlike single-day removal which goes
// through RemoveDay.
func (t *Trip) RemoveZone(code string) {
	zones := t.state.Zones[:0]
	for _, z := range t.state.Zones {
		if z.Code != code {
			zones = append(zones, z)
		}
	}
	for i := range zones {
		zones[i].Order = i + 1
	}
	t.state.Zones = zones

	blocks := t.state.Blocks[:0]
	for _, b := range t.state.Blocks {
		if b.ZoneCode != code {
			blocks = append(blocks, b)
		}
	}
	t.state.Blocks = blocks
}

// AddExperience appends one day for the given experience at the end of the
// itinerary. A free-day experience produces a free block.
func (t *Trip) AddExperience(zoneCode string, exp domain.Experience) {
	zoneName := zoneCode
	if z, ok := t.state.Zone(zoneCode); ok {
		zoneName = z.Name
	}

	blockType := domain.BlockExperience
	if exp.FreeDay {
		blockType = domain.BlockFree
	}
	e := exp
	t.state.Blocks = append(t.state.Blocks, domain.Block{
		Day:        rules.LastDay(t.state.Blocks) + 1,
		Type:       blockType,
		ZoneCode:   zoneCode,
		ZoneName:   zoneName,
		Experience: &e,
	})
}

// AddPackage appends the prepared blocks for a whole package, inserting the
// transfer/logistics prefix the rules engine mandates.
func (t *Trip) AddPackage(zoneCode string, meta rules.PackageMeta, experiences []domain.Experience) {
	zoneName := zoneCode
	if z, ok := t.state.Zone(zoneCode); ok {
		zoneName = z.Name
	}

	zoneChanged := rules.IsZoneChange(t.state.Blocks, zoneCode)
	previous := ""
	if zoneChanged {
		previous = rules.PreviousZoneName(t.state.Blocks)
	}

	prepared := rules.PrepareExperienceBlocks(
		experiences, meta, zoneCode, zoneName,
		rules.LastDay(t.state.Blocks)+1, zoneChanged, previous,
	)
	t.state.Blocks = append(t.state.Blocks, prepared...)
}

// RemoveDay removes a single filled day. Only the last day may go, and
// never day 1: the arrival anchors the sequence.
func (t *Trip) RemoveDay(day int) error {
	last := rules.LastDay(t.state.Blocks)
	if len(t.state.Blocks) == 0 || day != last {
		return &domain.InvariantError{Op: "remove day", Reason: "only the last filled day can be removed"}
	}
	if day == 1 {
		return &domain.InvariantError{Op: "remove day", Reason: "day 1 is the arrival and cannot be removed"}
	}
	t.state.Blocks = rules.CompactBlocks(t.state.Blocks, day)
	return nil
}

// SelectHotel upserts the lodging pick for a zone key.
func (t *Trip) SelectHotel(zoneKey, tier string, nights int, extras []domain.HotelExtra, note string) {
	selection := domain.HotelSelection{
		ZoneKey: zoneKey,
		Tier:    tier,
		Nights:  nights,
		Extras:  extras,
		Note:    note,
	}
	for i, h := range t.state.Hotels {
		if h.ZoneKey == zoneKey {
			t.state.Hotels[i] = selection
			return
		}
	}
	t.state.Hotels = append(t.state.Hotels, selection)
}

// DaysRemaining is the allocatable budget left before the reserved final day.
func (t *Trip) DaysRemaining() int {
	return t.state.TotalDays - 1 - len(t.state.Blocks)
}

// AdvanceAvailability bumps the progressive-unlock counter.
func (t *Trip) AdvanceAvailability() {
	t.state.Availability++
}

// Reset discards everything and starts the session over.
func (t *Trip) Reset() {
	t.state = domain.NewTripState()
}
