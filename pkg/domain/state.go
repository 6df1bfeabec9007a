package domain

// TripState is the single source of truth for one session. It is plain
// data: all mutation goes through the action set in the trip package, which
// is the only legal way to change it.
type TripState struct {
	// TotalDays is the fixed trip length. Set once per session, only ever
	// increased by an explicit extend action. Minimum 2 (arrival + departure).
	TotalDays int `json:"total_days"`

	// Travellers multiplies per-person costs. Defaults to 1.
	Travellers int `json:"travellers"`

	// Zones holds the selected zones in visiting order.
	Zones []Zone `json:"zones"`

	// Blocks is the day-block list, sorted ascending by day. It never
	// contains a departure block.
	Blocks []Block `json:"blocks"`

	// Hotels holds at most one selection per zone key.
	Hotels []HotelSelection `json:"hotels"`

	// Availability is the progressive-unlock counter gating which zones are
	// offered. Starts at 1, monotonically incremented, reset only by an
	// explicit session reset.
	Availability int `json:"availability"`
}

// NewTripState creates an empty session state.
func NewTripState() *TripState {
	return &TripState{
		Travellers:   1,
		Availability: 1,
	}
}

// Clone returns a deep copy, so stores and callers can hold a state without
// sharing slices with the live aggregate.
func (s *TripState) Clone() *TripState {
	if s == nil {
		return nil
	}
	next := *s
	next.Zones = append([]Zone(nil), s.Zones...)
	next.Blocks = make([]Block, len(s.Blocks))
	for i, b := range s.Blocks {
		next.Blocks[i] = b
		if b.Experience != nil {
			exp := *b.Experience
			next.Blocks[i].Experience = &exp
		}
	}
	next.Hotels = make([]HotelSelection, len(s.Hotels))
	for i, h := range s.Hotels {
		next.Hotels[i] = h
		next.Hotels[i].Extras = append([]HotelExtra(nil), h.Extras...)
	}
	return &next
}

// Zone returns the selected zone with the given code, or false.
func (s *TripState) Zone(code string) (Zone, bool) {
	for _, z := range s.Zones {
		if z.Code == code {
			return z, true
		}
	}
	return Zone{}, false
}

// HotelFor returns the hotel selection for a zone key, or false.
func (s *TripState) HotelFor(zoneKey string) (HotelSelection, bool) {
	for _, h := range s.Hotels {
		if h.ZoneKey == zoneKey {
			return h, true
		}
	}
	return HotelSelection{}, false
}
