package presentation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyago/itinera/pkg/domain"
)

func sampleState() *domain.TripState {
	state := domain.NewTripState()
	state.TotalDays = 6
	state.Travellers = 2
	state.Zones = []domain.Zone{
		{Code: "COAST", Name: "Amalfi Coast", Order: 1},
	}
	state.Blocks = []domain.Block{
		{Day: 1, Type: domain.BlockArrival, ZoneCode: "COAST", ZoneName: "Amalfi Coast"},
		{Day: 2, Type: domain.BlockExperience, ZoneCode: "COAST", ZoneName: "Amalfi Coast",
			Experience: &domain.Experience{Code: "C1", Name: "Sunrise boat tour", Price: 60}},
		{Day: 3, Type: domain.BlockFree, ZoneCode: "COAST", ZoneName: "Amalfi Coast"},
	}
	state.Hotels = []domain.HotelSelection{
		{ZoneKey: "COAST", Tier: "premium", Nights: 3, Extras: []domain.HotelExtra{{Name: "spa", Price: 20}}},
	}
	return state
}

func TestItinerary(t *testing.T) {
	out := Itinerary(sampleState())

	assert.Contains(t, out, "# Your 6-day itinerary")
	assert.Contains(t, out, "Party of 2.")
	assert.Contains(t, out, "## Amalfi Coast")
	assert.Contains(t, out, "Arrival in Amalfi Coast")
	assert.Contains(t, out, "Sunrise boat tour (60 pp)")
	assert.Contains(t, out, "Free day")
	assert.Contains(t, out, "Lodging: premium, 3 night(s) with spa")
}

func TestItinerarySynthesizesDeparture(t *testing.T) {
	out := Itinerary(sampleState())

	assert.Contains(t, out, "**Day 6** — Departure")
	// The departure only exists in the rendering, once.
	assert.Equal(t, 1, strings.Count(out, "Departure"))
}

func TestCostTable(t *testing.T) {
	out := CostTable(domain.CostBreakdown{
		Experiences: 120,
		Hotels:      450,
		HotelExtras: 60,
		Total:       630,
	})

	assert.Contains(t, out, "| Experiences | 120.00 |")
	assert.Contains(t, out, "| Hotel extras | 60.00 |")
	assert.NotContains(t, out, "Accessories")
	assert.Contains(t, out, "| **Total** | **630.00** |")
}
