// Package presentation renders trip state into markdown for the summary
// steps and the terminal frontend.
package presentation

import (
	"fmt"
	"strings"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/rules"
)

// Itinerary renders the day-by-day plan grouped by zone. The departure day
// is synthesized at day == TotalDays; it is never stored as a block.
func Itinerary(state *domain.TripState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Your %d-day itinerary\n\n", state.TotalDays)
	if state.Travellers > 1 {
		fmt.Fprintf(&b, "Party of %d.\n\n", state.Travellers)
	}

	for _, group := range rules.GroupBlocksByZone(state.Blocks) {
		fmt.Fprintf(&b, "## %s\n\n", group.ZoneName)
		for _, block := range group.Blocks {
			fmt.Fprintf(&b, "- **Day %d** — %s\n", block.Day, describeBlock(block))
		}
		if hotel, ok := state.HotelFor(group.ZoneCode); ok {
			fmt.Fprintf(&b, "- Lodging: %s, %d night(s)%s\n", hotel.Tier, hotel.Nights, describeExtras(hotel.Extras))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "- **Day %d** — Departure\n", state.TotalDays)
	return b.String()
}

// CostTable renders the cost breakdown as a markdown table.
func CostTable(costs domain.CostBreakdown) string {
	var b strings.Builder
	b.WriteString("| Item | Amount |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Experiences | %.2f |\n", costs.Experiences)
	fmt.Fprintf(&b, "| Hotels | %.2f |\n", costs.Hotels)
	if costs.HotelExtras > 0 {
		fmt.Fprintf(&b, "| Hotel extras | %.2f |\n", costs.HotelExtras)
	}
	if costs.Accessories > 0 {
		fmt.Fprintf(&b, "| Accessories | %.2f |\n", costs.Accessories)
	}
	fmt.Fprintf(&b, "| **Total** | **%.2f** |\n", costs.Total)
	return b.String()
}

func describeBlock(block domain.Block) string {
	switch block.Type {
	case domain.BlockArrival:
		return "Arrival in " + block.ZoneName
	case domain.BlockLogistics:
		return "Settling into " + block.ZoneName
	case domain.BlockTransfer:
		if block.Experience != nil && block.Experience.Description != "" {
			return block.Experience.Description
		}
		return "Transfer to " + block.ZoneName
	case domain.BlockFree:
		return "Free day"
	}

	if block.Experience == nil {
		return block.ZoneName
	}
	desc := block.Experience.Name
	if block.Experience.Price > 0 {
		desc += fmt.Sprintf(" (%.0f pp)", block.Experience.Price)
	}
	if block.PackageName != "" {
		desc += " · " + block.PackageName
	}
	return desc
}

func describeExtras(extras []domain.HotelExtra) string {
	if len(extras) == 0 {
		return ""
	}
	names := make([]string, len(extras))
	for i, e := range extras {
		names[i] = e.Name
	}
	return " with " + strings.Join(names, ", ")
}
