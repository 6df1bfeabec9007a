package trip

import (
	"github.com/samber/lo"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/rules"
)

// Pricing carries the externally sourced unit prices the aggregate cannot
// know by itself: hotel tier rates and the flat per-person accessory charge.
type Pricing struct {
	// HotelTiers maps a tier name to its per-night, per-person price.
	HotelTiers map[string]float64

	// AccessoryPerPerson is a flat charge applied once per traveller.
	AccessoryPerPerson float64
}

// Costs recomputes the derived cost breakdown from the current state.
func (t *Trip) Costs(pricing Pricing) domain.CostBreakdown {
	party := float64(t.state.Travellers)

	priced := make([]domain.Experience, 0, len(t.state.Blocks))
	for _, b := range t.state.Blocks {
		if b.Experience == nil {
			continue
		}
		if b.Type == domain.BlockExperience || b.Type == domain.BlockFree {
			priced = append(priced, *b.Experience)
		}
	}

	var breakdown domain.CostBreakdown
	breakdown.Experiences = rules.ExperiencesCost(priced) * party

	for _, h := range t.state.Hotels {
		nights := float64(h.Nights)
		breakdown.Hotels += pricing.HotelTiers[h.Tier] * nights * party
		breakdown.HotelExtras += lo.SumBy(h.Extras, func(e domain.HotelExtra) float64 {
			return e.Price
		}) * nights * party
	}

	breakdown.Accessories = pricing.AccessoryPerPerson * party
	breakdown.Total = breakdown.Experiences + breakdown.Hotels + breakdown.HotelExtras + breakdown.Accessories
	return breakdown
}
