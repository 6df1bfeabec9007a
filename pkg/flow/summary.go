package flow

import (
	"context"
	"strings"

	"github.com/voyago/itinera/internal/presentation"
	"github.com/voyago/itinera/pkg/trip"
)

type summaryStep struct{}

func (s *summaryStep) ID() string { return StepSummaryBeforeHotels }

func (s *summaryStep) Enter(ctx context.Context, fc *Context) error {
	fc.Say(StepSummaryBeforeHotels, presentation.Itinerary(fc.Trip.State()))

	pricing, err := pricingFromCatalog(ctx, fc)
	if err != nil {
		fc.Logger.Warn("pricing load failed", "err", err)
	}
	fc.Say(StepSummaryBeforeHotels, "So far:\n"+presentation.CostTable(fc.Trip.Costs(pricing)))
	fc.Say(StepSummaryBeforeHotels, `Happy with the plan? Say "hotels" to pick your accommodation, or "back" to keep refining.`)
	return nil
}

func (s *summaryStep) Respond(ctx context.Context, fc *Context, input string) (string, error) {
	switch verb, _ := splitVerb(input); verb {
	case "hotels", "yes", "continue", "ok":
		return StepHotels, nil
	case "back", "refine", "packages":
		return StepPackages, nil
	default:
		fc.Say(StepSummaryBeforeHotels, `Say "hotels" to continue, or "back" to keep refining the itinerary.`)
		return "", nil
	}
}

func (s *summaryStep) Next(fc *Context) string { return "" }

type finalSummaryStep struct{}

func (s *finalSummaryStep) ID() string { return StepFinalSummary }

func (s *finalSummaryStep) Enter(ctx context.Context, fc *Context) error {
	fc.Say(StepFinalSummary, presentation.Itinerary(fc.Trip.State()))

	pricing, err := pricingFromCatalog(ctx, fc)
	if err != nil {
		fc.Logger.Warn("pricing load failed", "err", err)
	}
	fc.Say(StepFinalSummary, "Final cost estimate:\n"+presentation.CostTable(fc.Trip.Costs(pricing)))
	fc.Say(StepFinalSummary, `That's your trip! Say "restart" to plan a new one.`)
	return nil
}

func (s *finalSummaryStep) Respond(ctx context.Context, fc *Context, input string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(input), "restart") {
		fc.Trip.Reset()
		fc.Cursor = LoopState{}
		fc.Answers = make(map[string]any)
		return StepWelcome, nil
	}
	fc.Say(StepFinalSummary, `Your itinerary is complete. Say "restart" to start over.`)
	return "", nil
}

func (s *finalSummaryStep) Next(fc *Context) string { return "" }

// pricingFromCatalog assembles the unit prices the cost breakdown needs.
// Load failures degrade to zero prices; the caller decides whether to log.
func pricingFromCatalog(ctx context.Context, fc *Context) (trip.Pricing, error) {
	pricing := trip.Pricing{HotelTiers: make(map[string]float64)}

	tiers, err := fc.Catalog.HotelTiers(ctx)
	if err != nil {
		return pricing, err
	}
	for _, t := range tiers {
		pricing.HotelTiers[t.Name] = t.PricePerNight
	}

	pricing.AccessoryPerPerson, err = fc.Catalog.AccessoryPrice(ctx)
	return pricing, err
}
