package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/ports"
)

type hotelsStep struct{}

func (s *hotelsStep) ID() string { return StepHotels }

func (s *hotelsStep) Enter(ctx context.Context, fc *Context) error {
	zone, ok := nextUnbookedZone(fc)
	if !ok {
		fc.Say(StepHotels, `Accommodation is sorted everywhere. Say "done" for your final summary.`)
		return nil
	}
	s.present(ctx, fc, zone)
	return nil
}

func (s *hotelsStep) Respond(ctx context.Context, fc *Context, input string) (string, error) {
	zone, ok := nextUnbookedZone(fc)
	if !ok {
		return StepFinalSummary, nil
	}

	verb, _ := splitVerb(input)
	if verb == "skip" {
		// Explicitly no hotel for this zone. Still counts as covered.
		fc.Trip.SelectHotel(zone.Code, "none", 0, nil, "traveller arranges own lodging")
		return s.advance(ctx, fc)
	}

	tiers, err := fc.Catalog.HotelTiers(ctx)
	if err != nil {
		fc.Notify("I couldn't load the hotel options right now.")
		return "", nil
	}

	choice, extras, note := parseHotelChoice(input, tiers)
	if choice == nil {
		s.present(ctx, fc, zone)
		return "", nil
	}

	nights := nightsIn(fc.Trip.State(), zone.Code)
	fc.Trip.SelectHotel(zone.Code, choice.Name, nights, extras, note)
	fc.Say(StepHotels, fmt.Sprintf("Booked %s in %s for %d night(s).", choice.Name, zone.Name, nights))
	return s.advance(ctx, fc)
}

func (s *hotelsStep) Next(fc *Context) string {
	if _, ok := nextUnbookedZone(fc); ok {
		return StepHotels
	}
	return ""
}

func (s *hotelsStep) advance(ctx context.Context, fc *Context) (string, error) {
	if next, ok := nextUnbookedZone(fc); ok {
		s.present(ctx, fc, next)
		return "", nil
	}
	return StepFinalSummary, nil
}

func (s *hotelsStep) present(ctx context.Context, fc *Context, zone domain.Zone) {
	nights := nightsIn(fc.Trip.State(), zone.Code)
	fc.Say(StepHotels, fmt.Sprintf("Where would you like to stay in %s? (%d night(s))", zone.Name, nights))

	tiers, err := fc.Catalog.HotelTiers(ctx)
	if err != nil {
		fc.Notify("I couldn't load the hotel options right now.")
		return
	}

	var b strings.Builder
	for _, t := range tiers {
		fmt.Fprintf(&b, "- %s: %.0f per night per person", t.Name, t.PricePerNight)
		if t.Description != "" {
			b.WriteString(" — " + t.Description)
		}
		if len(t.Extras) > 0 {
			names := make([]string, len(t.Extras))
			for i, e := range t.Extras {
				names[i] = fmt.Sprintf("%s (+%.0f)", e.Name, e.Price)
			}
			b.WriteString("; extras: " + strings.Join(names, ", "))
		}
		b.WriteString("\n")
	}
	b.WriteString(`Name a tier, optionally "with <extra>, <extra>", or "skip".`)
	fc.Say(StepHotels, b.String())
}

// nextUnbookedZone finds the first non-transit zone without a lodging pick,
// in visiting order. Stateless on purpose: re-entry lands on the same zone.
func nextUnbookedZone(fc *Context) (domain.Zone, bool) {
	state := fc.Trip.State()
	for _, z := range state.Zones {
		if z.Transit {
			continue
		}
		if _, booked := state.HotelFor(z.Code); !booked {
			return z, true
		}
	}
	return domain.Zone{}, false
}

// nightsIn counts the nights spent in a zone: one per day block it owns.
func nightsIn(state *domain.TripState, zoneCode string) int {
	n := 0
	for _, b := range state.Blocks {
		if b.ZoneCode == zoneCode {
			n++
		}
	}
	return n
}

// parseHotelChoice matches "<tier> [with <extra>[, <extra>]] [note <text>]"
// against the offered tiers. Extras must exist on the chosen tier.
func parseHotelChoice(input string, tiers []ports.HotelTier) (*ports.HotelTier, []domain.HotelExtra, string) {
	text := strings.TrimSpace(input)

	note := ""
	if i := indexFold(text, " note "); i >= 0 {
		note = strings.TrimSpace(text[i+len(" note "):])
		text = strings.TrimSpace(text[:i])
	}

	extrasPart := ""
	if i := indexFold(text, " with "); i >= 0 {
		extrasPart = text[i+len(" with "):]
		text = strings.TrimSpace(text[:i])
	}

	var chosen *ports.HotelTier
	for i := range tiers {
		if strings.EqualFold(tiers[i].Name, text) {
			chosen = &tiers[i]
			break
		}
	}
	if chosen == nil {
		return nil, nil, ""
	}

	var extras []domain.HotelExtra
	for _, raw := range strings.Split(extrasPart, ",") {
		want := strings.TrimSpace(raw)
		if want == "" {
			continue
		}
		for _, e := range chosen.Extras {
			if strings.EqualFold(e.Name, want) {
				extras = append(extras, e)
				break
			}
		}
	}
	return chosen, extras, note
}

func indexFold(s, sub string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(sub))
}
