package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/voyago/itinera/pkg/domain"
)

type zonesStep struct{}

func (s *zonesStep) ID() string { return StepZones }

func (s *zonesStep) Enter(ctx context.Context, fc *Context) error {
	offerable, err := s.offerable(ctx, fc)
	if err != nil {
		fc.Notify("I couldn't load the zone list right now — I'll retry when you answer.")
		fc.Logger.Warn("zone catalog load failed", "err", err)
	}

	if len(fc.Trip.State().Zones) == 0 {
		fc.Say(StepZones, "Which zones would you like to visit? Pick one, or several separated by commas — the order you name them is the order we'll travel.")
	} else {
		fc.Say(StepZones, "Let's add another zone to the trip. Where to next?")
	}
	if len(offerable) > 0 {
		var b strings.Builder
		for _, z := range offerable {
			fmt.Fprintf(&b, "- %s (%s", z.Name, z.Code)
			if z.DaysRecommended > 0 {
				fmt.Fprintf(&b, ", ~%d days recommended", z.DaysRecommended)
			}
			if z.Transit {
				b.WriteString(", transit stop")
			}
			b.WriteString(")\n")
		}
		fc.Say(StepZones, b.String())
	}
	return nil
}

func (s *zonesStep) Respond(ctx context.Context, fc *Context, input string) (string, error) {
	offerable, err := s.offerable(ctx, fc)
	if err != nil {
		fc.Notify("The zone list is still unavailable. Try again in a moment.")
		return "", nil
	}

	codes := splitCodes(input)
	if len(codes) == 0 {
		fc.Say(StepZones, "Tell me a zone code from the list.")
		return "", nil
	}

	firstSelection := len(fc.Trip.State().Zones) == 0
	added := 0
	for _, code := range codes {
		zone, ok := findZone(offerable, code)
		if !ok {
			fc.Notify(fmt.Sprintf("I don't know a zone called %q.", code))
			continue
		}
		if firstSelection {
			// The up-front selection builds the day skeleton: arrival for
			// the first zone, a logistics day per zone after it.
			fc.Trip.AddZone(zone)
		} else {
			// Additional zones are additive: the blocks come later, from
			// the package or experience that actually books days there.
			fc.Trip.RegisterZone(zone)
		}
		added++
	}

	if added == 0 {
		return "", nil
	}
	return StepPackages, nil
}

func (s *zonesStep) Next(fc *Context) string {
	if len(fc.Trip.State().Zones) == 0 {
		return StepZones
	}
	return ""
}

// offerable filters catalog zones by the progressive-unlock counter and
// drops zones already selected.
func (s *zonesStep) offerable(ctx context.Context, fc *Context) ([]domain.Zone, error) {
	all, err := fc.Catalog.Zones(ctx)
	if err != nil {
		return nil, err
	}
	state := fc.Trip.State()
	var out []domain.Zone
	for _, z := range all {
		if z.Stage > state.Availability {
			continue
		}
		if _, selected := state.Zone(z.Code); selected {
			continue
		}
		out = append(out, z)
	}
	return out, nil
}

func findZone(zones []domain.Zone, code string) (domain.Zone, bool) {
	for _, z := range zones {
		if strings.EqualFold(z.Code, code) || strings.EqualFold(z.Name, code) {
			return z, true
		}
	}
	return domain.Zone{}, false
}

func splitCodes(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if code := strings.TrimSpace(part); code != "" {
			out = append(out, code)
		}
	}
	return out
}
