package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/ports"
	"github.com/voyago/itinera/pkg/rules"
)

// pageSize bounds how many experiences are offered per batch.
const pageSize = 3

type packagesStep struct{}

func (s *packagesStep) ID() string { return StepPackages }

func (s *packagesStep) Enter(ctx context.Context, fc *Context) error {
	zone, ok := currentLoopZone(fc)
	if !ok {
		// Returning from the summary for another round of refinement: the
		// cursor walked off the end, so point it back at the last zone.
		zone, ok = rearmLoop(fc)
	}
	if !ok {
		fc.Say(StepPackages, "Every zone is planned. Say \"finish\" to see the summary.")
		return nil
	}

	// Re-entry guard: the pool survives re-renders and is only built when
	// the cursor points at a zone it wasn't built for.
	if fc.Cursor.PoolZone != zone.Code {
		if err := s.loadPool(ctx, fc, zone); err != nil {
			fc.Notify("I couldn't load the experiences for " + zone.Name + " — I'll retry shortly.")
			fc.Logger.Warn("experience catalog load failed", "zone", zone.Code, "err", err)
		}
	}

	fc.Say(StepPackages, fmt.Sprintf("Let's plan %s. You have %d free days left.", zone.Name, fc.Trip.DaysRemaining()))
	s.present(fc, zone)
	return nil
}

func (s *packagesStep) Respond(ctx context.Context, fc *Context, input string) (string, error) {
	zone, ok := currentLoopZone(fc)
	if !ok {
		zone, ok = rearmLoop(fc)
	}
	if !ok {
		return s.finishZone(ctx, fc)
	}

	verb, arg := splitVerb(input)
	switch verb {
	case "like", "yes", "add":
		s.handleLike(fc, zone, arg)
		return "", nil

	case "skip", "no", "next", "dislike":
		s.handleSkip(fc, zone)
		return "", nil

	case "free":
		s.handleFreeDays(fc, zone, arg)
		return "", nil

	case "package":
		s.handlePackage(ctx, fc, zone, arg)
		return "", nil

	case "extend":
		s.handleExtend(fc, zone, arg)
		return "", nil

	case "cancel":
		if fc.Cursor.PendingPackage != nil {
			fc.Cursor.PendingPackage = nil
			fc.Cursor.PendingMissingDays = 0
			fc.Say(StepPackages, "Alright, dropped that package.")
		}
		s.present(fc, zone)
		return "", nil

	case "zone", "change":
		// Additive, not destructive: committed days stay, only the local
		// liked tracking is cleared before picking an additional zone.
		fc.Cursor.Liked = nil
		return StepZones, nil

	case "finish", "done":
		return s.finishZone(ctx, fc)

	default:
		fc.Say(StepPackages, `You can say "like <code>", "skip", "free <days>", "package <code>", "zone" to add a zone, or "finish".`)
		return "", nil
	}
}

func (s *packagesStep) Next(fc *Context) string {
	// The step only truly completes once every non-transit zone owns at
	// least one block.
	state := fc.Trip.State()
	for _, z := range fc.nonTransitZones() {
		if !zoneHasBlocks(state, z.Code) {
			return StepPackages
		}
	}
	return ""
}

func (s *packagesStep) loadPool(ctx context.Context, fc *Context, zone domain.Zone) error {
	fc.Cursor.reset()
	fc.Cursor.PoolZone = zone.Code

	exps, err := fc.Catalog.Experiences(ctx, zone.Code)
	if err != nil {
		return err
	}

	// Experiences already on the itinerary never get re-offered.
	dups := rules.DuplicateExperiences(exps, fc.Trip.State().Blocks)
	dupCodes := lo.Map(dups, func(e domain.Experience, _ int) string { return e.Code })
	fc.Cursor.Pool = lo.Filter(exps, func(e domain.Experience, _ int) bool {
		return !lo.Contains(dupCodes, e.Code)
	})
	return nil
}

func (s *packagesStep) present(fc *Context, zone domain.Zone) {
	if fc.Trip.DaysRemaining() <= 0 {
		fc.Say(StepPackages, "Your trip is full — only the departure day is left. Say \"finish\" to move on.")
		return
	}

	if len(fc.Cursor.Pool) == 0 {
		// Dead end, not a failure: offer the remaining moves.
		fc.Say(StepPackages, fmt.Sprintf("I'm out of suggestions for %s. You can take a free day (\"free <days>\"), add another zone (\"zone\"), or \"finish\".", zone.Name))
		fc.Cursor.Offered = nil
		return
	}

	n := pageSize
	if n > len(fc.Cursor.Pool) {
		n = len(fc.Cursor.Pool)
	}
	fc.Cursor.Offered = append([]domain.Experience(nil), fc.Cursor.Pool[:n]...)

	var b strings.Builder
	b.WriteString("How about one of these?\n")
	for _, e := range fc.Cursor.Offered {
		fmt.Fprintf(&b, "- %s: %s", e.Code, e.Name)
		if e.Price > 0 {
			fmt.Fprintf(&b, " (%.0f per person", e.Price)
			if e.Duration != "" {
				fmt.Fprintf(&b, ", %s", e.Duration)
			}
			b.WriteString(")")
		}
		if e.Difficulty != "" {
			fmt.Fprintf(&b, " [%s]", e.Difficulty)
		}
		b.WriteString("\n")
	}
	b.WriteString(`Say "like <code>" to book one, "skip" for different ideas, "free <days>", "zone", or "finish".`)
	fc.Say(StepPackages, b.String())
}

func (s *packagesStep) handleLike(fc *Context, zone domain.Zone, code string) {
	pick, ok := pickExperience(fc.Cursor.Offered, code)
	if !ok {
		pick, ok = pickExperience(fc.Cursor.Pool, code)
	}
	if !ok {
		fc.Notify(fmt.Sprintf("I can't find %q among the suggestions.", code))
		return
	}

	// A like that opens a new zone pays the transfer overhead too, so only
	// that case goes through the full validation. A like in the zone being
	// planned needs exactly one day.
	blocks := fc.Trip.State().Blocks
	zoneChanged := rules.IsZoneChange(blocks, zone.Code)
	if zoneChanged {
		check := rules.ValidateAddition([]domain.Experience{pick}, fc.Trip.State().TotalDays, blocks, true)
		if !check.CanAdd {
			fc.Say(StepPackages, fmt.Sprintf(
				"%s needs %d day(s) but only %d are left. Say \"extend %d\" to lengthen the trip, or \"finish\".",
				pick.Name, check.DaysNeeded, check.AvailableDays, check.MissingDays,
			))
			return
		}
		fc.Trip.AddPackage(zone.Code, rules.PackageMeta{}, []domain.Experience{pick})
	} else {
		if fc.Trip.DaysRemaining() < 1 {
			fc.Say(StepPackages, fmt.Sprintf(
				"No room left for %s. Say \"extend 1\" to lengthen the trip, or \"finish\".", pick.Name,
			))
			return
		}
		fc.Trip.AddExperience(zone.Code, pick)
	}
	fc.Cursor.Liked = append(fc.Cursor.Liked, pick.Code)
	fc.Cursor.Pool = removeExperience(fc.Cursor.Pool, pick.Code)
	fc.Cursor.Offered = removeExperience(fc.Cursor.Offered, pick.Code)

	remaining := fc.Trip.DaysRemaining()
	fc.Say(StepPackages, fmt.Sprintf("Booked %s on day %d.", pick.Name, rules.LastDay(fc.Trip.State().Blocks)))
	if remaining <= 0 {
		fc.Say(StepPackages, "That fills the trip — only the departure day is left. Say \"finish\".")
		return
	}
	s.present(fc, zone)
}

func (s *packagesStep) handleSkip(fc *Context, zone domain.Zone) {
	// A batch the traveller rejects leaves the pool for good.
	for _, e := range fc.Cursor.Offered {
		fc.Cursor.Pool = removeExperience(fc.Cursor.Pool, e.Code)
	}
	fc.Cursor.Offered = nil
	s.present(fc, zone)
}

func (s *packagesStep) handleFreeDays(fc *Context, zone domain.Zone, arg string) {
	n := 1
	if arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 1 {
			fc.Say(StepPackages, `Tell me how many free days, like "free 2".`)
			return
		}
		n = parsed
	}

	added := 0
	for i := 0; i < n; i++ {
		// Recheck after every day: free days stop at the budget edge.
		if fc.Trip.DaysRemaining() <= 0 {
			fc.Notify("No room left for more free days.")
			break
		}
		fc.Trip.AddExperience(zone.Code, domain.Experience{
			Name:        "Free day",
			Description: "A day at your own pace in " + zone.Name + ".",
			FreeDay:     true,
		})
		added++
	}

	if added > 0 {
		fc.Say(StepPackages, fmt.Sprintf("Added %d free day(s) in %s. %d days left.", added, zone.Name, fc.Trip.DaysRemaining()))
	}
	s.present(fc, zone)
}

func (s *packagesStep) handlePackage(ctx context.Context, fc *Context, zone domain.Zone, code string) {
	pkgs, err := fc.Catalog.Packages(ctx, zone.Code)
	if err != nil {
		fc.Notify("I couldn't load the packages for " + zone.Name + " right now.")
		return
	}

	var chosen ports.Package
	found := false
	for _, p := range pkgs {
		if strings.EqualFold(p.Code, code) {
			chosen = p
			found = true
			break
		}
	}
	if !found {
		fc.Notify(fmt.Sprintf("There's no package %q for %s.", code, zone.Name))
		return
	}

	blocks := fc.Trip.State().Blocks
	dups := rules.DuplicateExperiences(chosen.Experiences, blocks)
	experiences := chosen.Experiences
	if len(dups) > 0 {
		names := lo.Map(dups, func(e domain.Experience, _ int) string { return e.Name })
		fc.Notify("Already on your itinerary, skipping: " + strings.Join(names, ", "))
		dupCodes := lo.Map(dups, func(e domain.Experience, _ int) string { return e.Code })
		experiences = lo.Filter(experiences, func(e domain.Experience, _ int) bool {
			return !lo.Contains(dupCodes, e.Code)
		})
	}

	zoneChanged := rules.IsZoneChange(blocks, zone.Code)
	check := rules.ValidateAddition(experiences, fc.Trip.State().TotalDays, blocks, zoneChanged)
	if !check.CanAdd {
		// Never auto-extend: the traveller decides.
		fc.Cursor.PendingPackage = &chosen
		fc.Cursor.PendingMissingDays = check.MissingDays
		fc.Say(StepPackages, fmt.Sprintf(
			"%s needs %d days but only %d are left. Say \"extend\" to lengthen the trip by %d day(s), or \"cancel\".",
			chosen.Name, check.DaysNeeded, check.AvailableDays, check.MissingDays,
		))
		return
	}

	fc.Trip.AddPackage(zone.Code, rules.PackageMeta{Code: chosen.Code, Name: chosen.Name}, experiences)
	fc.Say(StepPackages, fmt.Sprintf("Added the %s package — your itinerary now runs through day %d.", chosen.Name, rules.LastDay(fc.Trip.State().Blocks)))
	s.present(fc, zone)
}

func (s *packagesStep) handleExtend(fc *Context, zone domain.Zone, arg string) {
	n := 0
	if arg != "" {
		parsed, err := strconv.Atoi(arg)
		if err != nil || parsed < 1 {
			fc.Say(StepPackages, `Tell me how many days to add, like "extend 2".`)
			return
		}
		n = parsed
	}

	if pending := fc.Cursor.PendingPackage; pending != nil {
		// An explicit count wins over the computed shortfall; bare "extend"
		// adds exactly the days the package is missing.
		if n == 0 {
			n = fc.Cursor.PendingMissingDays
		}
		fc.Trip.ExtendDays(n)

		experiences := pending.Experiences
		dups := rules.DuplicateExperiences(experiences, fc.Trip.State().Blocks)
		if len(dups) > 0 {
			dupCodes := lo.Map(dups, func(e domain.Experience, _ int) string { return e.Code })
			experiences = lo.Filter(experiences, func(e domain.Experience, _ int) bool {
				return !lo.Contains(dupCodes, e.Code)
			})
		}

		state := fc.Trip.State()
		check := rules.ValidateAddition(experiences, state.TotalDays, state.Blocks, rules.IsZoneChange(state.Blocks, zone.Code))
		if !check.CanAdd {
			fc.Cursor.PendingMissingDays = check.MissingDays
			fc.Say(StepPackages, fmt.Sprintf(
				"The trip is %d days now, but the %s package still misses %d day(s). Say \"extend %d\" or \"cancel\".",
				state.TotalDays, pending.Name, check.MissingDays, check.MissingDays,
			))
			return
		}

		fc.Trip.AddPackage(zone.Code, rules.PackageMeta{Code: pending.Code, Name: pending.Name}, experiences)
		fc.Say(StepPackages, fmt.Sprintf("Trip extended to %d days and the %s package is in.", fc.Trip.State().TotalDays, pending.Name))
		fc.Cursor.PendingPackage = nil
		fc.Cursor.PendingMissingDays = 0
		s.present(fc, zone)
		return
	}

	if n == 0 {
		fc.Say(StepPackages, `Tell me how many days to add, like "extend 2".`)
		return
	}
	fc.Trip.ExtendDays(n)
	fc.Say(StepPackages, fmt.Sprintf("The trip is now %d days long.", fc.Trip.State().TotalDays))
	s.present(fc, zone)
}

// finishZone closes the current zone, advances the cursor past transit
// zones, and either re-arms the loop for the next zone or moves on.
func (s *packagesStep) finishZone(ctx context.Context, fc *Context) (string, error) {
	if _, ok := currentLoopZone(fc); ok {
		// Completing a zone unlocks the next availability stage.
		fc.Trip.AdvanceAvailability()
		fc.Cursor.ZoneIndex++
	}

	if next, ok := currentLoopZone(fc); ok {
		if err := s.loadPool(ctx, fc, next); err != nil {
			fc.Notify("I couldn't load the experiences for " + next.Name + " — I'll retry shortly.")
		}
		fc.Say(StepPackages, fmt.Sprintf("On to %s. %d free days left.", next.Name, fc.Trip.DaysRemaining()))
		s.present(fc, next)
		return "", nil
	}

	// Every cursor position is exhausted; make sure no zone was left empty.
	state := fc.Trip.State()
	for i, z := range state.Zones {
		if z.Transit || zoneHasBlocks(state, z.Code) {
			continue
		}
		fc.Cursor.ZoneIndex = i
		fc.Say(StepPackages, fmt.Sprintf("%s has no days planned yet — let's fix that first.", z.Name))
		if err := s.loadPool(ctx, fc, z); err != nil {
			fc.Notify("I couldn't load the experiences for " + z.Name + " — I'll retry shortly.")
		}
		s.present(fc, z)
		return "", nil
	}

	return StepSummaryBeforeHotels, nil
}

// currentLoopZone returns the zone the loop cursor points at, skipping
// transit waypoints. False means the cursor walked off the end.
func currentLoopZone(fc *Context) (domain.Zone, bool) {
	zones := fc.Trip.State().Zones
	for fc.Cursor.ZoneIndex < len(zones) {
		z := zones[fc.Cursor.ZoneIndex]
		if !z.Transit {
			return z, true
		}
		fc.Cursor.ZoneIndex++
	}
	return domain.Zone{}, false
}

// rearmLoop points the exhausted cursor back at the last non-transit zone,
// so a traveller coming back from the summary can keep refining.
func rearmLoop(fc *Context) (domain.Zone, bool) {
	zones := fc.Trip.State().Zones
	for i := len(zones) - 1; i >= 0; i-- {
		if !zones[i].Transit {
			fc.Cursor.ZoneIndex = i
			return zones[i], true
		}
	}
	return domain.Zone{}, false
}

func zoneHasBlocks(state *domain.TripState, zoneCode string) bool {
	for _, b := range state.Blocks {
		if b.ZoneCode == zoneCode {
			return true
		}
	}
	return false
}

func pickExperience(from []domain.Experience, code string) (domain.Experience, bool) {
	if code == "" && len(from) == 1 {
		return from[0], true
	}
	for _, e := range from {
		if strings.EqualFold(e.Code, code) {
			return e, true
		}
	}
	return domain.Experience{}, false
}

func removeExperience(from []domain.Experience, code string) []domain.Experience {
	return lo.Filter(from, func(e domain.Experience, _ int) bool {
		return e.Code != code
	})
}

func splitVerb(input string) (verb, arg string) {
	fields := strings.Fields(strings.TrimSpace(input))
	if len(fields) == 0 {
		return "", ""
	}
	verb = strings.ToLower(fields[0])
	arg = strings.Join(fields[1:], " ")
	return verb, arg
}
