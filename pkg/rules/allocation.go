package rules

import (
	"fmt"
	"math"
	"sort"

	"github.com/samber/lo"

	"github.com/voyago/itinera/pkg/domain"
)

// departureReserve is the one day subtracted from every availability
// computation. Historically documented both as "reserved for arrival" and
// "reserved for departure"; the formula is identical either way, so it is
// kept as-is and the ambiguity is flagged here once.
const departureReserve = 1

// DayNeed is the day cost of adding a set of experiences to the itinerary.
type DayNeed struct {
	Total          int
	ExperienceDays int
	LogisticsDays  int
	TransferDays   int
}

// DaysNeeded computes how many days a delta of experiences consumes: one day
// per experience plus one logistics day, plus one transfer day when the
// addition lands in a different zone than the last filled block.
func DaysNeeded(experiences []domain.Experience, zoneChanged bool) DayNeed {
	need := DayNeed{
		ExperienceDays: len(experiences),
		LogisticsDays:  1,
	}
	need.Total = need.ExperienceDays + need.LogisticsDays
	if zoneChanged {
		need.TransferDays = 1
		need.Total++
	}
	return need
}

// AdditionCheck is the outcome of validating a package addition against the
// remaining day budget. It is a result, not an error: callers surface it as
// a user-facing choice.
type AdditionCheck struct {
	CanAdd           bool
	DaysNeeded       int
	AvailableDays    int
	ShouldAskAddDays bool
	MissingDays      int
}

// ValidateAddition checks whether the given experiences fit into what is
// left of the trip.
func ValidateAddition(experiences []domain.Experience, totalDays int, blocks []domain.Block, zoneChanged bool) AdditionCheck {
	needed := DaysNeeded(experiences, zoneChanged).Total
	available := totalDays - departureReserve - len(blocks)

	check := AdditionCheck{
		DaysNeeded:    needed,
		AvailableDays: available,
		CanAdd:        needed <= available,
	}
	if !check.CanAdd {
		check.ShouldAskAddDays = true
		check.MissingDays = needed - available
	}
	return check
}

// DuplicateExperiences returns the subset of candidates whose code already
// appears on an experience attached to an existing block.
func DuplicateExperiences(candidates []domain.Experience, blocks []domain.Block) []domain.Experience {
	seen := make(map[string]struct{})
	for _, b := range blocks {
		if b.Experience != nil && b.Experience.Code != "" {
			seen[b.Experience.Code] = struct{}{}
		}
	}
	return lo.Filter(candidates, func(e domain.Experience, _ int) bool {
		_, dup := seen[e.Code]
		return dup
	})
}

// PackageMeta identifies the source package a set of blocks was generated from.
type PackageMeta struct {
	Code string
	Name string
}

// PrepareExperienceBlocks builds the ordered block list for a package
// addition: an optional transfer block (only when the zone changed and the
// previous zone is known), exactly one logistics block, then one experience
// block per input, with days assigned sequentially from startDay.
func PrepareExperienceBlocks(experiences []domain.Experience, pkg PackageMeta, zoneCode, zoneName string, startDay int, zoneChanged bool, previousZoneName string) []domain.Block {
	day := startDay
	blocks := make([]domain.Block, 0, len(experiences)+2)

	if zoneChanged && previousZoneName != "" {
		blocks = append(blocks, domain.Block{
			Day:      day,
			Type:     domain.BlockTransfer,
			ZoneCode: zoneCode,
			ZoneName: zoneName,
			Experience: &domain.Experience{
				Name:        "Transfer to " + zoneName,
				Description: fmt.Sprintf("Travel day: leaving %s for %s.", previousZoneName, zoneName),
			},
			PackageName: pkg.Name,
		})
		day++
	}

	blocks = append(blocks, domain.Block{
		Day:      day,
		Type:     domain.BlockLogistics,
		ZoneCode: zoneCode,
		ZoneName: zoneName,
		Experience: &domain.Experience{
			Name:        "Arrival in " + zoneName,
			Description: fmt.Sprintf("Logistics day: arriving and settling in %s.", zoneName),
		},
		PackageName: pkg.Name,
	})
	day++

	for _, exp := range experiences {
		e := exp
		blocks = append(blocks, domain.Block{
			Day:         day,
			Type:        domain.BlockExperience,
			ZoneCode:    zoneCode,
			ZoneName:    zoneName,
			Experience:  &e,
			PackageName: pkg.Name,
		})
		day++
	}
	return blocks
}

// CompactBlocks drops the block on removedDay and renumbers every later
// block downward by one, keeping the day sequence contiguous. The sort is
// stable so same-day groups keep their relative order.
func CompactBlocks(blocks []domain.Block, removedDay int) []domain.Block {
	out := make([]domain.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Day == removedDay {
			continue
		}
		if b.Day > removedDay {
			b.Day--
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// LastDay returns the highest day number in use, or 1 for an empty list:
// day 1 is reserved for the arrival even before it exists.
func LastDay(blocks []domain.Block) int {
	if len(blocks) == 0 {
		return 1
	}
	last := blocks[0].Day
	for _, b := range blocks[1:] {
		if b.Day > last {
			last = b.Day
		}
	}
	return last
}

// IsZoneChange reports whether appending into newZoneCode moves the trip to
// a different zone. Only the last block counts: earlier history is
// irrelevant, a trip may legitimately revisit a zone.
func IsZoneChange(blocks []domain.Block, newZoneCode string) bool {
	if len(blocks) == 0 {
		return false
	}
	return blocks[len(blocks)-1].ZoneCode != newZoneCode
}

// PreviousZoneName returns the zone name of the last block, or "" when the
// trip has no blocks yet.
func PreviousZoneName(blocks []domain.Block) string {
	if len(blocks) == 0 {
		return ""
	}
	return blocks[len(blocks)-1].ZoneName
}

// ExperiencesCost sums experience prices. Prices arrive already normalized
// at the ingestion boundary; non-finite values still contribute 0 so the
// total can never be NaN.
func ExperiencesCost(experiences []domain.Experience) float64 {
	return lo.SumBy(experiences, func(e domain.Experience) float64 {
		if math.IsNaN(e.Price) || math.IsInf(e.Price, 0) {
			return 0
		}
		return e.Price
	})
}

// ZoneGroup is one zone's slice of the itinerary, in first-seen order.
type ZoneGroup struct {
	ZoneName string
	ZoneCode string
	Blocks   []domain.Block
}

// GroupBlocksByZone groups blocks by zone name, keeping the order zones
// first appear in. The zone code of a group is the code observed on its
// first member.
func GroupBlocksByZone(blocks []domain.Block) []ZoneGroup {
	var groups []ZoneGroup
	index := make(map[string]int)
	for _, b := range blocks {
		i, ok := index[b.ZoneName]
		if !ok {
			i = len(groups)
			index[b.ZoneName] = i
			groups = append(groups, ZoneGroup{ZoneName: b.ZoneName, ZoneCode: b.ZoneCode})
		}
		groups[i].Blocks = append(groups[i].Blocks, b)
	}
	return groups
}
