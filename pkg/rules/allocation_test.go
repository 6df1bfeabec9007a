package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/itinera/pkg/domain"
)

func exp(code string, price float64) domain.Experience {
	return domain.Experience{Code: code, Name: code, Price: price}
}

func TestDaysNeeded(t *testing.T) {
	t.Run("empty delta still costs the logistics day", func(t *testing.T) {
		need := DaysNeeded(nil, false)
		assert.Equal(t, DayNeed{Total: 1, ExperienceDays: 0, LogisticsDays: 1, TransferDays: 0}, need)
	})

	t.Run("three experiences same zone", func(t *testing.T) {
		need := DaysNeeded([]domain.Experience{exp("A", 0), exp("B", 0), exp("C", 0)}, false)
		assert.Equal(t, 4, need.Total)
		assert.Equal(t, 3, need.ExperienceDays)
		assert.Equal(t, 0, need.TransferDays)
	})

	t.Run("zone change adds a transfer day", func(t *testing.T) {
		need := DaysNeeded([]domain.Experience{exp("A", 0), exp("B", 0)}, true)
		assert.Equal(t, 4, need.Total)
		assert.Equal(t, 1, need.TransferDays)
	})
}

func TestValidateAddition(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		check := ValidateAddition([]domain.Experience{exp("A", 0), exp("B", 0)}, 10, nil, false)
		assert.True(t, check.CanAdd)
		assert.Equal(t, 3, check.DaysNeeded)
		assert.Equal(t, 9, check.AvailableDays)
		assert.Equal(t, 0, check.MissingDays)
		assert.False(t, check.ShouldAskAddDays)
	})

	t.Run("does not fit", func(t *testing.T) {
		blocks := []domain.Block{{Day: 2}, {Day: 3}}
		check := ValidateAddition([]domain.Experience{exp("A", 0), exp("B", 0), exp("C", 0)}, 5, blocks, false)
		assert.False(t, check.CanAdd)
		assert.True(t, check.ShouldAskAddDays)
		assert.Greater(t, check.MissingDays, 0)
		assert.Equal(t, check.DaysNeeded-check.AvailableDays, check.MissingDays)
	})
}

func TestDuplicateExperiences(t *testing.T) {
	existing := []domain.Block{
		{Day: 2, Type: domain.BlockExperience, Experience: &domain.Experience{Code: "EXP2"}},
	}
	dups := DuplicateExperiences([]domain.Experience{exp("EXP1", 0), exp("EXP2", 0)}, existing)
	require.Len(t, dups, 1)
	assert.Equal(t, "EXP2", dups[0].Code)
}

func TestPrepareExperienceBlocks(t *testing.T) {
	meta := PackageMeta{Code: "PKG1", Name: "Highlights"}
	exps := []domain.Experience{exp("A", 10), exp("B", 20)}

	t.Run("same zone: logistics then experiences", func(t *testing.T) {
		blocks := PrepareExperienceBlocks(exps, meta, "Z1", "Coast", 5, false, "")
		require.Len(t, blocks, 3)
		assert.Equal(t, domain.BlockLogistics, blocks[0].Type)
		assert.Equal(t, 5, blocks[0].Day)
		assert.Equal(t, domain.BlockExperience, blocks[1].Type)
		assert.Equal(t, 6, blocks[1].Day)
		assert.Equal(t, 7, blocks[2].Day)
		assert.Equal(t, "Highlights", blocks[2].PackageName)
	})

	t.Run("zone change prepends a transfer", func(t *testing.T) {
		blocks := PrepareExperienceBlocks(exps, meta, "Z2", "Hills", 5, true, "Coast")
		require.Len(t, blocks, 4)
		assert.Equal(t, domain.BlockTransfer, blocks[0].Type)
		assert.Contains(t, blocks[0].Experience.Description, "Coast")
		assert.Equal(t, domain.BlockLogistics, blocks[1].Type)
		assert.Equal(t, []int{5, 6, 7, 8}, []int{blocks[0].Day, blocks[1].Day, blocks[2].Day, blocks[3].Day})
	})

	t.Run("no transfer when previous zone unknown", func(t *testing.T) {
		blocks := PrepareExperienceBlocks(exps, meta, "Z2", "Hills", 2, true, "")
		require.Len(t, blocks, 3)
		assert.Equal(t, domain.BlockLogistics, blocks[0].Type)
	})
}

func TestCompactBlocks(t *testing.T) {
	blocks := []domain.Block{{Day: 1}, {Day: 2}, {Day: 3}, {Day: 4}, {Day: 5}}
	out := CompactBlocks(blocks, 3)

	require.Len(t, out, 4)
	days := make([]int, len(out))
	for i, b := range out {
		days[i] = b.Day
	}
	assert.Equal(t, []int{1, 2, 3, 4}, days, "sequence stays contiguous")
}

func TestLastDay(t *testing.T) {
	assert.Equal(t, 1, LastDay(nil), "day 1 is reserved for arrival even before it exists")
	assert.Equal(t, 5, LastDay([]domain.Block{{Day: 2}, {Day: 5}, {Day: 3}}))
}

func TestIsZoneChange(t *testing.T) {
	assert.False(t, IsZoneChange(nil, "Z1"))
	assert.False(t, IsZoneChange([]domain.Block{{ZoneCode: "Z1"}}, "Z1"))
	assert.True(t, IsZoneChange([]domain.Block{{ZoneCode: "Z1"}}, "Z2"))

	// Only the last block counts, even with longer history.
	history := []domain.Block{{ZoneCode: "Z2"}, {ZoneCode: "Z1"}, {ZoneCode: "Z2"}}
	assert.False(t, IsZoneChange(history, "Z2"))
}

func TestPreviousZoneName(t *testing.T) {
	assert.Equal(t, "", PreviousZoneName(nil))
	assert.Equal(t, "Hills", PreviousZoneName([]domain.Block{{ZoneName: "Coast"}, {ZoneName: "Hills"}}))
}

func TestExperiencesCost(t *testing.T) {
	cost := ExperiencesCost([]domain.Experience{exp("A", 100), exp("B", 0), exp("C", 50)})
	assert.Equal(t, 150.0, cost)
}

func TestGroupBlocksByZone(t *testing.T) {
	blocks := []domain.Block{
		{Day: 1, ZoneName: "Coast", ZoneCode: "Z1"},
		{Day: 2, ZoneName: "Coast", ZoneCode: "Z1"},
		{Day: 3, ZoneName: "Hills", ZoneCode: "Z2"},
		{Day: 4, ZoneName: "Coast", ZoneCode: "Z1"},
	}
	groups := GroupBlocksByZone(blocks)

	require.Len(t, groups, 2)
	assert.Equal(t, "Coast", groups[0].ZoneName)
	assert.Equal(t, "Z1", groups[0].ZoneCode)
	assert.Len(t, groups[0].Blocks, 3)
	assert.Equal(t, "Hills", groups[1].ZoneName)
	assert.Len(t, groups[1].Blocks, 1)
}
