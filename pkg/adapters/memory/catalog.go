package memory

import (
	"context"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/ports"
)

// Catalog implements ports.CatalogSource from in-memory data. It is the
// fixture backend for tests and the demo dataset for the CLI.
type Catalog struct {
	ZoneList     []domain.Zone
	ExperienceBy map[string][]domain.Experience
	PackageBy    map[string][]ports.Package
	Tiers        []ports.HotelTier
	Accessory    float64
}

// NewCatalog creates an empty catalog. Populate the exported fields before use.
func NewCatalog() *Catalog {
	return &Catalog{
		ExperienceBy: make(map[string][]domain.Experience),
		PackageBy:    make(map[string][]ports.Package),
	}
}

// DemoCatalog returns a small populated catalog: three coastal-Italy zones,
// a transit waypoint, and a late-unlock zone. The CLI demo and the
// end-to-end tests run on it.
func DemoCatalog() *Catalog {
	return &Catalog{
		ZoneList: []domain.Zone{
			{Code: "COAST", Name: "Amalfi Coast", DaysRecommended: 3},
			{Code: "HILLS", Name: "Wine Hills", DaysRecommended: 2},
			{Code: "PASS", Name: "Mountain Pass", Transit: true},
			{Code: "PEAKS", Name: "High Peaks", DaysRecommended: 3, Stage: 2},
		},
		ExperienceBy: map[string][]domain.Experience{
			"COAST": {
				{Code: "C1", Name: "Sunrise boat tour", Price: 60, Duration: "4h", Difficulty: "easy"},
				{Code: "C2", Name: "Cliff path hike", Price: 25, Duration: "6h", Difficulty: "moderate"},
				{Code: "C3", Name: "Cooking class", Price: 90, Duration: "3h", Difficulty: "easy"},
				{Code: "C4", Name: "Sea kayaking", Price: 45, Duration: "5h", Difficulty: "moderate"},
			},
			"HILLS": {
				{Code: "H1", Name: "Vineyard tasting", Price: 70, Duration: "3h", Difficulty: "easy"},
				{Code: "H2", Name: "Hilltop village walk", Price: 15, Duration: "4h", Difficulty: "easy"},
			},
			"PEAKS": {
				{Code: "P1", Name: "Summit cable car", Price: 40, Duration: "2h", Difficulty: "easy"},
				{Code: "P2", Name: "Glacier trek", Price: 120, Duration: "8h", Difficulty: "hard"},
			},
		},
		PackageBy: map[string][]ports.Package{
			"COAST": {
				{Code: "PKG-SEA", Name: "Sea Lover", ZoneCode: "COAST", Experiences: []domain.Experience{
					{Code: "C1", Name: "Sunrise boat tour", Price: 60},
					{Code: "C4", Name: "Sea kayaking", Price: 45},
				}},
			},
			"PEAKS": {
				{Code: "PKG-ALP", Name: "Alpine Explorer", ZoneCode: "PEAKS", Experiences: []domain.Experience{
					{Code: "P1", Name: "Summit cable car", Price: 40},
					{Code: "P2", Name: "Glacier trek", Price: 120},
				}},
			},
		},
		Tiers: []ports.HotelTier{
			{Name: "comfort", PricePerNight: 80, Description: "Three-star, central"},
			{Name: "premium", PricePerNight: 150, Description: "Four-star with a view", Extras: []domain.HotelExtra{
				{Name: "spa", Price: 20},
				{Name: "breakfast", Price: 10},
			}},
		},
		Accessory: 25,
	}
}

func (c *Catalog) Zones(ctx context.Context) ([]domain.Zone, error) {
	return c.ZoneList, nil
}

func (c *Catalog) Experiences(ctx context.Context, zoneCode string) ([]domain.Experience, error) {
	return c.ExperienceBy[zoneCode], nil
}

func (c *Catalog) Packages(ctx context.Context, zoneCode string) ([]ports.Package, error) {
	return c.PackageBy[zoneCode], nil
}

func (c *Catalog) HotelTiers(ctx context.Context) ([]ports.HotelTier, error) {
	return c.Tiers, nil
}

func (c *Catalog) AccessoryPrice(ctx context.Context) (float64, error) {
	return c.Accessory, nil
}

var _ ports.CatalogSource = (*Catalog)(nil)
