package ports

import (
	"context"

	"github.com/voyago/itinera/pkg/domain"
)

// Package is a curated bundle of experiences for one zone.
type Package struct {
	Code        string              `json:"code" yaml:"code"`
	Name        string              `json:"name" yaml:"name"`
	ZoneCode    string              `json:"zone_code" yaml:"zone_code"`
	Experiences []domain.Experience `json:"experiences" yaml:"experiences"`
}

// HotelTier is one lodging price band offered in every zone.
type HotelTier struct {
	Name          string              `json:"name" yaml:"name"`
	PricePerNight float64             `json:"price_per_night" yaml:"price_per_night"`
	Description   string              `json:"description,omitempty" yaml:"description,omitempty"`
	Extras        []domain.HotelExtra `json:"extras,omitempty" yaml:"extras,omitempty"`
}

// CatalogSource is the row lookup collaborator. Implementations normalize
// loosely-typed source rows into canonical records at the ingestion
// boundary; the core never branches on field-name variants.
//
// Lookups that find nothing return empty results, not errors. Errors are
// reserved for load failures, which callers report through the Notifier
// and survive with whatever partial data is available.
type CatalogSource interface {
	Zones(ctx context.Context) ([]domain.Zone, error)
	Experiences(ctx context.Context, zoneCode string) ([]domain.Experience, error)
	Packages(ctx context.Context, zoneCode string) ([]Package, error)
	HotelTiers(ctx context.Context) ([]HotelTier, error)

	// AccessoryPrice is the flat per-person accessory charge.
	AccessoryPrice(ctx context.Context) (float64, error)
}
