// Package catalog implements the row lookup collaborator: it loads
// loosely-typed rows from a backing source, normalizes them into canonical
// records at the boundary, and memoizes results behind a TTL cache.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/voyago/itinera/internal/logging"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/ports"
)

// Entity names understood by a RowSource.
const (
	EntityZones       = "zones"
	EntityExperiences = "experiences"
	EntityPackages    = "packages"
	EntityHotels      = "hotels"
	EntityAccessories = "accessories"
)

// RowSource supplies raw, loosely-typed rows for an entity, filtered by
// destination. CSV sheets, YAML fixtures and HTTP feeds all fit behind it.
type RowSource interface {
	Rows(ctx context.Context, entity string) ([]map[string]any, error)
}

// Service implements ports.CatalogSource over a RowSource.
type Service struct {
	source RowSource
	cache  *gocache.Cache
	logger *slog.Logger
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used for normalization diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithCacheTTL overrides the default 5 minute row cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = gocache.New(ttl, 2*ttl)
	}
}

// New creates a catalog service over the given source.
func New(source RowSource, opts ...Option) *Service {
	s := &Service{
		source: source,
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) rows(ctx context.Context, entity string) ([]map[string]any, error) {
	if cached, ok := s.cache.Get(entity); ok {
		return cached.([]map[string]any), nil
	}
	rows, err := s.source.Rows(ctx, entity)
	if err != nil {
		return nil, fmt.Errorf("loading %s rows: %w", entity, err)
	}
	s.cache.Set(entity, rows, gocache.DefaultExpiration)
	return rows, nil
}

// Zones returns the canonical zone records.
func (s *Service) Zones(ctx context.Context) ([]domain.Zone, error) {
	rows, err := s.rows(ctx, EntityZones)
	if err != nil {
		return nil, err
	}
	zones := make([]domain.Zone, 0, len(rows))
	for _, row := range rows {
		zone, err := DecodeZone(row, s.logger)
		if err != nil {
			s.logger.Warn("skipping malformed zone row", "err", err)
			continue
		}
		if zone.Code == "" {
			continue
		}
		zones = append(zones, zone)
	}
	return zones, nil
}

// Experiences returns the canonical experiences for one zone.
func (s *Service) Experiences(ctx context.Context, zoneCode string) ([]domain.Experience, error) {
	rows, err := s.rows(ctx, EntityExperiences)
	if err != nil {
		return nil, err
	}
	var out []domain.Experience
	for _, row := range rows {
		norm := normalizeRow(row, s.logger)
		if z, _ := norm["zone_code"].(string); z != "" && z != zoneCode {
			continue
		}
		exp, err := DecodeExperience(row, s.logger)
		if err != nil {
			s.logger.Warn("skipping malformed experience row", "err", err)
			continue
		}
		if exp.Code == "" {
			continue
		}
		out = append(out, exp)
	}
	return out, nil
}

// Packages returns the canonical packages for one zone.
func (s *Service) Packages(ctx context.Context, zoneCode string) ([]ports.Package, error) {
	rows, err := s.rows(ctx, EntityPackages)
	if err != nil {
		return nil, err
	}
	var out []ports.Package
	for _, row := range rows {
		pkg, err := DecodePackage(row, s.logger)
		if err != nil {
			s.logger.Warn("skipping malformed package row", "err", err)
			continue
		}
		if pkg.ZoneCode != zoneCode {
			continue
		}
		out = append(out, pkg)
	}
	return out, nil
}

// HotelTiers returns the canonical lodging price bands.
func (s *Service) HotelTiers(ctx context.Context) ([]ports.HotelTier, error) {
	rows, err := s.rows(ctx, EntityHotels)
	if err != nil {
		return nil, err
	}
	tiers := make([]ports.HotelTier, 0, len(rows))
	for _, row := range rows {
		tier, err := DecodeHotelTier(row, s.logger)
		if err != nil {
			s.logger.Warn("skipping malformed hotel row", "err", err)
			continue
		}
		tiers = append(tiers, tier)
	}
	return tiers, nil
}

// AccessoryPrice sums the per-person accessory rows into the flat charge.
func (s *Service) AccessoryPrice(ctx context.Context) (float64, error) {
	rows, err := s.rows(ctx, EntityAccessories)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, row := range rows {
		norm := normalizeRow(row, s.logger)
		if v, ok := norm["price"]; ok {
			total += parseNumber(v)
		}
	}
	return total, nil
}

var _ ports.CatalogSource = (*Service)(nil)
