package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voyago/itinera/internal/logging"
	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/rules"
)

func TestNormalizeRow_SynonymFolding(t *testing.T) {
	logger := logging.NewNop()

	t.Run("legacy column names fold to canonical keys", func(t *testing.T) {
		exp, err := DecodeExperience(map[string]any{
			"CODICE":      "EXP1",
			"NOME":        "Kayak at dawn",
			"descrizione": "Out on the water before sunrise.",
			"PRX_PAX":     "120",
			"durata":      "half day",
			"difficolta":  "easy",
		}, logger)
		require.NoError(t, err)
		assert.Equal(t, "EXP1", exp.Code)
		assert.Equal(t, "Kayak at dawn", exp.Name)
		assert.Equal(t, 120.0, exp.Price)
		assert.Equal(t, "half day", exp.Duration)
		assert.Equal(t, "easy", exp.Difficulty)
	})

	t.Run("id wins over CODICE when both are present", func(t *testing.T) {
		exp, err := DecodeExperience(map[string]any{
			"id":     "EXP-NEW",
			"CODICE": "EXP-OLD",
			"nome":   "Hike",
		}, logger)
		require.NoError(t, err)
		assert.Equal(t, "EXP-NEW", exp.Code)
	})
}

func TestParseNumber_Tolerance(t *testing.T) {
	assert.Equal(t, 100.0, parseNumber("100"))
	assert.Equal(t, 12.5, parseNumber("12,5"), "comma decimal separator")
	assert.Equal(t, 0.0, parseNumber("invalid"))
	assert.Equal(t, 0.0, parseNumber(nil))
	assert.Equal(t, 7.0, parseNumber(7))
}

// Malformed prices become 0 at the boundary, so a cost sum downstream can
// never be NaN.
func TestCostOverNormalizedRows(t *testing.T) {
	logger := logging.NewNop()
	raw := []map[string]any{
		{"CODICE": "A", "PRX_PAX": "100"},
		{"CODICE": "B", "PRX_PAX": "invalid"},
		{"CODICE": "C", "prezzo": 50},
	}

	decoded := make([]domain.Experience, 0, len(raw))
	for _, row := range raw {
		exp, err := DecodeExperience(row, logger)
		require.NoError(t, err)
		decoded = append(decoded, exp)
	}

	assert.Equal(t, []float64{100, 0, 50}, []float64{decoded[0].Price, decoded[1].Price, decoded[2].Price})
	assert.Equal(t, 150.0, rules.ExperiencesCost(decoded), "invalid entry contributes 0")
}

func TestService_Experiences(t *testing.T) {
	src := StaticSource{
		EntityExperiences: {
			{"CODICE": "E1", "nome": "Kayak", "zona": "Z1", "PRX_PAX": "40"},
			{"id": "E2", "name": "Hike", "zone_code": "Z2", "price": 25},
			{"nome": "No code, dropped"},
		},
	}
	svc := New(src)

	exps, err := svc.Experiences(context.Background(), "Z1")
	require.NoError(t, err)
	require.Len(t, exps, 1)
	assert.Equal(t, "E1", exps[0].Code)
	assert.Equal(t, 40.0, exps[0].Price)
}

func TestService_PackagesAndTiers(t *testing.T) {
	src := StaticSource{
		EntityPackages: {
			{
				"codice": "PKG1", "nome": "Coast Highlights", "zona": "Z1",
				"experiences": []any{
					map[string]any{"CODICE": "E1", "nome": "Kayak", "PRX_PAX": "40"},
					map[string]any{"CODICE": "E2", "nome": "Dive", "PRX_PAX": "80"},
				},
			},
			{"codice": "PKG2", "nome": "Hills", "zona": "Z2"},
		},
		EntityHotels: {
			{"nome": "comfort", "PRX_NOTTE": "80", "extras": []any{
				map[string]any{"nome": "breakfast", "prezzo": "10"},
			}},
			{"nome": "premium", "price_per_night": 150},
		},
		EntityAccessories: {
			{"nome": "insurance", "prezzo": "15"},
			{"nome": "city tax", "prezzo": 10},
		},
	}
	svc := New(src)
	ctx := context.Background()

	pkgs, err := svc.Packages(ctx, "Z1")
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "PKG1", pkgs[0].Code)
	require.Len(t, pkgs[0].Experiences, 2)
	assert.Equal(t, 80.0, pkgs[0].Experiences[1].Price)

	tiers, err := svc.HotelTiers(ctx)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, 80.0, tiers[0].PricePerNight)
	require.Len(t, tiers[0].Extras, 1)
	assert.Equal(t, 10.0, tiers[0].Extras[0].Price)

	accessory, err := svc.AccessoryPrice(ctx)
	require.NoError(t, err)
	assert.Equal(t, 25.0, accessory)
}

type failingSource struct{ calls int }

func (f *failingSource) Rows(ctx context.Context, entity string) ([]map[string]any, error) {
	f.calls++
	return nil, errors.New("sheet unavailable")
}

func TestService_CachesRows(t *testing.T) {
	src := StaticSource{
		EntityZones: {{"codice": "Z1", "nome": "Coast"}},
	}
	counting := &countingSource{inner: src}
	svc := New(counting, WithCacheTTL(time.Minute))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		zones, err := svc.Zones(ctx)
		require.NoError(t, err)
		require.Len(t, zones, 1)
	}
	assert.Equal(t, 1, counting.calls, "rows served from cache after first load")
}

func TestService_LoadFailureSurfaces(t *testing.T) {
	src := &failingSource{}
	svc := New(src)

	_, err := svc.Zones(context.Background())
	assert.Error(t, err)
}

type countingSource struct {
	inner RowSource
	calls int
}

func (c *countingSource) Rows(ctx context.Context, entity string) ([]map[string]any, error) {
	c.calls++
	return c.inner.Rows(ctx, entity)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	content := "- codice: Z1\n  nome: Coast\n  giorni: 3\n- codice: Z2\n  nome: Hills\n  transito: true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "zones.yaml"), []byte(content), 0o644))

	svc := New(NewFileSource(dir))
	zones, err := svc.Zones(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "Coast", zones[0].Name)
	assert.Equal(t, 3, zones[0].DaysRecommended)
	assert.True(t, zones[1].Transit)

	t.Run("missing file is an empty entity", func(t *testing.T) {
		rows, err := NewFileSource(dir).Rows(context.Background(), "hotels")
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}
