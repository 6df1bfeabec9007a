package catalog

import (
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/voyago/itinera/pkg/domain"
	"github.com/voyago/itinera/pkg/ports"
)

// Source rows arrive loosely typed, with field-name variants inherited from
// the upstream sheets (mixed case, legacy Italian column names). All of that
// tolerance lives here, at the ingestion boundary: the rest of the codebase
// only ever sees canonical records.

// synonyms maps raw keys (lowercased) to canonical field names. When both a
// canonical key and a synonym are present, the canonical key wins; among
// synonyms, earlier entries win.
var synonyms = map[string]string{
	"id":            "code",
	"codice":        "code",
	"nome":          "name",
	"descrizione":   "description",
	"prx_pax":       "price",
	"prezzo":        "price",
	"durata":        "duration",
	"slot":          "duration",
	"difficolta":    "difficulty",
	"livello":       "difficulty",
	"zona":          "zone_code",
	"codicezona":    "zone_code",
	"giorni":        "days_recommended",
	"transito":      "transit",
	"prx_notte":     "price_per_night",
	"prezzo_notte":  "price_per_night",
	"fase":          "stage",
	"giorno_libero": "free_day",
	"destinazione":  "destination",
}

// numericFields are coerced through the tolerant parser: a value that fails
// to parse contributes 0, never NaN and never an error.
var numericFields = map[string]bool{
	"price":           true,
	"price_per_night": true,
}

// normalizeRow folds synonym keys into canonical ones and coerces numeric
// fields. The input row is not modified.
func normalizeRow(row map[string]any, logger *slog.Logger) map[string]any {
	out := make(map[string]any, len(row))

	// Canonical keys first: they always win.
	for k, v := range row {
		key := strings.ToLower(k)
		if _, isSynonym := synonyms[key]; !isSynonym {
			out[key] = v
		}
	}
	for k, v := range row {
		canonical, isSynonym := synonyms[strings.ToLower(k)]
		if !isSynonym {
			continue
		}
		if existing, ok := out[canonical]; ok {
			if existing != v {
				logger.Debug("conflicting synonym field ignored",
					"field", k, "canonical", canonical, "kept", existing, "dropped", v)
			}
			continue
		}
		out[canonical] = v
	}

	for field := range numericFields {
		if v, ok := out[field]; ok {
			out[field] = parseNumber(v)
		}
	}
	return out
}

// parseNumber reads a numeric value from whatever shape the source used.
// Unparseable values become 0.
func parseNumber(v any) float64 {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case string:
		cleaned := strings.TrimSpace(strings.ReplaceAll(n, ",", "."))
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		return f
	default:
		return 0
	}
}

func decode(row map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "yaml",
	})
	if err != nil {
		return err
	}
	return dec.Decode(row)
}

// DecodeExperience normalizes one raw row into a canonical experience.
func DecodeExperience(row map[string]any, logger *slog.Logger) (domain.Experience, error) {
	var exp domain.Experience
	err := decode(normalizeRow(row, logger), &exp)
	return exp, err
}

// DecodeZone normalizes one raw row into a canonical zone.
func DecodeZone(row map[string]any, logger *slog.Logger) (domain.Zone, error) {
	var zone domain.Zone
	err := decode(normalizeRow(row, logger), &zone)
	return zone, err
}

// DecodeHotelTier normalizes one raw row into a canonical hotel tier.
func DecodeHotelTier(row map[string]any, logger *slog.Logger) (ports.HotelTier, error) {
	norm := normalizeRow(row, logger)
	if extras, ok := norm["extras"].([]any); ok {
		cleaned := make([]any, 0, len(extras))
		for _, raw := range extras {
			if m, ok := toStringMap(raw); ok {
				n := normalizeRow(m, logger)
				if v, ok := n["price"]; ok {
					n["price"] = parseNumber(v)
				}
				cleaned = append(cleaned, n)
			}
		}
		norm["extras"] = cleaned
	}
	var tier ports.HotelTier
	err := decode(norm, &tier)
	return tier, err
}

// DecodePackage normalizes one raw row, including its nested experiences.
func DecodePackage(row map[string]any, logger *slog.Logger) (ports.Package, error) {
	norm := normalizeRow(row, logger)

	var experiences []domain.Experience
	if raw, ok := norm["experiences"].([]any); ok {
		for _, r := range raw {
			if m, ok := toStringMap(r); ok {
				exp, err := DecodeExperience(m, logger)
				if err != nil {
					return ports.Package{}, err
				}
				experiences = append(experiences, exp)
			}
		}
	}
	delete(norm, "experiences")

	var pkg ports.Package
	if err := decode(norm, &pkg); err != nil {
		return ports.Package{}, err
	}
	pkg.Experiences = experiences
	return pkg, nil
}

// toStringMap accepts both map[string]any and the map[any]any yaml.v3
// produces for untyped documents.
func toStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			key, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[key] = val
		}
		return out, true
	default:
		return nil, false
	}
}
