package metadata

import (
	"strings"

	"github.com/tidwall/gjson"

	"github.com/thushan/ollafree/internal/core/domain"
)

// Candidate keys per attribute, tried in order. For the name the first key
// present wins even when its value is empty, which drops the record.
var (
	NameFields   = []string{"model_name", "name", "model"}
	FamilyFields = []string{"family", "family_name"}
)

const (
	fieldAddress         = "ip_port"
	fieldCity            = "ip_city_name_en"
	fieldCountry         = "ip_country_name_en"
	fieldContinent       = "ip_continent_name_en"
	fieldOrganization    = "ip_organization"
	fieldTokensPerSecond = "perf_tokens_per_second"
	fieldLastTested      = "perf_last_tested"
	fieldSize            = "size"
	fieldParameterSize   = "parameter_size"
	fieldQuantization    = "quantization_level"
)

func parseRecord(category string, item gjson.Result) (domain.ModelRecord, bool) {
	if !item.IsObject() {
		return domain.ModelRecord{}, false
	}

	name := firstPresent(item, NameFields)
	if name == "" {
		return domain.ModelRecord{}, false
	}

	// An empty family falls through to family_name, unlike the name lookup
	// where the first present key wins.
	family := firstNonEmpty(item, FamilyFields)
	if family == "" {
		family = strings.ToLower(category)
	}

	rec := domain.ModelRecord{
		Name:          name,
		Family:        family,
		Category:      category,
		Address:       stringField(item, fieldAddress),
		City:          stringField(item, fieldCity),
		Country:       stringField(item, fieldCountry),
		Continent:     stringField(item, fieldContinent),
		Organization:  stringField(item, fieldOrganization),
		LastTested:    stringField(item, fieldLastTested),
		ParameterSize: stringField(item, fieldParameterSize),
		Quantization:  stringField(item, fieldQuantization),
		Size:          item.Get(fieldSize).Int(),
		Raw:           []byte(item.Raw),
	}

	if tps := item.Get(fieldTokensPerSecond); tps.Exists() && tps.Type != gjson.Null {
		v := tps.Float()
		rec.TokensPerSecond = &v
	}

	return rec, true
}

func firstPresent(item gjson.Result, keys []string) string {
	for _, key := range keys {
		if v := item.Get(key); v.Exists() {
			return stringValue(v)
		}
	}
	return ""
}

func firstNonEmpty(item gjson.Result, keys []string) string {
	for _, key := range keys {
		if v := stringValue(item.Get(key)); v != "" {
			return v
		}
	}
	return ""
}

func stringField(item gjson.Result, key string) string {
	return stringValue(item.Get(key))
}

// stringValue keeps null as empty; numbers and bools use their JSON text.
func stringValue(v gjson.Result) string {
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}
