package domain

import (
	"encoding/json"
	"sort"
	"strings"
)

// ModelRecord is a single hosting record from the bundled metadata: one model
// served by one server. A model name can appear in several records, one per
// server hosting it.
type ModelRecord struct {
	Name            string          `json:"model_name" yaml:"model_name"`
	Family          string          `json:"family" yaml:"family"`
	Address         string          `json:"ip_port" yaml:"ip_port"`
	City            string          `json:"ip_city_name_en,omitempty" yaml:"ip_city_name_en,omitempty"`
	Country         string          `json:"ip_country_name_en,omitempty" yaml:"ip_country_name_en,omitempty"`
	Continent       string          `json:"ip_continent_name_en,omitempty" yaml:"ip_continent_name_en,omitempty"`
	Organization    string          `json:"ip_organization,omitempty" yaml:"ip_organization,omitempty"`
	LastTested      string          `json:"perf_last_tested,omitempty" yaml:"perf_last_tested,omitempty"`
	ParameterSize   string          `json:"parameter_size,omitempty" yaml:"parameter_size,omitempty"`
	Quantization    string          `json:"quantization_level,omitempty" yaml:"quantization_level,omitempty"`
	TokensPerSecond *float64        `json:"perf_tokens_per_second,omitempty" yaml:"perf_tokens_per_second,omitempty"`
	Size            int64           `json:"size,omitempty" yaml:"size,omitempty"`
	Category        string          `json:"-" yaml:"category"`
	Raw             json.RawMessage `json:"-" yaml:"-"`
}

// Server returns the hosting view of the record.
func (r ModelRecord) Server() ServerDescriptor {
	return ServerDescriptor{
		URL: r.Address,
		Location: Location{
			City:      r.City,
			Country:   r.Country,
			Continent: r.Continent,
		},
		Organization: r.Organization,
		Performance: Performance{
			TokensPerSecond: r.TokensPerSecond,
			LastTested:      r.LastTested,
		},
	}
}

// Category is one bundled metadata file worth of records, in file order.
type Category struct {
	Name    string
	Records []ModelRecord
}

// FamilyIndex maps category -> family -> model names. Names are kept once per
// record, so a model hosted on three servers appears three times.
type FamilyIndex map[string]map[string][]string

// Add records name under category/family.
func (fi FamilyIndex) Add(category, family, name string) {
	families, ok := fi[category]
	if !ok {
		families = make(map[string][]string)
		fi[category] = families
	}
	families[family] = append(families[family], name)
}

// Models returns names for every family matching family case-insensitively,
// or every name when family is empty.
func (fi FamilyIndex) Models(categoryOrder []string, family string) []string {
	models := make([]string, 0)
	for _, category := range categoryOrder {
		families := fi[category]
		keys := make([]string, 0, len(families))
		for fam := range families {
			keys = append(keys, fam)
		}
		sort.Strings(keys)

		for _, fam := range keys {
			if family != "" && !strings.EqualFold(fam, family) {
				continue
			}
			models = append(models, families[fam]...)
		}
	}
	return models
}

type Location struct {
	City      string `json:"city" yaml:"city"`
	Country   string `json:"country" yaml:"country"`
	Continent string `json:"continent" yaml:"continent"`
}

type Performance struct {
	TokensPerSecond *float64 `json:"tokens_per_second" yaml:"tokens_per_second"`
	LastTested      string   `json:"last_tested" yaml:"last_tested"`
}

// ServerDescriptor describes one server hosting a model. Built per query.
type ServerDescriptor struct {
	URL          string      `json:"url" yaml:"url"`
	Location     Location    `json:"location" yaml:"location"`
	Organization string      `json:"organization" yaml:"organization"`
	Performance  Performance `json:"performance" yaml:"performance"`
}
