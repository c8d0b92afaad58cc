package metadata

import (
	"errors"
	"net/netip"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thushan/ollafree/internal/core/domain"
)

const nestedJSON = `{
  "props": {
    "pageProps": {
      "modelType": "DeepSeek",
      "models": [
        {"model_name": "deepseek-r1:7b", "family": "qwen2", "ip_port": "192.0.2.1:11434",
         "ip_city_name_en": "Paris", "ip_country_name_en": "France", "ip_continent_name_en": "Europe",
         "ip_organization": "Org A", "perf_tokens_per_second": 12.5, "perf_last_tested": "2025-01-01T00:00:00Z",
         "size": 4683075271},
        {"model_name": "deepseek-r1:7b", "family": "qwen2", "ip_port": "192.0.2.2:11434"},
        {"name": "deepseek-coder:6.7b", "family_name": "llama", "ip_port": "192.0.2.3:11434"},
        {"model": "no-family", "ip_port": "192.0.2.4:11434"},
        {"family": "orphan", "ip_port": "192.0.2.5:11434"},
        {"model_name": "", "name": "shadowed", "ip_port": "192.0.2.6:11434"},
        "not-an-object"
      ]
    }
  }
}`

const flatJSON = `{"models": [{"model_name": "gemma2:9b", "family": "gemma2", "ip_port": "198.51.100.1:11434", "perf_tokens_per_second": null}]}`

func TestLoad_Shapes(t *testing.T) {
	fsys := fstest.MapFS{
		"meta/deepseek.json": {Data: []byte(nestedJSON)},
		"meta/others.json":   {Data: []byte(flatJSON)},
		"meta/empty.json":    {Data: []byte(`{"props": {"pageProps": {"modelType": "ignored"}}}`)},
		"meta/README.md":     {Data: []byte("not metadata")},
	}

	s, err := Load(fsys, "meta", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"DeepSeek", "others"}, s.Categories(), "modelType wins, otherwise file stem")

	ds := s.Records("DeepSeek")
	require.Len(t, ds, 4, "nameless and non-object records dropped")

	first := ds[0]
	assert.Equal(t, "deepseek-r1:7b", first.Name)
	assert.Equal(t, "qwen2", first.Family)
	assert.Equal(t, "192.0.2.1:11434", first.Address)
	assert.Equal(t, "Paris", first.City)
	assert.Equal(t, "Org A", first.Organization)
	require.NotNil(t, first.TokensPerSecond)
	assert.InDelta(t, 12.5, *first.TokensPerSecond, 0.0001)
	assert.Equal(t, int64(4683075271), first.Size)
	assert.Equal(t, "DeepSeek", first.Category)
	assert.Contains(t, string(first.Raw), `"ip_organization": "Org A"`)

	assert.Equal(t, "deepseek-coder:6.7b", ds[2].Name, "name fallback")
	assert.Equal(t, "llama", ds[2].Family, "family_name fallback")
	assert.Equal(t, "no-family", ds[3].Name, "model fallback")
	assert.Equal(t, "deepseek", ds[3].Family, "family falls back to lower-cased category")

	others := s.Records("others")
	require.Len(t, others, 1)
	assert.Nil(t, others[0].TokensPerSecond)
}

func TestLoad_FamilyIndex(t *testing.T) {
	fsys := fstest.MapFS{
		"d/deepseek.json": {Data: []byte(nestedJSON)},
	}
	s, err := Load(fsys, "d", nil)
	require.NoError(t, err)

	families := s.Families()
	assert.Equal(t, []string{"deepseek-r1:7b", "deepseek-r1:7b"}, families["DeepSeek"]["qwen2"])
	assert.Equal(t, []string{"deepseek-coder:6.7b"}, families["DeepSeek"]["llama"])
	assert.Equal(t, []string{"no-family"}, families["DeepSeek"]["deepseek"])

	// one index entry per named record
	count := 0
	for _, names := range families["DeepSeek"] {
		count += len(names)
	}
	assert.Equal(t, len(s.Records("DeepSeek")), count)
}

func TestLoad_FamilyLookup(t *testing.T) {
	const data = `{"models": [
	  {"model_name": "a", "family": "", "family_name": "qwen", "ip_port": "192.0.2.1:11434"},
	  {"model_name": "b", "family": "llama", "family_name": "qwen", "ip_port": "192.0.2.2:11434"},
	  {"model_name": "c", "family": "", "family_name": "", "ip_port": "192.0.2.3:11434"}
	]}`
	s, err := Load(fstest.MapFS{"m/Misc.json": {Data: []byte(data)}}, "m", nil)
	require.NoError(t, err)

	recs := s.Records("Misc")
	require.Len(t, recs, 3)
	assert.Equal(t, "qwen", recs[0].Family, "empty family falls through to family_name")
	assert.Equal(t, "llama", recs[1].Family)
	assert.Equal(t, "misc", recs[2].Family, "lower-cased category when both are empty")
}

func TestLoad_DuplicateCategoryLaterFileWins(t *testing.T) {
	fsys := fstest.MapFS{
		"d/a.json": {Data: []byte(`{"props":{"pageProps":{"modelType":"dup","models":[{"model_name":"first","ip_port":"192.0.2.1:1"}]}}}`)},
		"d/b.json": {Data: []byte(`{"props":{"pageProps":{"modelType":"dup","models":[{"model_name":"second","ip_port":"192.0.2.2:1"}]}}}`)},
	}
	s, err := Load(fsys, "d", nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"dup"}, s.Categories())
	require.Len(t, s.Records("dup"), 1)
	assert.Equal(t, "second", s.Records("dup")[0].Name)
	assert.Equal(t, []string{"second"}, s.Families()["dup"]["dup"])
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := Load(fstest.MapFS{}, "nope", nil)
		assert.Error(t, err)
	})

	t.Run("malformed file is fatal", func(t *testing.T) {
		fsys := fstest.MapFS{
			"d/good.json": {Data: []byte(flatJSON)},
			"d/bad.json":  {Data: []byte(`{"models": [`)},
		}
		_, err := Load(fsys, "d", nil)
		var merr *domain.MetadataError
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, "bad.json", merr.File)
	})

	t.Run("models not an array", func(t *testing.T) {
		fsys := fstest.MapFS{
			"d/x.json": {Data: []byte(`{"models": {"model_name": "x"}}`)},
		}
		_, err := Load(fsys, "d", nil)
		assert.Error(t, err)
	})
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "others.json"), []byte(flatJSON), 0o644))

	s, err := LoadDir(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"others"}, s.Categories())
	assert.Len(t, s.AllRecords(), 1)

	_, err = LoadDir(filepath.Join(dir, "missing"), nil)
	assert.Error(t, err)

	_, err = LoadDir(filepath.Join(dir, "others.json"), nil)
	assert.Error(t, err, "a file is not a directory")
}

func TestLoadBundled(t *testing.T) {
	s, err := LoadBundled(nil)
	require.NoError(t, err)

	assert.NotEmpty(t, s.Categories())

	// sample data only, nothing bundled may point at a routable host
	docRanges := []netip.Prefix{
		netip.MustParsePrefix("192.0.2.0/24"),
		netip.MustParsePrefix("198.51.100.0/24"),
		netip.MustParsePrefix("203.0.113.0/24"),
	}
	for _, rec := range s.AllRecords() {
		assert.NotEmpty(t, rec.Name)
		require.NotEmpty(t, rec.Address, "bundled record %s has no address", rec.Name)

		addr, err := netip.ParseAddrPort(rec.Address)
		require.NoError(t, err, rec.Address)
		assert.True(t, slices.ContainsFunc(docRanges, func(p netip.Prefix) bool { return p.Contains(addr.Addr()) }),
			"%s is outside the documentation ranges", rec.Address)
	}
}
