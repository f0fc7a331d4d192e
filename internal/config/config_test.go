package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookstats/internal/domain"
)

func clearEnv(t *testing.T) {
	t.Setenv("GOOGLE_BOOKS_API_KEY", "")
	t.Setenv("REACT_APP_GOOGLE_BOOKS_API_KEY", "")
	t.Setenv("BOOKSTATS_BASE_URL", "")
	t.Setenv("BOOKSTATS_LOG_LEVEL", "")
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg, err := NewConfigServiceWithBus(nil, path).Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 40, cfg.API.MaxResults)
	assert.Equal(t, "popular books", cfg.Search.DefaultQuery)
	assert.Equal(t, domain.SortByTitle, cfg.SortKey())
	assert.Equal(t, domain.Ascending, cfg.SortDirection())
	assert.Empty(t, cfg.API.APIKey)
}

func TestLoadTOMLKeepsDefaultsForMissingKeys(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[api]
max_results = 20

[ui]
default_sort = "rating"
default_direction = "desc"
legacy_rating_order = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewConfigServiceWithBus(nil, path).Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.API.MaxResults)
	assert.Equal(t, DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, domain.SortByRating, cfg.SortKey())
	assert.Equal(t, domain.Descending, cfg.SortDirection())
	assert.True(t, cfg.UI.LegacyRatingOrder)
	assert.Equal(t, 300, cfg.Search.DebounceMS)
}

func TestLoadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
api:
  base_url: "http://localhost:9999/books/v1"
search:
  default_query: "dune"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := NewConfigServiceWithBus(nil, path).Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9999/books/v1", cfg.API.BaseURL)
	assert.Equal(t, "dune", cfg.Search.DefaultQuery)
	assert.Equal(t, 40, cfg.API.MaxResults)
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACT_APP_GOOGLE_BOOKS_API_KEY", "legacy-key")
	t.Setenv("BOOKSTATS_BASE_URL", "http://example.test")

	cfg, err := NewConfigServiceWithBus(nil, filepath.Join(t.TempDir(), "none.toml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "legacy-key", cfg.API.APIKey)
	assert.Equal(t, "http://example.test", cfg.API.BaseURL)

	t.Setenv("GOOGLE_BOOKS_API_KEY", "primary-key")
	cfg.ApplyEnv()
	assert.Equal(t, "primary-key", cfg.API.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.MaxResults = 0
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.UI.DefaultSort = "price"
	require.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.UI.DefaultDirection = "sideways"
	require.Error(t, cfg.Validate())
}

func TestSaveAndReload(t *testing.T) {
	clearEnv(t)
	for _, name := range []string{"config.toml", "config.yml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			svc := NewConfigServiceWithBus(nil, path)

			cfg := DefaultConfig()
			cfg.Search.DefaultQuery = "science fiction"
			cfg.UI.Locale = "pt-BR"
			require.NoError(t, svc.Save(cfg))

			loaded, err := svc.LoadFromPath(path)
			require.NoError(t, err)
			assert.Equal(t, "science fiction", loaded.Search.DefaultQuery)
			assert.Equal(t, "pt-BR", loaded.UI.Locale)
		})
	}
}

func TestLoadFromPathMissing(t *testing.T) {
	_, err := NewConfigService().LoadFromPath(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}
