package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.census.gov/data", cfg.Census.BaseURL)
	assert.Equal(t, 2022, cfg.Census.Year)
	assert.Equal(t, "acs/acs5", cfg.Census.Dataset)
	assert.Equal(t, "18", cfg.Census.StateFIPS)
	assert.Empty(t, cfg.Census.APIKey)
	assert.Equal(t, 2018, cfg.Boundary.Year)
	assert.Equal(t, "500k", cfg.Boundary.Resolution)
	assert.Equal(t, 512, cfg.Boundary.MaxEntryMB)
	assert.Equal(t, 30, cfg.Fetch.TimeoutSecs)
	assert.Equal(t, 600, cfg.Fetch.ArchiveTimeoutSecs)
	assert.Equal(t, 7, cfg.Map.Zoom)
	assert.Equal(t, "YlGnBu", cfg.Map.Palette)
	assert.Equal(t, 6, cfg.Map.Bins)
	assert.InDelta(t, 0.8, cfg.Map.FillOpacity, 0.001)
	assert.InDelta(t, 0.2, cfg.Map.LineOpacity, 0.001)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Sink.Driver)
	assert.Equal(t, "county_roi", cfg.Sink.Table)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	assert.NoError(t, cfg.Validate("pipeline"))
	assert.NoError(t, cfg.Validate("serve"))
	assert.NoError(t, cfg.Validate("publish"))
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
census:
  year: 2021
log:
  level: debug
  format: console
server:
  port: 9090
map:
  bins: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 2021, cfg.Census.Year)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5, cfg.Map.Bins)
	// Defaults still apply for unset values
	assert.Equal(t, "18", cfg.Census.StateFIPS)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
sink:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("COUNTYROI_SINK_DRIVER", "postgres")
	t.Setenv("COUNTYROI_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Sink.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chdirTemp(t)

	t.Setenv("COUNTYROI_SERVER_PORT", "3000")
	t.Setenv("COUNTYROI_CENSUS_API_KEY", "abc123")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "abc123", cfg.Census.APIKey)
}

func TestLoadMalformedFile(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("census: [unterminated"), 0644))

	_, err := Load()
	assert.Error(t, err)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Census.StateFIPS = "18"
	cfg.Census.Year = 2022
	cfg.Boundary.Year = 2018
	cfg.Map.Bins = 6
	cfg.Server.Port = 8080
	cfg.Sink.Driver = "sqlite"
	cfg.Sink.DatabaseURL = "county_roi.db"
	cfg.Sink.Table = "county_roi"
	return cfg
}

func TestValidate_StateFIPS(t *testing.T) {
	cfg := validDefaults()
	cfg.Census.StateFIPS = "IN"
	assert.Error(t, cfg.Validate("pipeline"))

	cfg.Census.StateFIPS = "018"
	err := cfg.Validate("pipeline")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "census.state_fips")
}

func TestValidate_Years(t *testing.T) {
	cfg := validDefaults()
	cfg.Census.Year = 2005
	cfg.Boundary.Year = 2010

	err := cfg.Validate("pipeline")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "census.year")
	assert.Contains(t, err.Error(), "boundary.year")
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateServe_BinsBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Map.Bins = 2
	assert.Error(t, cfg.Validate("serve"))

	cfg.Map.Bins = 10
	assert.Error(t, cfg.Validate("serve"))

	cfg.Map.Bins = 9
	assert.NoError(t, cfg.Validate("serve"))
}

func TestValidatePublish(t *testing.T) {
	cfg := validDefaults()
	cfg.Sink.Driver = "mysql"
	cfg.Sink.DatabaseURL = ""

	err := cfg.Validate("publish")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sink.driver must be postgres or sqlite")
	assert.Contains(t, err.Error(), "sink.database_url is required")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestRedacted(t *testing.T) {
	cfg := validDefaults()
	cfg.Census.APIKey = "secret"
	cfg.Sink.DatabaseURL = "postgres://user:pw@localhost/gis"

	r := cfg.Redacted()
	assert.Equal(t, "********", r.Census.APIKey)
	assert.Equal(t, "********", r.Sink.DatabaseURL)
	// Original untouched
	assert.Equal(t, "secret", cfg.Census.APIKey)
}
