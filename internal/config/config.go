package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Census   CensusConfig   `yaml:"census" mapstructure:"census"`
	Boundary BoundaryConfig `yaml:"boundary" mapstructure:"boundary"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Map      MapConfig      `yaml:"map" mapstructure:"map"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Sink     SinkConfig     `yaml:"sink" mapstructure:"sink"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// CensusConfig selects the ACS release and the state to pull.
type CensusConfig struct {
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	Year      int    `yaml:"year" mapstructure:"year"`
	Dataset   string `yaml:"dataset" mapstructure:"dataset"`
	StateFIPS string `yaml:"state_fips" mapstructure:"state_fips"`
	APIKey    string `yaml:"api_key" mapstructure:"api_key"`
}

// BoundaryConfig selects the cartographic boundary archive.
type BoundaryConfig struct {
	BaseURL    string `yaml:"base_url" mapstructure:"base_url"`
	Year       int    `yaml:"year" mapstructure:"year"`
	Resolution string `yaml:"resolution" mapstructure:"resolution"`
	TempDir    string `yaml:"temp_dir" mapstructure:"temp_dir"`
	MaxEntryMB int    `yaml:"max_entry_mb" mapstructure:"max_entry_mb"`
}

// FetchConfig configures the outbound HTTP client.
type FetchConfig struct {
	UserAgent          string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	ArchiveTimeoutSecs int     `yaml:"archive_timeout_secs" mapstructure:"archive_timeout_secs"`
	RatePerSec         float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// MapConfig controls the choropleth presentation.
type MapConfig struct {
	Zoom        int     `yaml:"zoom" mapstructure:"zoom"`
	TileURL     string  `yaml:"tile_url" mapstructure:"tile_url"`
	Attribution string  `yaml:"attribution" mapstructure:"attribution"`
	Palette     string  `yaml:"palette" mapstructure:"palette"`
	Bins        int     `yaml:"bins" mapstructure:"bins"`
	FillOpacity float64 `yaml:"fill_opacity" mapstructure:"fill_opacity"`
	LineOpacity float64 `yaml:"line_opacity" mapstructure:"line_opacity"`
}

// ServerConfig configures the map server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// SinkConfig configures the optional publish target.
type SinkConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Schema      string `yaml:"schema" mapstructure:"schema"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("COUNTYROI")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("census.base_url", "https://api.census.gov/data")
	v.SetDefault("census.year", 2022)
	v.SetDefault("census.dataset", "acs/acs5")
	v.SetDefault("census.state_fips", "18")
	v.SetDefault("census.api_key", "")
	v.SetDefault("boundary.base_url", "https://www2.census.gov/geo/tiger")
	v.SetDefault("boundary.year", 2018)
	v.SetDefault("boundary.resolution", "500k")
	v.SetDefault("boundary.temp_dir", "")
	v.SetDefault("boundary.max_entry_mb", 512)
	v.SetDefault("fetch.user_agent", "county-roi/1.0")
	v.SetDefault("fetch.timeout_secs", 30)
	v.SetDefault("fetch.archive_timeout_secs", 600)
	v.SetDefault("fetch.rate_per_sec", 5)
	v.SetDefault("map.zoom", 7)
	v.SetDefault("map.tile_url", "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png")
	v.SetDefault("map.attribution", "&copy; OpenStreetMap contributors &copy; CARTO")
	v.SetDefault("map.palette", "YlGnBu")
	v.SetDefault("map.bins", 6)
	v.SetDefault("map.fill_opacity", 0.8)
	v.SetDefault("map.line_opacity", 0.2)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("sink.driver", "sqlite")
	v.SetDefault("sink.database_url", "county_roi.db")
	v.SetDefault("sink.schema", "public")
	v.SetDefault("sink.table", "county_roi")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields required for the given mode.
// Valid modes: "pipeline", "serve", "publish".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "pipeline", "serve", "publish":
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if !isStateFIPS(c.Census.StateFIPS) {
		errs = append(errs, fmt.Sprintf("census.state_fips must be a 2-digit code, got %q", c.Census.StateFIPS))
	}
	if c.Census.Year < 2009 {
		errs = append(errs, fmt.Sprintf("census.year %d predates the ACS 5-year API", c.Census.Year))
	}
	if c.Boundary.Year < 2013 {
		errs = append(errs, fmt.Sprintf("boundary.year %d has no cartographic boundary archive", c.Boundary.Year))
	}

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Map.Bins < 3 || c.Map.Bins > 9 {
			errs = append(errs, fmt.Sprintf("map.bins must be between 3 and 9, got %d", c.Map.Bins))
		}
	case "publish":
		if c.Sink.Driver != "postgres" && c.Sink.Driver != "sqlite" {
			errs = append(errs, fmt.Sprintf("sink.driver must be postgres or sqlite, got %q", c.Sink.Driver))
		}
		if c.Sink.DatabaseURL == "" {
			errs = append(errs, "sink.database_url is required")
		}
		if c.Sink.Table == "" {
			errs = append(errs, "sink.table is required")
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func isStateFIPS(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Redacted returns a copy with credentials masked, for display.
func (c Config) Redacted() Config {
	if c.Census.APIKey != "" {
		c.Census.APIKey = "********"
	}
	if strings.Contains(c.Sink.DatabaseURL, "@") {
		c.Sink.DatabaseURL = "********"
	}
	return c
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
