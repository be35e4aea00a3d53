// Package config handles configuration loading for marketbrief.
// It supports YAML config files with environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. MARKETBRIEF_API_PORT.
const EnvPrefix = "MARKETBRIEF"

// Config represents the complete application configuration.
type Config struct {
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	Brief     BriefConfig     `mapstructure:"brief"     yaml:"brief"`
	HTTP      HTTPConfig      `mapstructure:"http"      yaml:"http"`
	API       APIConfig       `mapstructure:"api"       yaml:"api"`
	Logging   LoggingConfig   `mapstructure:"logging"   yaml:"logging"`
}

// ProvidersConfig holds upstream credentials and endpoints.
type ProvidersConfig struct {
	FMPKey         string `mapstructure:"fmp_key"          yaml:"fmp_key"`
	FMPBaseURL     string `mapstructure:"fmp_base_url"     yaml:"fmp_base_url"     validate:"omitempty,url"`
	NewsAPIKey     string `mapstructure:"newsapi_key"      yaml:"newsapi_key"`
	NewsAPIBaseURL string `mapstructure:"newsapi_base_url" yaml:"newsapi_base_url" validate:"omitempty,url"`
	RSSURL         string `mapstructure:"rss_url"          yaml:"rss_url"          validate:"omitempty,url"`
}

// BriefConfig controls what goes into the aggregated brief.
type BriefConfig struct {
	FreshnessHours         int                   `mapstructure:"freshness_hours"          yaml:"freshness_hours"          validate:"gte=0"` // 0 disables the filter
	HeadlinesPerProvider   int                   `mapstructure:"headlines_per_provider"   yaml:"headlines_per_provider"   validate:"gte=1"`
	HeadlineCap            int                   `mapstructure:"headline_cap"             yaml:"headline_cap"             validate:"gte=1"`
	AnnouncementCap        int                   `mapstructure:"announcement_cap"         yaml:"announcement_cap"         validate:"gte=1"`
	CalendarEnabled        bool                  `mapstructure:"calendar_enabled"         yaml:"calendar_enabled"`
	CalendarLookbackHours  int                   `mapstructure:"calendar_lookback_hours"  yaml:"calendar_lookback_hours"  validate:"gte=0"`
	CalendarLookaheadHours int                   `mapstructure:"calendar_lookahead_hours" yaml:"calendar_lookahead_hours" validate:"gte=0"`
	Timezone               string                `mapstructure:"timezone"                 yaml:"timezone"`
	SymbolSet              string                `mapstructure:"symbol_set"               yaml:"symbol_set"               validate:"required"`
	Static                 []StaticSectionConfig `mapstructure:"static"                   yaml:"static"                   validate:"dive"`
	Scrapes                []ScrapeConfig        `mapstructure:"scrapes"                  yaml:"scrapes"                  validate:"dive"`
}

// StaticSectionConfig is a constant block of lines shown as-is.
type StaticSectionConfig struct {
	Key   string   `mapstructure:"key"   yaml:"key"   validate:"required"`
	Title string   `mapstructure:"title" yaml:"title" validate:"required"`
	Lines []string `mapstructure:"lines" yaml:"lines" validate:"min=1"`
}

// ScrapeConfig describes one scraped page section.
type ScrapeConfig struct {
	Name     string `mapstructure:"name"     yaml:"name"     validate:"required"`
	Title    string `mapstructure:"title"    yaml:"title"    validate:"required"`
	URL      string `mapstructure:"url"      yaml:"url"      validate:"required,url"`
	Selector string `mapstructure:"selector" yaml:"selector" validate:"required"`
	Limit    int    `mapstructure:"limit"    yaml:"limit"    validate:"gte=1" default:"10"`
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec" validate:"gte=1"`
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	Host        string   `mapstructure:"host"         yaml:"host"`
	Port        int      `mapstructure:"port"         yaml:"port"         validate:"gte=1,lte=65535"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"  validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=text json"`
}

// Timeout returns the outbound request timeout.
func (h HTTPConfig) Timeout() time.Duration {
	return time.Duration(h.TimeoutSec) * time.Second
}

// Freshness returns the headline freshness window.
func (b BriefConfig) Freshness() time.Duration {
	return time.Duration(b.FreshnessHours) * time.Hour
}

var validate = validator.New()

// Validate checks the struct-tag constraints of the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.marketbrief/config.yaml (home directory)
//  3. /etc/marketbrief/config.yaml (system)
//
// Environment variables override config file values.
// Format: MARKETBRIEF_<SECTION>_<KEY>, e.g., MARKETBRIEF_BRIEF_SYMBOL_SET
func Load() (*Config, error) {
	v := newViper()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".marketbrief"))
	v.AddConfigPath("/etc/marketbrief")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return decode(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// viper defaults do not reach into list entries.
	for i := range cfg.Brief.Scrapes {
		if err := defaults.Set(&cfg.Brief.Scrapes[i]); err != nil {
			return nil, fmt.Errorf("error applying scrape defaults: %w", err)
		}
	}

	overrideFromEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Providers
	v.SetDefault("providers.fmp_key", "")
	v.SetDefault("providers.fmp_base_url", "https://financialmodelingprep.com/api/v3")
	v.SetDefault("providers.newsapi_key", "")
	v.SetDefault("providers.newsapi_base_url", "https://newsapi.org/v2")
	v.SetDefault("providers.rss_url", "https://feeds.content.dowjones.io/public/rss/mw_topstories")

	// Brief
	v.SetDefault("brief.freshness_hours", 4)
	v.SetDefault("brief.headlines_per_provider", 5)
	v.SetDefault("brief.headline_cap", 8)
	v.SetDefault("brief.announcement_cap", 5)
	v.SetDefault("brief.calendar_enabled", true)
	v.SetDefault("brief.calendar_lookback_hours", 15)
	v.SetDefault("brief.calendar_lookahead_hours", 24)
	v.SetDefault("brief.timezone", "Australia/Sydney")
	v.SetDefault("brief.symbol_set", "v1")

	// Outbound HTTP
	v.SetDefault("http.timeout_sec", 10)

	// API
	v.SetDefault("api.host", "0.0.0.0")
	v.SetDefault("api.port", 8080)
	v.SetDefault("api.cors_origins", []string{"*"})

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Bare variable names used by existing deployments.
const (
	envFMPKey     = "FMP_API_KEY"
	envNewsAPIKey = "NEWS_API_KEY"
)

// overrideFromEnv explicitly reads sensitive keys from environment variables.
// The prefixed form wins over the bare deployment variable.
func overrideFromEnv(cfg *Config) {
	if key := firstEnv(EnvPrefix+"_PROVIDERS_FMP_KEY", envFMPKey); key != "" {
		cfg.Providers.FMPKey = key
	}
	if key := firstEnv(EnvPrefix+"_PROVIDERS_NEWSAPI_KEY", envNewsAPIKey); key != "" {
		cfg.Providers.NewsAPIKey = key
	}
}

func firstEnv(names ...string) string {
	for _, name := range names {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
