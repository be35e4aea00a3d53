package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// ── Load / Defaults ──

func clearKeyEnv(t *testing.T) {
	t.Helper()
	for _, e := range []string{
		"FMP_API_KEY", "NEWS_API_KEY",
		"MARKETBRIEF_PROVIDERS_FMP_KEY", "MARKETBRIEF_PROVIDERS_NEWSAPI_KEY",
	} {
		t.Setenv(e, "")
	}
}

func TestLoadReturnsDefaults(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Brief.FreshnessHours != 4 {
		t.Errorf("Brief.FreshnessHours: got %d, want 4", cfg.Brief.FreshnessHours)
	}
	if cfg.Brief.Freshness() != 4*time.Hour {
		t.Errorf("Brief.Freshness(): got %v", cfg.Brief.Freshness())
	}
	if cfg.Brief.HeadlinesPerProvider != 5 || cfg.Brief.HeadlineCap != 8 || cfg.Brief.AnnouncementCap != 5 {
		t.Errorf("caps: got %d/%d/%d, want 5/8/5",
			cfg.Brief.HeadlinesPerProvider, cfg.Brief.HeadlineCap, cfg.Brief.AnnouncementCap)
	}
	if !cfg.Brief.CalendarEnabled {
		t.Error("Brief.CalendarEnabled should default to true")
	}
	if cfg.Brief.CalendarLookbackHours != 15 || cfg.Brief.CalendarLookaheadHours != 24 {
		t.Errorf("calendar window: got -%dh/+%dh", cfg.Brief.CalendarLookbackHours, cfg.Brief.CalendarLookaheadHours)
	}
	if cfg.Brief.Timezone != "Australia/Sydney" {
		t.Errorf("Brief.Timezone: got %q", cfg.Brief.Timezone)
	}
	if cfg.Brief.SymbolSet != "v1" {
		t.Errorf("Brief.SymbolSet: got %q, want v1", cfg.Brief.SymbolSet)
	}
	if cfg.HTTP.Timeout() != 10*time.Second {
		t.Errorf("HTTP.Timeout(): got %v, want 10s", cfg.HTTP.Timeout())
	}
	if cfg.API.Port != 8080 {
		t.Errorf("API.Port: got %d, want 8080", cfg.API.Port)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging: got %q/%q", cfg.Logging.Level, cfg.Logging.Format)
	}
	if cfg.Providers.FMPKey != "" || cfg.Providers.NewsAPIKey != "" {
		t.Error("keys should be empty without env or file")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	clearKeyEnv(t)

	path := writeConfig(t, `
providers:
  fmp_key: "file_fmp_key_123456"
  rss_url: "https://example.com/feed.xml"
brief:
  freshness_hours: 0
  symbol_set: "us"
  calendar_enabled: false
  static:
    - key: "notes"
      title: "Desk Notes"
      lines: ["- Markets closed Monday"]
  scrapes:
    - name: "movers"
      title: "Top Movers"
      url: "https://example.com/movers"
      selector: ".movers li"
      limit: 3
api:
  port: 9090
logging:
  level: "debug"
  format: "json"
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.Providers.FMPKey != "file_fmp_key_123456" {
		t.Errorf("Providers.FMPKey: got %q", cfg.Providers.FMPKey)
	}
	if cfg.Brief.FreshnessHours != 0 {
		t.Errorf("Brief.FreshnessHours: got %d, want 0", cfg.Brief.FreshnessHours)
	}
	if cfg.Brief.SymbolSet != "us" {
		t.Errorf("Brief.SymbolSet: got %q", cfg.Brief.SymbolSet)
	}
	if cfg.Brief.CalendarEnabled {
		t.Error("Brief.CalendarEnabled: want false")
	}
	if len(cfg.Brief.Static) != 1 || cfg.Brief.Static[0].Title != "Desk Notes" {
		t.Errorf("Brief.Static: got %+v", cfg.Brief.Static)
	}
	if len(cfg.Brief.Scrapes) != 1 || cfg.Brief.Scrapes[0].Limit != 3 {
		t.Errorf("Brief.Scrapes: got %+v", cfg.Brief.Scrapes)
	}
	if cfg.API.Port != 9090 {
		t.Errorf("API.Port: got %d, want 9090", cfg.API.Port)
	}
	// Unset values keep their defaults.
	if cfg.Brief.HeadlineCap != 8 {
		t.Errorf("Brief.HeadlineCap: got %d, want 8", cfg.Brief.HeadlineCap)
	}
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	clearKeyEnv(t)

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{"negative freshness", "brief:\n  freshness_hours: -1\n", "FreshnessHours"},
		{"bad log level", "logging:\n  level: \"loud\"\n", "Level"},
		{"zero timeout", "http:\n  timeout_sec: 0\n", "TimeoutSec"},
		{"scrape without selector", "brief:\n  scrapes:\n    - name: a\n      title: A\n      url: https://example.com\n", "Selector"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestScrapeLimitDefault(t *testing.T) {
	clearKeyEnv(t)

	cfg, err := LoadFromFile(writeConfig(t, `
brief:
  scrapes:
    - name: "movers"
      title: "Top Movers"
      url: "https://example.com/movers"
      selector: "li"
`))
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if got := cfg.Brief.Scrapes[0].Limit; got != 10 {
		t.Errorf("Scrapes[0].Limit: got %d, want 10", got)
	}
}

func TestOverrideFromEnv(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("FMP_API_KEY", "bare_fmp_key_0001")
	t.Setenv("NEWS_API_KEY", "bare_news_key_0001")
	t.Setenv("MARKETBRIEF_PROVIDERS_NEWSAPI_KEY", "prefixed_news_key")

	cfg := &Config{}
	overrideFromEnv(cfg)

	if cfg.Providers.FMPKey != "bare_fmp_key_0001" {
		t.Errorf("FMPKey: got %q", cfg.Providers.FMPKey)
	}
	if cfg.Providers.NewsAPIKey != "prefixed_news_key" {
		t.Errorf("NewsAPIKey: got %q, want prefixed value", cfg.Providers.NewsAPIKey)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("MARKETBRIEF_API_PORT", "7070")

	cfg, err := LoadFromFile(writeConfig(t, "api:\n  port: 9090\n"))
	if err != nil {
		t.Fatalf("LoadFromFile() error: %v", err)
	}
	if cfg.API.Port != 7070 {
		t.Errorf("API.Port: got %d, want 7070", cfg.API.Port)
	}
}

// ── API keys ──

func TestMaskKey(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "***"},
		{"short", "***"},
		{"12345678", "***"},
		{"abcdefghijkl", "abc...jkl"},
	}
	for _, tt := range tests {
		if got := maskKey(tt.in); got != tt.want {
			t.Errorf("maskKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCheckAPIKeys(t *testing.T) {
	clearKeyEnv(t)
	t.Setenv("NEWS_API_KEY", "env_news_key_123")

	cfg := &Config{Providers: ProvidersConfig{
		FMPKey:     "config_fmp_key_123",
		NewsAPIKey: "env_news_key_123",
	}}
	got := CheckAPIKeys(cfg)
	if len(got) != 2 {
		t.Fatalf("CheckAPIKeys: got %d entries, want 2", len(got))
	}
	if got[0].Source != KeySourceConfig || got[0].Masked != "con...123" {
		t.Errorf("FMP key status: %+v", got[0])
	}
	if got[1].Source != KeySourceEnv || !got[1].IsSet {
		t.Errorf("NewsAPI key status: %+v", got[1])
	}

	empty := CheckAPIKeys(&Config{})
	for _, ks := range empty {
		if ks.IsSet || ks.Source != KeySourceNone || ks.Masked != "" {
			t.Errorf("empty key status: %+v", ks)
		}
	}
}

func TestHomeDirReturnsNonEmpty(t *testing.T) {
	if homeDir() == "" {
		t.Error("homeDir() returned empty string")
	}
}
