package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
market:
  total_pages: 25
  timeout: 5s
cache:
  max_entries: 10
ui:
  theme: light
  layout: cards
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.Market.TotalPages != 25 {
		t.Errorf("total_pages = %d, want 25", cfg.Market.TotalPages)
	}
	if cfg.Market.Timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", cfg.Market.Timeout)
	}
	if cfg.Cache.MaxEntries != 10 {
		t.Errorf("max_entries = %d, want 10", cfg.Cache.MaxEntries)
	}
	if cfg.UI.Layout != LayoutCards || cfg.IsDark() {
		t.Errorf("ui = %+v", cfg.UI)
	}

	// Untouched keys keep their defaults
	def := DefaultConfig()
	if cfg.Market.BaseURL != def.Market.BaseURL {
		t.Errorf("base_url = %q", cfg.Market.BaseURL)
	}
	if cfg.Cache.NetworkTimeout != 3*time.Second || cfg.Cache.MaxAge != 24*time.Hour {
		t.Errorf("cache defaults lost: %+v", cfg.Cache)
	}
	if cfg.UI.WideBreakpoint != 100 {
		t.Errorf("wide_breakpoint = %d", cfg.UI.WideBreakpoint)
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "market:\n  total_pages: 4\n")
	t.Setenv("COINBOARD_MARKET_API_KEY", "cg-demo")
	t.Setenv("COINBOARD_MARKET_TOTAL_PAGES", "7")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Market.APIKey != "cg-demo" {
		t.Errorf("api_key = %q", cfg.Market.APIKey)
	}
	if cfg.Market.TotalPages != 7 {
		t.Errorf("total_pages = %d, want env value 7", cfg.Market.TotalPages)
	}
}

func TestLoadConfig_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero pages", "market:\n  total_pages: 0\n"},
		{"bad layout", "ui:\n  layout: grid\n"},
		{"bad theme", "ui:\n  theme: solarized\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.UI.Theme = "light"
	cfg.Market.TotalPages = 12
	cfg.Cache.MaxAge = 2 * time.Hour

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.UI.Theme != "light" || got.Market.TotalPages != 12 || got.Cache.MaxAge != 2*time.Hour {
		t.Errorf("round trip mismatch: %+v", got)
	}
}
