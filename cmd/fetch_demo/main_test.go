package main

import "testing"

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("FINBRO_BASE_URL", "https://finbro.test")
	t.Setenv("FINBRO_API_KEY", "sk-env")
	t.Setenv("FINBRO_TICKERS", "msft, nvda")
	t.Setenv("FINBRO_LENIENT", "true")
	t.Setenv("FINBRO_PARALLELISM", "6")

	cfg := loadConfig("testdata/absent.yaml")

	if cfg.BaseURL != "https://finbro.test" {
		t.Errorf("BaseURL = %q, want https://finbro.test", cfg.BaseURL)
	}
	if cfg.APIKey != "sk-env" {
		t.Errorf("APIKey = %q, want sk-env", cfg.APIKey)
	}
	if len(cfg.Tickers) != 2 || cfg.Tickers[0] != "msft" || cfg.Tickers[1] != "nvda" {
		t.Errorf("Tickers = %v, want [msft nvda]", cfg.Tickers)
	}
	if !cfg.Lenient {
		t.Error("FINBRO_LENIENT=true should enable lenient mode")
	}
	if cfg.Parallelism != 6 {
		t.Errorf("Parallelism = %d, want 6", cfg.Parallelism)
	}
}

func TestLoadConfig_BadEnvValuesIgnored(t *testing.T) {
	t.Setenv("FINBRO_LENIENT", "sometimes")
	t.Setenv("FINBRO_PARALLELISM", "many")

	cfg := loadConfig("testdata/absent.yaml")

	if cfg.Lenient {
		t.Error("an unparsable FINBRO_LENIENT should leave the default")
	}
	if cfg.Parallelism != 1 {
		t.Errorf("Parallelism = %d, want the floor of 1", cfg.Parallelism)
	}
}
