package main

import (
	"testing"

	"StockDash/internal/collector"
	"StockDash/internal/config"
)

func loadShippedConfig(t *testing.T, provider string) *config.Config {
	t.Helper()
	for _, k := range []string{"ALPHAVANTAGE_BASE_URL", "YAHOO_BASE_URL", "QUOTE_RATE_PER_MINUTE", "HTTPS_PROXY"} {
		t.Setenv(k, "")
	}
	t.Setenv("QUOTE_PROVIDER", provider)
	cfg, err := config.Load("../../configs/config.yaml")
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	return cfg
}

func TestNewFetcher_PerProvider(t *testing.T) {
	t.Run("yahoo", func(t *testing.T) {
		f, ok := newFetcher(loadShippedConfig(t, "yahoo")).(*collector.YahooFetcher)
		if !ok {
			t.Fatal("expected *collector.YahooFetcher")
		}
		if f.BaseURL != collector.DefaultYahooURL {
			t.Errorf("BaseURL = %q, want %q", f.BaseURL, collector.DefaultYahooURL)
		}
	})

	t.Run("alphavantage", func(t *testing.T) {
		f, ok := newFetcher(loadShippedConfig(t, "alphavantage")).(*collector.AlphaVantageFetcher)
		if !ok {
			t.Fatal("expected *collector.AlphaVantageFetcher")
		}
		if f.BaseURL != "https://www.alphavantage.co" {
			t.Errorf("BaseURL = %q", f.BaseURL)
		}
		if f.OutputSize != "compact" {
			t.Errorf("OutputSize = %q", f.OutputSize)
		}
		if f.Limiter == nil {
			t.Error("expected a rate limiter")
		}
	})

	t.Run("mock", func(t *testing.T) {
		if _, ok := newFetcher(loadShippedConfig(t, "mock")).(*collector.MockFetcher); !ok {
			t.Fatal("expected *collector.MockFetcher")
		}
	})
}

func TestNewFetcher_YahooOverride(t *testing.T) {
	cfg := loadShippedConfig(t, "yahoo")
	cfg.DataSource.YahooBaseURL = "http://127.0.0.1:9999"
	f := newFetcher(cfg).(*collector.YahooFetcher)
	if f.BaseURL != "http://127.0.0.1:9999" {
		t.Errorf("BaseURL = %q", f.BaseURL)
	}
}
