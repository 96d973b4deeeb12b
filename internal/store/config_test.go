package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ml-trading-bot/internal/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "account:\n  mode: PAPER\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MarketData.LookbackDays != 365 {
		t.Errorf("expected default lookback 365, got %d", cfg.MarketData.LookbackDays)
	}
	if cfg.Sizing.Mode != "NOTIONAL" {
		t.Errorf("expected default sizing NOTIONAL, got %s", cfg.Sizing.Mode)
	}
	if cfg.Indicators.RSIPeriod != 14 || cfg.Indicators.BBWindow != 20 {
		t.Errorf("expected default indicator windows, got %+v", cfg.Indicators)
	}
	if !cfg.Paper() {
		t.Error("expected paper mode")
	}
}

func TestLoadConfigInvalidMode(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "account:\n  mode: SANDBOX\n"))
	if err == nil || !strings.Contains(err.Error(), "account.mode") {
		t.Fatalf("expected account.mode validation error, got %v", err)
	}
}

func TestLoadConfigInvalidSizing(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "account:\n  mode: LIVE\nsizing:\n  mode: SHARES\n"))
	if err == nil || !strings.Contains(err.Error(), "sizing.mode") {
		t.Fatalf("expected sizing.mode validation error, got %v", err)
	}
}

func TestSizingModeTyped(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "sizing:\n  mode: QUANTITY\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SizingMode() != types.SizeByQuantity {
		t.Errorf("expected SizeByQuantity, got %v", cfg.SizingMode())
	}
}

func TestResolveCredentialsPaper(t *testing.T) {
	t.Setenv("ALPACA_PAPER_API_KEY_ID", "pk")
	t.Setenv("ALPACA_PAPER_API_SECRET_KEY", "ps")

	creds, err := ResolveCredentials(true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.APIKey != "pk" || creds.APISecret != "ps" {
		t.Errorf("unexpected credentials %+v", creds)
	}
}

func TestResolveCredentialsMissing(t *testing.T) {
	t.Setenv("ALPACA_LIVE_API_KEY_ID", "")
	t.Setenv("ALPACA_LIVE_API_SECRET_KEY", "")

	_, err := ResolveCredentials(false)
	if err == nil || !strings.Contains(err.Error(), "ALPACA_LIVE_API_KEY_ID") {
		t.Fatalf("expected missing-credentials error naming the env vars, got %v", err)
	}
}
