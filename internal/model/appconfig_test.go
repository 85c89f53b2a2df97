package model

import "testing"

func TestDefaultAppConfigMatchesDefaultSheet(t *testing.T) {
	cfg := DefaultAppConfig()
	sheet := DefaultSheet()

	if cfg.Sheet != sheet {
		t.Errorf("Sheet mismatch: config=%+v default=%+v", cfg.Sheet, sheet)
	}
	if cfg.MaxIterations != 10 {
		t.Errorf("expected MaxIterations=10, got %d", cfg.MaxIterations)
	}
	if cfg.Precision != 2 {
		t.Errorf("expected Precision=2, got %d", cfg.Precision)
	}
	if cfg.DefaultBanRadius != 50 {
		t.Errorf("expected DefaultBanRadius=50, got %f", cfg.DefaultBanRadius)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level=info, got %s", cfg.LogLevel)
	}
	if cfg.RecentScenarios == nil {
		t.Error("RecentScenarios should not be nil")
	}
}
