package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/KickaEttan/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.MaxIterations = 25
	cfg.LogLevel = "debug"
	cfg.Sheet.StoneRadius = 15
	cfg.RecentScenarios = []string{"/tmp/a.yaml", "/tmp/b.yaml"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.MaxIterations != 25 {
		t.Errorf("expected MaxIterations=25, got %d", loaded.MaxIterations)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("expected LogLevel=debug, got %s", loaded.LogLevel)
	}
	if loaded.Sheet.StoneRadius != 15 {
		t.Errorf("expected StoneRadius=15, got %f", loaded.Sheet.StoneRadius)
	}
	if loaded.Sheet.Width != 475 {
		t.Errorf("expected Width=475, got %f", loaded.Sheet.Width)
	}
	if len(loaded.RecentScenarios) != 2 {
		t.Errorf("expected 2 recent scenarios, got %d", len(loaded.RecentScenarios))
	}
}

func TestSaveAndLoadAppConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := model.DefaultAppConfig()
	cfg.ListenAddr = ":9000"
	cfg.DefaultBanRadius = 40

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || data[0] == '{' {
		t.Fatalf("expected YAML output, got %q", data)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if loaded.ListenAddr != ":9000" {
		t.Errorf("expected ListenAddr=:9000, got %s", loaded.ListenAddr)
	}
	if loaded.DefaultBanRadius != 40 {
		t.Errorf("expected DefaultBanRadius=40, got %f", loaded.DefaultBanRadius)
	}
	if loaded.Sheet != cfg.Sheet {
		t.Errorf("sheet mismatch: got %+v", loaded.Sheet)
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.Sheet != defaults.Sheet {
		t.Errorf("expected default sheet, got %+v", cfg.Sheet)
	}
	if cfg.MaxIterations != defaults.MaxIterations {
		t.Errorf("expected MaxIterations=%d, got %d", defaults.MaxIterations, cfg.MaxIterations)
	}
	if cfg.ListenAddr != ":4000" {
		t.Errorf("expected ListenAddr=:4000, got %s", cfg.ListenAddr)
	}
}

func TestLoadAppConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := []byte(`{"max_iterations": 4, "sheet": {"stone_radius": 16}}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.MaxIterations != 4 {
		t.Errorf("expected MaxIterations=4, got %d", cfg.MaxIterations)
	}
	if cfg.Sheet.StoneRadius != 16 {
		t.Errorf("expected StoneRadius=16, got %f", cfg.Sheet.StoneRadius)
	}
	if cfg.Sheet.BackLineOffset != 183 {
		t.Errorf("missing keys should keep defaults, got BackLineOffset=%f", cfg.Sheet.BackLineOffset)
	}
	if cfg.Precision != 2 {
		t.Errorf("expected Precision=2, got %d", cfg.Precision)
	}
}

func TestLoadAppConfigEnvOverride(t *testing.T) {
	t.Setenv("KICKA_MAX_ITERATIONS", "7")
	t.Setenv("KICKA_SHEET_STONE_RADIUS", "12.5")

	cfg, err := LoadAppConfig(filepath.Join(t.TempDir(), "config.json"))
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.MaxIterations != 7 {
		t.Errorf("expected MaxIterations=7 from env, got %d", cfg.MaxIterations)
	}
	if cfg.Sheet.StoneRadius != 12.5 {
		t.Errorf("expected StoneRadius=12.5 from env, got %f", cfg.Sheet.StoneRadius)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "dir", "config.json")

	cfg := model.DefaultAppConfig()
	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentScenarios(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	data := []byte(`{"log_level":"warn","recent_scenarios":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentScenarios == nil {
		t.Error("RecentScenarios should not be nil after loading")
	}
}

func TestAddRecentScenario(t *testing.T) {
	cfg := model.DefaultAppConfig()

	AddRecentScenario(&cfg, "a.yaml", 3)
	AddRecentScenario(&cfg, "b.yaml", 3)
	AddRecentScenario(&cfg, "c.yaml", 3)
	AddRecentScenario(&cfg, "a.yaml", 3)
	AddRecentScenario(&cfg, "d.yaml", 3)

	want := []string{"d.yaml", "a.yaml", "c.yaml"}
	if len(cfg.RecentScenarios) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.RecentScenarios)
	}
	for i := range want {
		if cfg.RecentScenarios[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], cfg.RecentScenarios[i])
		}
	}
}
