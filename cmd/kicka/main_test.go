package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/piwi3910/KickaEttan/internal/project"
	"github.com/rs/zerolog"
)

// runCLI runs the command with a throwaway config file.
func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), "config.json")
	return runWithConfig(t, cfgPath, args...)
}

func runWithConfig(t *testing.T, cfgPath string, args ...string) (int, string, string) {
	t.Helper()
	return runWithInput(t, cfgPath, "", args...)
}

func runWithInput(t *testing.T, cfgPath, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"-config", cfgPath, "-log-level", "error"}, args...)
	code := run(full, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunNoCommand(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(stderr, "usage: kicka") {
		t.Errorf("expected usage on stderr, got %q", stderr)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "bogus")
	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
	if !strings.Contains(stderr, `unknown command "bogus"`) {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestRunMeasure(t *testing.T) {
	code, stdout, stderr := runCLI(t, "measure", "-x", "237.5", "-y", "640")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	var got struct {
		Zone             string  `json:"zone"`
		DistanceToCenter float64 `json:"distance_to_center"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if got.Zone != "house" {
		t.Errorf("expected house, got %q", got.Zone)
	}
	if got.DistanceToCenter != 0 {
		t.Errorf("expected 0 distance to center, got %v", got.DistanceToCenter)
	}
}

func TestRunMeasureYAML(t *testing.T) {
	code, stdout, _ := runCLI(t, "measure", "-x", "237.5", "-y", "640", "-format", "yaml")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(stdout, "zone: house") {
		t.Errorf("expected inlined zone in YAML output, got:\n%s", stdout)
	}
	for _, want := range []string{"closest_ring:", "center_line:", "t_line:", "guard_distance: 625.5"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in YAML output, got:\n%s", want, stdout)
		}
	}
}

func TestRunMeasureLinesAndNearestStone(t *testing.T) {
	code, stdout, stderr := runCLI(t, "measure", "-x", "287.5", "-y", "640", "-scenario", "Head-on Collision")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	var got struct {
		CenterLine struct {
			Distance    float64 `json:"distance"`
			Overlapping bool    `json:"overlapping"`
		} `json:"center_line"`
		TLine struct {
			Overlapping bool `json:"overlapping"`
		} `json:"t_line"`
		GuardDistance   float64  `json:"guard_distance"`
		NearestStoneID  *int     `json:"nearest_stone_id"`
		NearestStoneGap *float64 `json:"nearest_stone_gap"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, stdout)
	}
	if got.CenterLine.Overlapping || got.CenterLine.Distance != 35.5 {
		t.Errorf("unexpected centre line offset %+v", got.CenterLine)
	}
	if !got.TLine.Overlapping {
		t.Error("expected the stone to cover the tee line")
	}
	if got.GuardDistance != 625.5 {
		t.Errorf("expected guard distance 625.5, got %v", got.GuardDistance)
	}
	// Yellow at (245,640) is nearest: 42.5 apart, 13.5 edge to edge.
	if got.NearestStoneGap == nil || *got.NearestStoneGap != 13.5 {
		t.Errorf("expected nearest stone gap 13.5, got %v", got.NearestStoneGap)
	}
	if got.NearestStoneID == nil || *got.NearestStoneID != 0 {
		t.Errorf("expected nearest stone 0, got %v", got.NearestStoneID)
	}
}

func TestRunResolveBuiltin(t *testing.T) {
	code, stdout, stderr := runCLI(t, "resolve", "-scenario", "Ban Ring Bounce", "-stone", "1", "-x", "260", "-y", "640")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	var res model.Resolution
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if !res.ResetToBar {
		t.Error("expected the stone to go back to the bar")
	}
	if res.Outcome != model.OutcomeOscillation {
		t.Errorf("expected oscillation, got %q", res.Outcome)
	}
}

func TestRunResolveMissingScenario(t *testing.T) {
	code, _, _ := runCLI(t, "resolve", "-x", "100", "-y", "400")
	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}

	code, _, _ = runCLI(t, "resolve", "-scenario", "No Such Scenario")
	if code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
}

func TestRunResolveBadTeam(t *testing.T) {
	code, _, _ := runCLI(t, "resolve", "-scenario", "Head-on Collision", "-team", "green")
	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestRunSettle(t *testing.T) {
	code, stdout, stderr := runCLI(t, "settle", "-scenario", "Head-on Collision")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	var board model.Board
	if err := json.Unmarshal([]byte(stdout), &board); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(board.Red) != 1 || len(board.Yellow) != 1 {
		t.Fatalf("expected one stone per team, got %+v", board)
	}
	if board.Yellow[0].X != 266 {
		t.Errorf("expected yellow pushed to 266, got %v", board.Yellow[0].X)
	}
}

func TestRunPlay(t *testing.T) {
	code, stdout, stderr := runCLI(t, "play", "-scenario", "Ban Ring Bounce")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}

	var got struct {
		Results []model.DropResult `json:"results"`
		Board   model.Board        `json:"board"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(got.Results) != 1 {
		t.Fatalf("expected one drop result, got %d", len(got.Results))
	}
	if !got.Results[0].Resolution.ResetToBar {
		t.Error("expected the drop to be reset")
	}
}

func TestRunUnknownFormat(t *testing.T) {
	code, _, _ := runCLI(t, "settle", "-scenario", "Head-on Collision", "-format", "xml")
	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestRunImportThenSettle(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	csvPath := filepath.Join(dir, "end.csv")
	outPath := filepath.Join(dir, "end.yaml")

	data := "id,x,y,team,placed\n0,237,640,red,yes\n0,245,640,yellow,yes\n"
	if err := os.WriteFile(csvPath, []byte(data), 0644); err != nil {
		t.Fatalf("failed to write csv: %v", err)
	}

	code, _, stderr := runWithConfig(t, cfgPath, "import", "-in", csvPath, "-out", outPath)
	if code != exitOK {
		t.Fatalf("import failed with %d: %s", code, stderr)
	}

	sc, err := project.LoadScenario(outPath)
	if err != nil {
		t.Fatalf("failed to load imported scenario: %v", err)
	}
	if sc.Name != "end" {
		t.Errorf("expected name from file, got %q", sc.Name)
	}
	if len(sc.Board.Red) != 1 || len(sc.Board.Yellow) != 1 {
		t.Errorf("unexpected board %+v", sc.Board)
	}

	cfg, err := project.LoadAppConfig(cfgPath)
	if err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}
	if len(cfg.RecentScenarios) != 1 || filepath.Base(cfg.RecentScenarios[0]) != "end.yaml" {
		t.Errorf("expected the imported scenario in the recent list, got %v", cfg.RecentScenarios)
	}

	code, stdout, stderr := runWithConfig(t, cfgPath, "settle", "-scenario", outPath)
	if code != exitOK {
		t.Fatalf("settle failed with %d: %s", code, stderr)
	}
	var board model.Board
	if err := json.Unmarshal([]byte(stdout), &board); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(board.Yellow) != 1 || board.Yellow[0].X != 266 {
		t.Errorf("expected yellow pushed to 266, got %+v", board.Yellow)
	}
}

func TestRunImportFromStdin(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	outPath := filepath.Join(dir, "piped.yaml")

	data := "id;x;y;team;placed\n0;237;640;red;yes\n1;300;400;yellow;bar\n"
	code, _, stderr := runWithInput(t, cfgPath, data, "import", "-in", "-", "-out", outPath)
	if code != exitOK {
		t.Fatalf("import failed with %d: %s", code, stderr)
	}

	sc, err := project.LoadScenario(outPath)
	if err != nil {
		t.Fatalf("failed to load imported scenario: %v", err)
	}
	if sc.Name != "stdin" {
		t.Errorf("expected default name stdin, got %q", sc.Name)
	}
	if len(sc.Board.Red) != 1 || len(sc.Board.Yellow) != 1 {
		t.Fatalf("unexpected board %+v", sc.Board)
	}
	if sc.Board.Yellow[0].Placed {
		t.Error("expected the yellow stone to stay on the bar")
	}
}

func TestRunImportEmptyStdin(t *testing.T) {
	code, _, _ := runWithInput(t, filepath.Join(t.TempDir(), "config.json"), "", "import", "-in", "-")
	if code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
}

func TestRunBackupRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.json")
	scenarioDir := filepath.Join(dir, "scenarios")
	backupPath := filepath.Join(dir, "backup", "kicka.json")

	sc := model.NewScenario("Saved End")
	sc.Board.Add(model.TeamRed, model.Stone{ID: 0, X: 237, Y: 640, Placed: true})
	if err := project.SaveScenario(filepath.Join(scenarioDir, "saved.yaml"), sc); err != nil {
		t.Fatalf("failed to save scenario: %v", err)
	}
	// Not a scenario: skipped with a warning.
	if err := os.WriteFile(filepath.Join(scenarioDir, "broken.yaml"), []byte("board: ["), 0644); err != nil {
		t.Fatalf("failed to write broken scenario: %v", err)
	}

	code, _, stderr := runWithConfig(t, cfgPath, "backup", "export", "-out", backupPath, "-dir", scenarioDir)
	if code != exitOK {
		t.Fatalf("backup export failed with %d: %s", code, stderr)
	}
	backup, err := project.ImportAllData(backupPath)
	if err != nil {
		t.Fatalf("backup is not readable: %v", err)
	}
	if len(backup.Scenarios) != 1 || backup.Scenarios[0].Name != "Saved End" {
		t.Fatalf("expected the saved scenario in the backup, got %+v", backup.Scenarios)
	}

	restoreCfg := filepath.Join(dir, "restored", "config.json")
	restoreDir := filepath.Join(dir, "restored", "scenarios")
	code, _, stderr = runWithConfig(t, restoreCfg, "backup", "import", "-in", backupPath, "-dir", restoreDir)
	if code != exitOK {
		t.Fatalf("backup import failed with %d: %s", code, stderr)
	}

	if _, err := project.LoadAppConfig(restoreCfg); err != nil {
		t.Errorf("restored config is not readable: %v", err)
	}
	restored, err := project.LoadScenario(filepath.Join(restoreDir, sc.ID+".yaml"))
	if err != nil {
		t.Fatalf("restored scenario is not readable: %v", err)
	}
	if len(restored.Board.Red) != 1 || restored.Board.Red[0].X != 237 {
		t.Errorf("unexpected restored board %+v", restored.Board)
	}
}

func TestRunBackupUsage(t *testing.T) {
	for _, args := range [][]string{
		{"backup"},
		{"backup", "sideways"},
		{"backup", "export"},
		{"backup", "import"},
	} {
		code, _, _ := runCLI(t, args...)
		if code != exitUsage {
			t.Errorf("%v: expected exit %d, got %d", args, exitUsage, code)
		}
	}
}

func TestRunResolveIgnoresOpponentOnBar(t *testing.T) {
	dir := t.TempDir()
	scPath := filepath.Join(dir, "bar.yaml")
	sc := model.NewScenario("bar")
	sc.Board.Add(model.TeamYellow, model.Stone{ID: 0, X: 200, Y: 400, Placed: false})
	if err := project.SaveScenario(scPath, sc); err != nil {
		t.Fatalf("failed to save scenario: %v", err)
	}

	code, stdout, stderr := runWithConfig(t, filepath.Join(dir, "config.json"),
		"resolve", "-scenario", scPath, "-team", "red", "-x", "200", "-y", "400")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, stderr)
	}
	var res model.Resolution
	if err := json.Unmarshal([]byte(stdout), &res); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if res.ResetToBar || res.X != 200 || res.Y != 400 {
		t.Errorf("expected the drop to stay at (200, 400), got %+v", res)
	}
}

func TestRunImportMissingFile(t *testing.T) {
	code, _, _ := runCLI(t, "import", "-in", filepath.Join(t.TempDir(), "missing.csv"))
	if code != exitFailure {
		t.Errorf("expected exit %d, got %d", exitFailure, code)
	}
}

func TestRunExport(t *testing.T) {
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "report.pdf")
	labelsPath := filepath.Join(dir, "labels.pdf")
	dxfPath := filepath.Join(dir, "board.dxf")

	code, _, stderr := runCLI(t, "export", "-scenario", "Multiple Collisions",
		"-pdf", pdfPath, "-labels", labelsPath, "-dxf", dxfPath)
	if code != exitOK {
		t.Fatalf("export failed with %d: %s", code, stderr)
	}
	for _, p := range []string{pdfPath, labelsPath, dxfPath} {
		info, err := os.Stat(p)
		if err != nil {
			t.Errorf("expected %s to exist: %v", p, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("expected %s to be non-empty", p)
		}
	}
}

func TestRunExportNeedsTarget(t *testing.T) {
	code, _, _ := runCLI(t, "export", "-scenario", "Multiple Collisions")
	if code != exitUsage {
		t.Errorf("expected exit %d, got %d", exitUsage, code)
	}
}

func TestRunScenarios(t *testing.T) {
	dir := t.TempDir()
	sc := model.NewScenario("Saved End")
	if err := project.SaveScenario(filepath.Join(dir, "saved.yaml"), sc); err != nil {
		t.Fatalf("failed to save scenario: %v", err)
	}

	code, stdout, _ := runCLI(t, "scenarios", "-dir", dir)
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, want := range []string{"Head-on Collision", "Ban Ring Bounce", "saved.yaml"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected %q in output:\n%s", want, stdout)
		}
	}
}

func TestSetupLogging(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"trace", zerolog.TraceLevel},
		{"nonsense", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		logger := setupLogging(&bytes.Buffer{}, tt.level)
		if logger.GetLevel() != tt.want {
			t.Errorf("level %q: expected %v, got %v", tt.level, tt.want, logger.GetLevel())
		}
	}
}
