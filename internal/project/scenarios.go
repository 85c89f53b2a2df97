package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/piwi3910/KickaEttan/internal/model"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario is returned when a scenario file holds unusable data.
var ErrInvalidScenario = errors.New("invalid scenario")

// SaveScenario writes a scenario to path as YAML. A scenario without an id
// gets a fresh one.
func SaveScenario(path string, sc model.Scenario) error {
	if sc.ID == "" {
		sc.ID = model.NewScenario(sc.Name).ID
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create scenario directory: %w", err)
	}

	data, err := yaml.Marshal(sc)
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}
	return nil
}

// LoadScenario reads a YAML (or JSON, which YAML accepts) scenario file and
// checks that every stone and ban zone holds usable numbers.
func LoadScenario(path string) (model.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Scenario{}, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var sc model.Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return model.Scenario{}, fmt.Errorf("failed to parse scenario file: %w", err)
	}
	if err := validateScenario(sc); err != nil {
		return model.Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return sc, nil
}

// ListScenarios returns the scenario files in dir sorted by name.
func ListScenarios(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}

	paths := []string{}
	for _, e := range entries {
		if e.IsDir() || !isYAML(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func validateScenario(sc model.Scenario) error {
	for _, team := range model.Teams {
		for _, s := range sc.Board.Stones(team) {
			if !s.Valid() {
				return fmt.Errorf("%w: %s stone %d has non-finite coordinates", ErrInvalidScenario, team, s.ID)
			}
		}
		for _, z := range sc.BanZones.For(team) {
			if !z.Valid() {
				return fmt.Errorf("%w: %s ban zone needs finite coordinates and a positive radius", ErrInvalidScenario, team)
			}
		}
	}
	for i, d := range sc.Drops {
		if d.Team != model.TeamRed && d.Team != model.TeamYellow {
			return fmt.Errorf("%w: drop %d has unknown team %q", ErrInvalidScenario, i, d.Team)
		}
	}
	return nil
}
