package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/piwi3910/KickaEttan/internal/model"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. KICKA_MAX_ITERATIONS or
// KICKA_SHEET_STONE_RADIUS.
const EnvPrefix = "KICKA"

// DefaultConfigDir returns the default directory for application configuration.
// On all platforms this is ~/.kicka/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".kicka")
}

// DefaultConfigPath returns the config file path, taken from KICKA_CONFIG
// when set.
func DefaultConfigPath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(DefaultConfigDir(), "config.json")
}

// SaveAppConfig persists an AppConfig to the given path, as YAML when the
// extension is .yaml or .yml and as JSON otherwise.
// It creates any missing parent directories automatically.
func SaveAppConfig(path string, config model.AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadAppConfig reads an AppConfig from the given JSON or YAML file, applying
// KICKA_* environment overrides on top. Keys missing from the file keep their
// default. If the file does not exist, it returns the defaults (with
// overrides) and no error.
func LoadAppConfig(path string) (model.AppConfig, error) {
	v := newViper()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			return model.AppConfig{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return model.AppConfig{}, err
	}

	var config model.AppConfig
	if err := v.Unmarshal(&config); err != nil {
		return model.AppConfig{}, fmt.Errorf("error decoding config: %w", err)
	}
	// Ensure RecentScenarios is never nil
	if config.RecentScenarios == nil {
		config.RecentScenarios = []string{}
	}
	return config, nil
}

// newViper returns a private viper instance seeded with every default so
// environment overrides resolve for all keys.
func newViper() *viper.Viper {
	v := viper.New()
	d := model.DefaultAppConfig()

	v.SetDefault("sheet.width", d.Sheet.Width)
	v.SetDefault("sheet.stone_radius", d.Sheet.StoneRadius)
	v.SetDefault("sheet.hog_line_offset", d.Sheet.HogLineOffset)
	v.SetDefault("sheet.back_line_offset", d.Sheet.BackLineOffset)
	v.SetDefault("sheet.view_top_offset", d.Sheet.ViewTopOffset)
	v.SetDefault("sheet.hog_line_width", d.Sheet.HogLineWidth)
	v.SetDefault("sheet.house_radius_12", d.Sheet.HouseRadius12)
	v.SetDefault("sheet.house_radius_8", d.Sheet.HouseRadius8)
	v.SetDefault("sheet.house_radius_4", d.Sheet.HouseRadius4)
	v.SetDefault("sheet.button_radius", d.Sheet.ButtonRadius)
	v.SetDefault("sheet.near_house_threshold", d.Sheet.NearHouseThreshold)

	v.SetDefault("max_iterations", d.MaxIterations)
	v.SetDefault("precision", d.Precision)
	v.SetDefault("default_ban_radius", d.DefaultBanRadius)

	v.SetDefault("listen_addr", d.ListenAddr)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("output_dir", d.OutputDir)
	v.SetDefault("recent_scenarios", d.RecentScenarios)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// AddRecentScenario moves path to the front of the recent list, keeping at
// most limit entries.
func AddRecentScenario(config *model.AppConfig, path string, limit int) {
	recent := []string{path}
	for _, p := range config.RecentScenarios {
		if p != path {
			recent = append(recent, p)
		}
	}
	if limit > 0 && len(recent) > limit {
		recent = recent[:limit]
	}
	config.RecentScenarios = recent
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
