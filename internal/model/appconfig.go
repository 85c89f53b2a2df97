package model

// AppConfig holds application-wide settings: the sheet geometry the resolver
// runs against, the resolver budget and the service endpoints.
type AppConfig struct {
	Sheet Sheet `json:"sheet" yaml:"sheet" mapstructure:"sheet"`

	// Resolver settings
	MaxIterations    int     `json:"max_iterations" yaml:"max_iterations" mapstructure:"max_iterations"`
	Precision        int     `json:"precision" yaml:"precision" mapstructure:"precision"` // decimals used to compare positions
	DefaultBanRadius float64 `json:"default_ban_radius" yaml:"default_ban_radius" mapstructure:"default_ban_radius"`

	// Application preferences
	ListenAddr      string   `json:"listen_addr" yaml:"listen_addr" mapstructure:"listen_addr"`
	LogLevel        string   `json:"log_level" yaml:"log_level" mapstructure:"log_level"` // "trace", "debug", "info", "warn", "error"
	OutputDir       string   `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`
	RecentScenarios []string `json:"recent_scenarios" yaml:"recent_scenarios" mapstructure:"recent_scenarios"`
}

// DefaultAppConfig returns an AppConfig populated with the reference values.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		Sheet:            DefaultSheet(),
		MaxIterations:    10,
		Precision:        2,
		DefaultBanRadius: 50,
		ListenAddr:       ":4000",
		LogLevel:         "info",
		OutputDir:        ".",
		RecentScenarios:  []string{},
	}
}
