package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the converter's configuration: default shape parameters, the
// anchor, and drawing interpretation settings. Command-line flags override
// whatever is loaded here.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Route   RouteConfig   `mapstructure:"route"`
	Anchor  AnchorConfig  `mapstructure:"anchor"`
	Drawing DrawingConfig `mapstructure:"drawing"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type RouteConfig struct {
	// TargetLengthMeters is the total length of the generated route.
	TargetLengthMeters float64 `mapstructure:"target_length_meters"`
	// RotationDegrees rotates the drawing counter-clockwise on the map.
	RotationDegrees float64 `mapstructure:"rotation_degrees"`
	// Stretch widens (>1) or narrows (<1) the drawing horizontally.
	Stretch float64 `mapstructure:"stretch"`
}

type AnchorConfig struct {
	Lat float64 `mapstructure:"lat"`
	Lon float64 `mapstructure:"lon"`
}

type DrawingConfig struct {
	// Tolerance is the absolute curve flattening tolerance in drawing
	// units. Zero derives the tolerance from tolerance_ratio.
	Tolerance float64 `mapstructure:"tolerance"`
	// ToleranceRatio is the flattening tolerance relative to the drawing's
	// larger bounding-box dimension.
	ToleranceRatio float64 `mapstructure:"tolerance_ratio"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("route.target_length_meters", 1000.0)
	v.SetDefault("route.rotation_degrees", 0.0)
	v.SetDefault("route.stretch", 1.0)
	v.SetDefault("anchor.lat", 0.0)
	v.SetDefault("anchor.lon", 0.0)
	v.SetDefault("drawing.tolerance", 0.0)
	v.SetDefault("drawing.tolerance_ratio", 0.0)

	// Config file (optional)
	v.SetConfigName("trace")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: TRACE_ROUTE_TARGET_LENGTH_METERS → route.target_length_meters
	v.SetEnvPrefix("TRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that configuration fields are sane. The transform and
// projection validate their own inputs too; checking here reports mistakes
// with the config key that caused them.
func (c *Config) Validate() error {
	var errs []string

	if c.Route.TargetLengthMeters <= 0 {
		errs = append(errs, fmt.Sprintf("route.target_length_meters must be positive, got %g", c.Route.TargetLengthMeters))
	}
	if c.Route.Stretch <= 0 {
		errs = append(errs, fmt.Sprintf("route.stretch must be positive, got %g", c.Route.Stretch))
	}
	if c.Anchor.Lat < -90 || c.Anchor.Lat > 90 {
		errs = append(errs, fmt.Sprintf("anchor.lat must be in [-90, 90], got %g", c.Anchor.Lat))
	}
	if c.Anchor.Lon < -180 || c.Anchor.Lon > 180 {
		errs = append(errs, fmt.Sprintf("anchor.lon must be in [-180, 180], got %g", c.Anchor.Lon))
	}
	if c.Drawing.Tolerance < 0 {
		errs = append(errs, fmt.Sprintf("drawing.tolerance must not be negative, got %g", c.Drawing.Tolerance))
	}
	if c.Drawing.ToleranceRatio < 0 {
		errs = append(errs, fmt.Sprintf("drawing.tolerance_ratio must not be negative, got %g", c.Drawing.ToleranceRatio))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
