// Package config loads application tunables from defaults, an optional file and the environment.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tunables shared across features.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Wing      WingConfig      `mapstructure:"wing"`
	Indicator IndicatorConfig `mapstructure:"indicator"`
	Enrich    EnrichConfig    `mapstructure:"enrich"`
	Vendor    VendorConfig    `mapstructure:"vendor"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port     string `mapstructure:"port"`
	LogLevel string `mapstructure:"log_level"`
	CORS     bool   `mapstructure:"cors"`
}

// WingConfig holds the WING-Score shrinkage constants.
type WingConfig struct {
	EdgeScale     float64 `mapstructure:"edge_scale"`
	VolumeExp     float64 `mapstructure:"volume_exp"`
	MinConfidence float64 `mapstructure:"min_confidence"`
	NewsPerNode   int     `mapstructure:"news_per_node"`
}

// IndicatorConfig holds the lookback and display windows of the indicator endpoints.
type IndicatorConfig struct {
	LookbackDays             int `mapstructure:"lookback_days"`
	DisplayDays              int `mapstructure:"display_days"`
	ForeignPoints            int `mapstructure:"foreign_points"`
	RecommendationWindowDays int `mapstructure:"recommendation_window_days"`
}

// EnrichConfig holds the article body enrichment settings.
type EnrichConfig struct {
	Concurrency int           `mapstructure:"concurrency"`
	BodyTTL     time.Duration `mapstructure:"body_ttl"`
}

// VendorConfig holds settings shared by outbound vendor clients.
type VendorConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables (e.g. WING_EDGE_SCALE) are used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors", false)

	v.SetDefault("wing.edge_scale", 2.5)
	v.SetDefault("wing.volume_exp", 2.0)
	v.SetDefault("wing.min_confidence", 0.15)
	v.SetDefault("wing.news_per_node", 100)

	v.SetDefault("indicator.lookback_days", 120)
	v.SetDefault("indicator.display_days", 30)
	v.SetDefault("indicator.foreign_points", 30)
	v.SetDefault("indicator.recommendation_window_days", 90)

	v.SetDefault("enrich.concurrency", 12)
	v.SetDefault("enrich.body_ttl", "24h")

	v.SetDefault("vendor.timeout", "5s")
}

func (c *Config) validate() error {
	if c.Wing.MinConfidence < 0 || c.Wing.MinConfidence > 1 {
		return fmt.Errorf("wing.min_confidence must be within [0,1], got %v", c.Wing.MinConfidence)
	}
	if c.Wing.NewsPerNode <= 0 {
		return fmt.Errorf("wing.news_per_node must be positive, got %d", c.Wing.NewsPerNode)
	}
	if c.Indicator.LookbackDays <= c.Indicator.DisplayDays {
		return fmt.Errorf("indicator.lookback_days (%d) must exceed indicator.display_days (%d)",
			c.Indicator.LookbackDays, c.Indicator.DisplayDays)
	}
	if c.Enrich.Concurrency <= 0 {
		return fmt.Errorf("enrich.concurrency must be positive, got %d", c.Enrich.Concurrency)
	}
	return nil
}
