package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store" mapstructure:"store"`
	Scoring  ScoringConfig  `yaml:"scoring" mapstructure:"scoring"`
	Dedupe   DedupeConfig   `yaml:"dedupe" mapstructure:"dedupe"`
	Forecast ForecastConfig `yaml:"forecast" mapstructure:"forecast"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the lead database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// ScoringConfig holds the lead scoring weights. Factor maxima are tuned
// per deployment; the factor categories themselves are fixed. A zero
// value is filled in with defaults by scoring.ConfigOrDefault.
type ScoringConfig struct {
	ProfileMax float64 `yaml:"profile_max" mapstructure:"profile_max"`
	RecencyMax float64 `yaml:"recency_max" mapstructure:"recency_max"`
	SourceMax  float64 `yaml:"source_max" mapstructure:"source_max"`
	StatusMax  float64 `yaml:"status_max" mapstructure:"status_max"`

	// SourceQuality maps a lowercased acquisition channel to a 0-1
	// quality multiplier applied to SourceMax.
	SourceQuality map[string]float64 `yaml:"source_quality" mapstructure:"source_quality"`
	// UnknownSourceQuality applies to channels missing from SourceQuality.
	UnknownSourceQuality float64 `yaml:"unknown_source_quality" mapstructure:"unknown_source_quality"`
}

// DedupeConfig holds duplicate detection probabilities and thresholds.
type DedupeConfig struct {
	EmailProb         float64 `yaml:"email_prob" mapstructure:"email_prob"`
	PhoneProb         float64 `yaml:"phone_prob" mapstructure:"phone_prob"`
	DomainProb        float64 `yaml:"domain_prob" mapstructure:"domain_prob"`
	NameProbMax       float64 `yaml:"name_prob_max" mapstructure:"name_prob_max"`
	NameSimilarityMin float64 `yaml:"name_similarity_min" mapstructure:"name_similarity_min"`
	MinConfidence     float64 `yaml:"min_confidence" mapstructure:"min_confidence"`
	PhoneRegion       string  `yaml:"phone_region" mapstructure:"phone_region"`
}

// ForecastConfig configures pipeline revenue projection.
type ForecastConfig struct {
	MonthlyTarget float64 `yaml:"monthly_target" mapstructure:"monthly_target"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port          int     `yaml:"port" mapstructure:"port"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
	RateBurst     int     `yaml:"rate_burst" mapstructure:"rate_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "leadintel.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_second", 20)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("dedupe.email_prob", 0.97)
	v.SetDefault("dedupe.phone_prob", 0.85)
	v.SetDefault("dedupe.domain_prob", 0.30)
	v.SetDefault("dedupe.name_prob_max", 0.60)
	v.SetDefault("dedupe.name_similarity_min", 0.82)
	v.SetDefault("dedupe.min_confidence", 30)
	v.SetDefault("dedupe.phone_region", "US")
	v.SetDefault("forecast.monthly_target", 0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
