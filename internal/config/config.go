package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Vector    VectorConfig    `mapstructure:"vector"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// VectorConfig holds vector.fun API configuration. BearerToken is optional;
// when empty, requests go out unauthenticated.
type VectorConfig struct {
	Endpoint       string        `mapstructure:"endpoint"`
	YourProfileID  string        `mapstructure:"your_profile_id"`
	BearerToken    string        `mapstructure:"bearer_token"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// IngestConfig holds ingestion loop configuration
type IngestConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PageSize     int           `mapstructure:"page_size"`
}

// SchedulerConfig holds variance evaluation configuration. StageWaits are the
// chained delays before the 30s, 1m, and 5m horizons.
type SchedulerConfig struct {
	StageWaits   []time.Duration `mapstructure:"stage_waits"`
	WinThreshold float64         `mapstructure:"win_threshold"`
}

// StorageConfig holds persistence configuration
type StorageConfig struct {
	FilePath string `mapstructure:"file_path"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override (e.g. VECTORPULSE_VECTOR_BEARER_TOKEN)
	v.SetEnvPrefix("VECTORPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Vector API defaults
	v.SetDefault("vector.endpoint", "https://mainnet-api.vector.fun/graphql")
	v.SetDefault("vector.timeout", "30s")
	v.SetDefault("vector.max_retries", 3)
	v.SetDefault("vector.retry_delay_base", "1s")
	v.SetDefault("vector.bearer_token", "")

	// Ingestion defaults
	v.SetDefault("ingest.poll_interval", "1s")
	v.SetDefault("ingest.page_size", 10)

	// Scheduler defaults
	v.SetDefault("scheduler.stage_waits", []string{"30s", "30s", "4m"})
	v.SetDefault("scheduler.win_threshold", 25.0)

	// Storage defaults
	v.SetDefault("storage.file_path", "./data/enriched_broadcasts.csv")

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Vector config
	if c.Vector.Endpoint == "" {
		return fmt.Errorf("vector.endpoint is required")
	}
	if c.Vector.YourProfileID == "" {
		return fmt.Errorf("vector.your_profile_id is required")
	}
	if c.Vector.Timeout <= 0 {
		return fmt.Errorf("vector.timeout must be positive")
	}

	// Validate Ingest config
	if c.Ingest.PollInterval <= 0 {
		return fmt.Errorf("ingest.poll_interval must be positive")
	}
	if c.Ingest.PageSize < 1 {
		return fmt.Errorf("ingest.page_size must be at least 1")
	}

	// Validate Scheduler config
	if len(c.Scheduler.StageWaits) != 3 {
		return fmt.Errorf("scheduler.stage_waits must contain exactly 3 durations")
	}
	for i, w := range c.Scheduler.StageWaits {
		if w <= 0 {
			return fmt.Errorf("scheduler.stage_waits[%d] must be positive", i)
		}
	}
	if c.Scheduler.WinThreshold < 0 {
		return fmt.Errorf("scheduler.win_threshold must not be negative")
	}

	// Validate Storage config
	if c.Storage.FilePath == "" {
		return fmt.Errorf("storage.file_path is required")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
