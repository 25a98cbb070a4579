// Why this file: ./config/config.go
// This centralizes configuration for the routing core: router pacing and timeouts,
// delegation monitoring, classifier rule files, audit storage, AI provider and logging.
// Loaded once at process start; the resulting tables are never mutated afterwards.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Router     RouterConfig     `mapstructure:"router"`
	Delegation DelegationConfig `mapstructure:"delegation"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Database   DatabaseConfig   `mapstructure:"database"`
	AI         AIConfig         `mapstructure:"ai"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// AppConfig holds application settings
type AppConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

// RouterConfig holds orchestrator settings
type RouterConfig struct {
	SupportTimeout   time.Duration `mapstructure:"support_timeout"`
	StreamChunkWords int           `mapstructure:"stream_chunk_words"`
	StreamChunkDelay time.Duration `mapstructure:"stream_chunk_delay"`
}

// DelegationConfig holds task delegation settings
type DelegationConfig struct {
	MonitorInterval time.Duration `mapstructure:"monitor_interval"`
}

// ClassifierConfig holds query classifier settings
type ClassifierConfig struct {
	RulesFile string `mapstructure:"rules_file"`
	HotReload bool   `mapstructure:"hot_reload"`
}

// DatabaseConfig holds audit database settings
type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AIConfig holds AI provider settings
type AIConfig struct {
	Provider string         `mapstructure:"provider"`
	OpenAI   ProviderConfig `mapstructure:"openai"`
}

// ProviderConfig holds provider-specific settings
type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from defaults, environment and optional config file
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("app.name", "coachflow")
	v.SetDefault("app.version", "1.0.0")

	v.SetDefault("router.support_timeout", "10s")
	v.SetDefault("router.stream_chunk_words", 4)
	v.SetDefault("router.stream_chunk_delay", "50ms")

	v.SetDefault("delegation.monitor_interval", "30s")

	v.SetDefault("classifier.rules_file", "")
	v.SetDefault("classifier.hot_reload", false)

	v.SetDefault("database.path", "storage/coachflow.db")
	v.SetDefault("database.timeout", "30s")

	v.SetDefault("ai.provider", "openai")
	v.SetDefault("ai.openai.model", "gpt-4-turbo-preview")
	v.SetDefault("ai.openai.max_tokens", 2000)
	v.SetDefault("ai.openai.temperature", 0.3)

	v.SetDefault("logging.level", "info")

	v.SetEnvPrefix("COACHFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
