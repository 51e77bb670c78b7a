package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	sharedConfig "ticketdash/internal/shared/config"
	"ticketdash/internal/shared/utils"
)

const envPrefix = "TICKETDASH"

type Config struct {
	Backend     sharedConfig.BackendConfig     `mapstructure:"backend" yaml:"backend"`
	Polling     sharedConfig.PollingConfig     `mapstructure:"polling" yaml:"polling"`
	Commands    sharedConfig.CommandsConfig    `mapstructure:"commands" yaml:"commands"`
	Logger      sharedConfig.LoggerConfig      `mapstructure:"logger" yaml:"logger"`
	Diagnostics sharedConfig.DiagnosticsConfig `mapstructure:"diagnostics" yaml:"diagnostics"`
	Redis       sharedConfig.RedisConfig       `mapstructure:"redis" yaml:"redis"`
	Mirror      sharedConfig.MirrorConfig      `mapstructure:"mirror" yaml:"mirror"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configuration from an optional .env file, the config file and
// TICKETDASH_* environment variables, in increasing precedence. An empty path
// searches ./configs and ../configs; a missing file there is not an error.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := utils.ValidateStruct(config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

// YAML renders the effective configuration. Secrets are omitted.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "http://localhost:8080/api/tickets")
	v.SetDefault("backend.request_id_header", "X-Request-ID")

	v.SetDefault("polling.status_interval", 5*time.Second)
	v.SetDefault("polling.inventory_interval", 5*time.Second)
	v.SetDefault("polling.sales_interval", 5*time.Second)
	v.SetDefault("polling.logs_interval", 10*time.Second)
	v.SetDefault("polling.request_timeout", time.Duration(0))
	v.SetDefault("polling.sales_history", 720)

	v.SetDefault("commands.max_capacity_limit", 100)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "text")
	v.SetDefault("logger.output_path", "stderr")
	v.SetDefault("logger.source_level", "warn")

	v.SetDefault("diagnostics.enabled", true)
	v.SetDefault("diagnostics.sqlite_path", "ticketdash.db")
	v.SetDefault("diagnostics.retention", 7*24*time.Hour)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.channel_prefix", "ticketdash")

	v.SetDefault("mirror.host", "127.0.0.1")
	v.SetDefault("mirror.port", 8090)
	v.SetDefault("mirror.mode", "release")
	v.SetDefault("mirror.allowed_origins", []string{"http://localhost:3000"})
}
