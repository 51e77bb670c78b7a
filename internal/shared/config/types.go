package config

import (
	"fmt"
	"time"
)

type BackendConfig struct {
	BaseURL         string `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	RequestIDHeader string `mapstructure:"request_id_header" yaml:"request_id_header"`
}

// PollingConfig holds the per-panel refresh intervals. RequestTimeout of zero means
// a fetch may stay in flight until the poller is cancelled. SalesHistory caps the
// sales series; zero keeps every sample.
type PollingConfig struct {
	StatusInterval    time.Duration `mapstructure:"status_interval" yaml:"status_interval" validate:"gt=0"`
	InventoryInterval time.Duration `mapstructure:"inventory_interval" yaml:"inventory_interval" validate:"gt=0"`
	SalesInterval     time.Duration `mapstructure:"sales_interval" yaml:"sales_interval" validate:"gt=0"`
	LogsInterval      time.Duration `mapstructure:"logs_interval" yaml:"logs_interval" validate:"gt=0"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout" yaml:"request_timeout" validate:"gte=0"`
	SalesHistory      int           `mapstructure:"sales_history" yaml:"sales_history" validate:"gte=0"`
}

type CommandsConfig struct {
	MaxCapacityLimit int `mapstructure:"max_capacity_limit" yaml:"max_capacity_limit" validate:"gt=0"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text json"`
	OutputPath string `mapstructure:"output_path" yaml:"output_path"`
	// SourceLevel is the lowest level that gets a source location attached.
	SourceLevel string `mapstructure:"source_level" yaml:"source_level" validate:"omitempty,oneof=debug info warn warning error"`
}

type DiagnosticsConfig struct {
	Enabled    bool          `mapstructure:"enabled" yaml:"enabled"`
	SQLitePath string        `mapstructure:"sqlite_path" yaml:"sqlite_path" validate:"required_if=Enabled true"`
	Retention  time.Duration `mapstructure:"retention" yaml:"retention" validate:"gte=0"`
}

type RedisConfig struct {
	Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
	Host          string `mapstructure:"host" yaml:"host" validate:"required_if=Enabled true"`
	Port          int    `mapstructure:"port" yaml:"port" validate:"gte=0,lte=65535"`
	Password      string `mapstructure:"password" yaml:"-"`
	DB            int    `mapstructure:"db" yaml:"db" validate:"gte=0"`
	ChannelPrefix string `mapstructure:"channel_prefix" yaml:"channel_prefix"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type MirrorConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port" validate:"gt=0,lte=65535"`
	Mode string `mapstructure:"mode" yaml:"mode" validate:"omitempty,oneof=debug release test"`
	// AllowedOrigins are the browser origins allowed to call the mirror API.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

func (m *MirrorConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", m.Host, m.Port)
}
