package config

import (
	"context"
	"time"
)

// Config represents the complete configuration for the gantt service.
type Config struct {
	Server     ServerConfig     `koanf:"server"     validate:"required"`
	Data       DataConfig       `koanf:"data"       validate:"required"`
	Runtime    RuntimeConfig    `koanf:"runtime"    validate:"required"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
	RateLimit  RateLimitConfig  `koanf:"ratelimit"`
	CLI        CLIConfig        `koanf:"cli"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"             validate:"required"        env:"SERVER_HOST"`
	Port            int           `koanf:"port"             validate:"min=1,max=65535" env:"SERVER_PORT"`
	StaticDir       string        `koanf:"static_dir"                                  env:"SERVER_STATIC_DIR"`
	ReadTimeout     time.Duration `koanf:"read_timeout"     validate:"min=0"           env:"SERVER_READ_TIMEOUT"`
	WriteTimeout    time.Duration `koanf:"write_timeout"    validate:"min=0"           env:"SERVER_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"     validate:"min=0"           env:"SERVER_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"min=0"           env:"SERVER_SHUTDOWN_TIMEOUT"`
}

// DataConfig describes where task rows come from and which columns hold them.
type DataConfig struct {
	Path    string        `koanf:"path"    validate:"required" env:"DATA_PATH"`
	Columns ColumnsConfig `koanf:"columns"`
}

// ColumnsConfig names the CSV header cells read by the loader.
type ColumnsConfig struct {
	Name  string `koanf:"name"  validate:"required,column_name"  env:"DATA_NAME_COLUMN"`
	Start string `koanf:"start" validate:"required,column_name"  env:"DATA_START_COLUMN"`
	End   string `koanf:"end"   validate:"required,column_name"  env:"DATA_END_COLUMN"`
	Color string `koanf:"color" validate:"omitempty,column_name" env:"DATA_COLOR_COLUMN"`
}

// RuntimeConfig contains runtime behavior configuration.
type RuntimeConfig struct {
	Environment string `koanf:"environment" validate:"oneof=development staging production"  env:"RUNTIME_ENVIRONMENT"`
	LogLevel    string `koanf:"log_level"   validate:"oneof=debug info warn error disabled" env:"RUNTIME_LOG_LEVEL"`
}

// MonitoringConfig toggles the Prometheus endpoint.
type MonitoringConfig struct {
	Enabled bool   `koanf:"enabled" env:"MONITORING_ENABLED"`
	Path    string `koanf:"path"    env:"MONITORING_PATH"    validate:"required,startswith=/"`
}

// RateLimitConfig contains rate limiting configuration.
// Counters live in process memory unless RedisAddr is set.
type RateLimitConfig struct {
	Enabled       bool          `koanf:"enabled"        env:"RATELIMIT_ENABLED"`
	Limit         int64         `koanf:"limit"          env:"RATELIMIT_LIMIT"          validate:"min=0"`
	Period        time.Duration `koanf:"period"         env:"RATELIMIT_PERIOD"         validate:"min=0"`
	RedisAddr     string        `koanf:"redis_addr"     env:"RATELIMIT_REDIS_ADDR"`
	RedisPassword string        `koanf:"redis_password" env:"RATELIMIT_REDIS_PASSWORD"`
	RedisDB       int           `koanf:"redis_db"       env:"RATELIMIT_REDIS_DB"       validate:"min=0"`
}

// CLIConfig contains CLI-specific configuration.
type CLIConfig struct {
	ConfigFile string `koanf:"config_file" env:"GANTT_CONFIG_FILE"`
	EnvFile    string `koanf:"env_file"    env:"GANTT_ENV_FILE"`
	Pretty     bool   `koanf:"pretty"`
}

// Service defines the configuration management service interface.
type Service interface {
	// Load loads configuration from the specified sources with precedence order.
	Load(ctx context.Context, sources ...Source) (*Config, error)
	// Validate checks if the configuration meets all validation requirements.
	Validate(config *Config) error
	// GetSource returns the source type for a specific configuration key.
	GetSource(key string) SourceType
}

// Source defines the interface for configuration sources.
type Source interface {
	// Load reads configuration from the source.
	Load() (map[string]any, error)
	// Watch monitors the source for changes.
	Watch(ctx context.Context, callback func()) error
	// Type returns the source type identifier.
	Type() SourceType
	// Close releases any resources held by the source.
	Close() error
}

// SourceType identifies the type of configuration source.
type SourceType string

const (
	SourceCLI     SourceType = "cli"
	SourceYAML    SourceType = "yaml"
	SourceEnv     SourceType = "env"
	SourceDefault SourceType = "default"
)

// Metadata contains metadata about configuration sources.
type Metadata struct {
	Sources  map[string]SourceType `json:"sources"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// Load loads configuration from defaults and environment using a fresh service.
func Load(ctx context.Context) (*Config, error) {
	return NewService().Load(ctx, NewDefaultProvider(), NewEnvProvider())
}

// Default returns a Config with default values for development.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8000,
			StaticDir:       "frontend/dist",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Data: DataConfig{
			Path: "data/data.csv",
			Columns: ColumnsConfig{
				Name:  "Tasks",
				Start: "Start Date",
				End:   "Completion",
				Color: "Color",
			},
		},
		Runtime: RuntimeConfig{
			Environment: "development",
			LogLevel:    "info",
		},
		Monitoring: MonitoringConfig{
			Enabled: false,
			Path:    "/metrics",
		},
		RateLimit: RateLimitConfig{
			Enabled: false,
			Limit:   100,
			Period:  time.Minute,
		},
		CLI: CLIConfig{
			EnvFile: ".env",
		},
	}
}
