package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SCAMGUARD_SERVER_HTTP_PORT
const EnvPrefix = "SCAMGUARD"

// Config holds all configuration for the application
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	NATS      NATSConfig      `mapstructure:"nats"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logger    LoggerConfig    `mapstructure:"logger"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Stats     StatsConfig     `mapstructure:"stats"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	Version     string `mapstructure:"version"`
	Debug       bool   `mapstructure:"debug"`
}

// IsProduction reports whether the app runs in the production environment
func (c AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	HTTPPort        int           `mapstructure:"http_port"`
	GRPCPort        int           `mapstructure:"grpc_port"`
	GRPCEnabled     bool          `mapstructure:"grpc_enabled"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	Schema          string        `mapstructure:"schema"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrateOnStart  bool          `mapstructure:"migrate_on_start"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&search_path=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.Schema,
	)
}

type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
	TLS       bool   `mapstructure:"tls"`
	// CounterTTL bounds how long per-day verdict counters live in Redis
	CounterTTL time.Duration `mapstructure:"counter_ttl"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type NATSConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	StreamName    string `mapstructure:"stream_name"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
}

// AuthConfig lists the API keys accepted on protected routes. Protected
// routes are closed when the list is empty.
type AuthConfig struct {
	APIKeys []string `mapstructure:"api_keys"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	TimeFormat string `mapstructure:"time_format"`
}

type AnalysisConfig struct {
	MaxTextBytes     int   `mapstructure:"max_text_bytes"`
	MaxBatchSize     int   `mapstructure:"max_batch_size"`
	BatchConcurrency int   `mapstructure:"batch_concurrency"`
	MaxUploadBytes   int64 `mapstructure:"max_upload_bytes"`
}

type StatsConfig struct {
	RollupEnabled  bool   `mapstructure:"rollup_enabled"`
	RollupSchedule string `mapstructure:"rollup_schedule"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scamguard")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.debug", false)

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.grpc_port", 9090)
	v.SetDefault("server.grpc_enabled", true)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)

	v.SetDefault("database.enabled", false)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "scamguard")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "scamguard")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.schema", "public")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "scamguard:")
	v.SetDefault("redis.tls", false)
	v.SetDefault("redis.counter_ttl", 35*24*time.Hour)

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.stream_name", "SCAMGUARD")
	v.SetDefault("nats.subject_prefix", "scamguard")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 300)

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.requests_per_minute", 60)

	v.SetDefault("auth.api_keys", []string{})

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.time_format", time.RFC3339)

	v.SetDefault("analysis.max_text_bytes", 64*1024)
	v.SetDefault("analysis.max_batch_size", 100)
	v.SetDefault("analysis.batch_concurrency", 5)
	v.SetDefault("analysis.max_upload_bytes", 5<<20)

	v.SetDefault("stats.rollup_enabled", true)
	v.SetDefault("stats.rollup_schedule", "0 5 0 * * *")
}

// Load reads configuration from defaults, an optional file and environment
// variables, in increasing order of precedence. An explicit configPath must
// exist; the search path is optional.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/scamguard")
	}

	// every key has a default, so AutomaticEnv covers nested keys on Unmarshal
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault loads configuration with default path
func LoadDefault() (*Config, error) {
	return Load("")
}

// Validate checks the settings that would otherwise fail late at runtime
func (c *Config) Validate() error {
	var errs []error

	if !validPort(c.Server.HTTPPort) {
		errs = append(errs, fmt.Errorf("server.http_port %d out of range", c.Server.HTTPPort))
	}
	if c.Server.GRPCEnabled {
		if !validPort(c.Server.GRPCPort) {
			errs = append(errs, fmt.Errorf("server.grpc_port %d out of range", c.Server.GRPCPort))
		} else if c.Server.GRPCPort == c.Server.HTTPPort {
			errs = append(errs, errors.New("server.grpc_port must differ from server.http_port"))
		}
	}
	if c.Analysis.MaxTextBytes <= 0 {
		errs = append(errs, errors.New("analysis.max_text_bytes must be positive"))
	}
	if c.Analysis.MaxBatchSize <= 0 {
		errs = append(errs, errors.New("analysis.max_batch_size must be positive"))
	}
	if c.Analysis.BatchConcurrency <= 0 {
		errs = append(errs, errors.New("analysis.batch_concurrency must be positive"))
	}
	if c.Analysis.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("analysis.max_upload_bytes must be positive"))
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		errs = append(errs, errors.New("ratelimit.requests_per_minute must be positive when enabled"))
	}
	if c.Stats.RollupEnabled {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(c.Stats.RollupSchedule); err != nil {
			errs = append(errs, fmt.Errorf("stats.rollup_schedule: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func validPort(p int) bool {
	return p > 0 && p < 65536
}
