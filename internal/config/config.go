// Package config loads and validates service configuration via Viper.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures all service configuration knobs loaded via Viper.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Auth        AuthConfig        `mapstructure:"auth"`
	DB          DBConfig          `mapstructure:"db"`
	Queue       QueueConfig       `mapstructure:"queue"`
	Ingest      IngestConfig      `mapstructure:"ingest"`
	HTTP        HTTPConfig        `mapstructure:"http"`
	Submissions SubmissionsConfig `mapstructure:"submissions"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// AuthConfig defines API authentication toggles.
type AuthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
}

// DBConfig controls access to the relational database.
type DBConfig struct {
	DSN             string `mapstructure:"dsn"`
	MaxConns        int    `mapstructure:"max_conns"`
	MinConns        int    `mapstructure:"min_conns"`
	ConnLifetimeMin int    `mapstructure:"conn_lifetime_minutes"`
}

// QueueConfig sets the path of the pending-URL file.
type QueueConfig struct {
	Path string `mapstructure:"path"`
}

// IngestConfig governs the drain scheduler and its worker pool.
type IngestConfig struct {
	IntervalSeconds int  `mapstructure:"interval_seconds"`
	Workers         int  `mapstructure:"workers"`
	RequeueFailures bool `mapstructure:"requeue_failures"`
}

// HTTPConfig configures outbound page fetches. A zero PerDomainRPS disables
// per-domain throttling.
type HTTPConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	UserAgent      string  `mapstructure:"user_agent"`
	PerDomainRPS   float64 `mapstructure:"per_domain_rps"`
	PerDomainBurst int     `mapstructure:"per_domain_burst"`
}

// SubmissionsConfig filters inbound URL submissions.
type SubmissionsConfig struct {
	BlockedDomains []string `mapstructure:"blocked_domains"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LINKDIR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("db.max_conns", 10)
	v.SetDefault("db.min_conns", 2)
	v.SetDefault("db.conn_lifetime_minutes", 30)
	v.SetDefault("queue.path", "url_queue.txt")
	v.SetDefault("ingest.interval_seconds", 5)
	v.SetDefault("ingest.workers", 10)
	v.SetDefault("ingest.requeue_failures", false)
	v.SetDefault("http.timeout_seconds", 15)
	v.SetDefault("http.user_agent", "linkdir-bot/0.1")
	v.SetDefault("http.per_domain_rps", 1.0)
	v.SetDefault("http.per_domain_burst", 2)
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	if c.DB.DSN == "" {
		return fmt.Errorf("db.dsn must be set")
	}
	if c.Queue.Path == "" {
		return fmt.Errorf("queue.path must be set")
	}
	if c.Ingest.IntervalSeconds <= 0 {
		return fmt.Errorf("ingest.interval_seconds must be > 0")
	}
	if c.Ingest.Workers <= 0 {
		return fmt.Errorf("ingest.workers must be > 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.Auth.Enabled && c.Auth.APIKey == "" {
		return fmt.Errorf("auth.api_key must be set when auth is enabled")
	}
	return nil
}

// DrainInterval returns the scheduler tick as a duration.
func (c Config) DrainInterval() time.Duration {
	return time.Duration(c.Ingest.IntervalSeconds) * time.Second
}

// FetchTimeout returns the outbound fetch budget as a duration.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}
