// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Ranking  RankingConfig  `mapstructure:"ranking"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address     string `mapstructure:"address"`
	OpsAddress  string `mapstructure:"ops_address"`  // serves /metrics and /debug/pprof
	ReadTimeout int    `mapstructure:"read_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RankingConfig holds the SmartMatch engine settings. An empty RemoteURL
// means no remote ranking service is configured and every request is
// ranked locally.
type RankingConfig struct {
	RemoteURL      string  `mapstructure:"remote_url"`
	RemoteTimeout  int     `mapstructure:"remote_timeout"` // milliseconds, hard cutoff
	LatencyBudget  int     `mapstructure:"latency_budget"` // milliseconds, warn-only
	MaxResults     int     `mapstructure:"max_results"`
	PriceWeight    float64 `mapstructure:"price_weight"`    // default when the caller omits it
	DistanceWeight float64 `mapstructure:"distance_weight"` // default when the caller omits it
	StatsCacheTTL  int     `mapstructure:"stats_cache_ttl"` // milliseconds
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	TracingEnabled bool    `mapstructure:"tracing_enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
