package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DatabaseConfig holds the connection settings for the Postgres database.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// Duration wraps time.Duration so values like "1h" or "5m" parse from YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", node.Value, err)
	}

	*d = Duration(parsed)

	return nil
}

// Std returns the wrapped standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// PoolConfig holds the connection pool tuning knobs.
type PoolConfig struct {
	MaxConns        int      `yaml:"max_conns"`
	MinConns        int      `yaml:"min_conns"`
	MaxConnLifetime Duration `yaml:"max_conn_lifetime"`
	MaxConnIdleTime Duration `yaml:"max_conn_idle_time"`
}

// HTTPConfig holds the settings for the example HTTP server.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// Config is the top-level configuration for the example application.
type Config struct {
	Mode string         `yaml:"mode"`
	HTTP HTTPConfig     `yaml:"http"`
	DB   DatabaseConfig `yaml:"database"`
	Pool PoolConfig     `yaml:"pool"`
}

// LoadConfig reads and parses the YAML configuration file at the given path.
func LoadConfig(path string) (*Config, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file failed: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}

	if c.DB.Host == "" {
		c.DB.Host = "localhost"
	}

	if c.DB.Port == 0 {
		c.DB.Port = 5432
	}

	if c.DB.SSLMode == "" {
		c.DB.SSLMode = "disable"
	}

	if c.Pool.MaxConns == 0 {
		c.Pool.MaxConns = 8
	}

	if c.Pool.MinConns == 0 {
		c.Pool.MinConns = 2
	}

	if c.Pool.MaxConnLifetime == 0 {
		c.Pool.MaxConnLifetime = Duration(time.Hour)
	}

	if c.Pool.MaxConnIdleTime == 0 {
		c.Pool.MaxConnIdleTime = Duration(time.Minute * 5)
	}
}

// DSN builds the Postgres connection string for this configuration.
func (c *Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DB.Username, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.DBName, c.DB.SSLMode)
}
