package config

import (
	"fmt"
	"time"
)

const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"

	FlightLocal = "local"
	FlightRedis = "redis"
)

// Backup locates the S3-compatible bucket used by the backup command.
// An empty Bucket disables backups.
type Backup struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Config holds runtime settings for the mood journal CLI.
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
	LogLevel       string
	VerifyOnResume bool

	// CredentialStore selects where the session credentials live: "sqlite"
	// (local database) or "redis".
	CredentialStore string
	RedisAddr       string
	RedisPrefix     string

	// FlightBackend selects the submission guard: "local" or "redis".
	FlightBackend string

	// RateLimit caps outbound requests per second; zero disables the limiter.
	RateLimit float64
	RateBurst int

	// MetricsAddr is the listen address of the /metrics endpoint; empty disables it.
	MetricsAddr string

	Backup Backup
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8000"
	c.DatabasePath = "moodjournal.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
	c.VerifyOnResume = false
	c.CredentialStore = StoreSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisPrefix = "moodjournal:"
	c.FlightBackend = FlightLocal
	c.RateLimit = 5
	c.RateBurst = 10
	c.MetricsAddr = ""
	c.Backup = Backup{Region: "us-east-1"}
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.ServerURL == "" {
		return fmt.Errorf("server url is required")
	}
	switch c.CredentialStore {
	case StoreSQLite, StoreRedis:
	default:
		return fmt.Errorf("unknown credential store %q", c.CredentialStore)
	}
	switch c.FlightBackend {
	case FlightLocal, FlightRedis:
	default:
		return fmt.Errorf("unknown flight backend %q", c.FlightBackend)
	}
	if (c.CredentialStore == StoreRedis || c.FlightBackend == FlightRedis) && c.RedisAddr == "" {
		return fmt.Errorf("redis address is required")
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("negative request timeout %s", c.RequestTimeout)
	}
	return nil
}

// UsesRedis reports whether any component needs a Redis connection.
func (c *Config) UsesRedis() bool {
	return c.CredentialStore == StoreRedis || c.FlightBackend == FlightRedis
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a config file (if given) and command-line flags. Later sources take
// precedence over earlier ones. Invalid input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	return cfg
}
