package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/moodjournal/internal/flagx"
	"github.com/dmitrijs2005/moodjournal/internal/timex"
)

// FileConfig is a DTO used only for decoding config files. Absent keys keep
// the earlier value. Durations go through timex.Duration, so files may use
// "30s" or integer nanoseconds.
type FileConfig struct {
	ServerURL       string         `json:"server_url" toml:"server_url" yaml:"server_url"`
	DatabasePath    string         `json:"database_path" toml:"database_path" yaml:"database_path"`
	RequestTimeout  timex.Duration `json:"request_timeout" toml:"request_timeout" yaml:"request_timeout"`
	LogLevel        string         `json:"log_level" toml:"log_level" yaml:"log_level"`
	VerifyOnResume  *bool          `json:"verify_on_resume" toml:"verify_on_resume" yaml:"verify_on_resume"`
	CredentialStore string         `json:"credential_store" toml:"credential_store" yaml:"credential_store"`
	RedisAddr       string         `json:"redis_addr" toml:"redis_addr" yaml:"redis_addr"`
	RedisPrefix     string         `json:"redis_prefix" toml:"redis_prefix" yaml:"redis_prefix"`
	FlightBackend   string         `json:"flight_backend" toml:"flight_backend" yaml:"flight_backend"`
	RateLimit       *float64       `json:"rate_limit" toml:"rate_limit" yaml:"rate_limit"`
	RateBurst       *int           `json:"rate_burst" toml:"rate_burst" yaml:"rate_burst"`
	MetricsAddr     *string        `json:"metrics_addr" toml:"metrics_addr" yaml:"metrics_addr"`
	Backup          *FileBackup    `json:"backup" toml:"backup" yaml:"backup"`
}

type FileBackup struct {
	Endpoint        string `json:"endpoint" toml:"endpoint" yaml:"endpoint"`
	Region          string `json:"region" toml:"region" yaml:"region"`
	Bucket          string `json:"bucket" toml:"bucket" yaml:"bucket"`
	AccessKeyID     string `json:"access_key_id" toml:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" toml:"secret_access_key" yaml:"secret_access_key"`
}

// parseFile overlays cfg with the file named by -c or -config. The format
// follows the extension: .toml, .yaml/.yml, anything else is JSON.
// Read and decode errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	var fc FileConfig
	var err error

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.DatabasePath, fc.DatabasePath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.CredentialStore, fc.CredentialStore)
	setString(&cfg.RedisAddr, fc.RedisAddr)
	setString(&cfg.RedisPrefix, fc.RedisPrefix)
	setString(&cfg.FlightBackend, fc.FlightBackend)

	if fc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.VerifyOnResume != nil {
		cfg.VerifyOnResume = *fc.VerifyOnResume
	}
	if fc.RateLimit != nil {
		cfg.RateLimit = *fc.RateLimit
	}
	if fc.RateBurst != nil {
		cfg.RateBurst = *fc.RateBurst
	}
	if fc.MetricsAddr != nil {
		cfg.MetricsAddr = *fc.MetricsAddr
	}
	if b := fc.Backup; b != nil {
		setString(&cfg.Backup.Endpoint, b.Endpoint)
		setString(&cfg.Backup.Region, b.Region)
		setString(&cfg.Backup.Bucket, b.Bucket)
		setString(&cfg.Backup.AccessKeyID, b.AccessKeyID)
		setString(&cfg.Backup.SecretAccessKey, b.SecretAccessKey)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
