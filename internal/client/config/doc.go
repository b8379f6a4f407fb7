// Package config loads runtime configuration for the mood journal CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. The extension picks
//     the format: .toml, .yaml or .yml, anything else is read as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the journal backend
//	-d string   path of the local sqlite database
//	-t int      request timeout (seconds)
//	-l string   log level
//	-m string   metrics listen address
//	-verify     verify stored credentials on startup
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "30s" or integer
// nanoseconds. A JSON example:
//
//	{
//	  "server_url": "https://journal.example.com",
//	  "request_timeout": "30s",
//	  "credential_store": "redis",
//	  "redis_addr": "127.0.0.1:6379",
//	  "flight_backend": "redis",
//	  "backup": {"bucket": "journals", "endpoint": "http://127.0.0.1:9000"}
//	}
//
// The package does not read environment variables; the AWS SDK still picks
// up its usual variables when no backup keys are configured.
package config
