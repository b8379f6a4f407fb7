package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/moodjournal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string   base URL of the journal backend
//	-d string   path of the local sqlite database
//	-t int      request timeout in seconds
//	-l string   log level (debug, info, warn, error)
//	-m string   listen address of the metrics endpoint
//	-verify     confirm stored credentials with the backend on startup
//
// Only these flags are picked out of os.Args, see flagx.FilterArgs.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-t", "-l", "-m", "-verify"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the journal backend")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address, empty to disable")
	fs.BoolVar(&cfg.VerifyOnResume, "verify", cfg.VerifyOnResume, "verify stored credentials on startup")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
