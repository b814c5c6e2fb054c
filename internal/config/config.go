// Package config provides functionality for managing configuration options
// for the client using command-line flags, environment variables and an
// optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"
)

// Options holds the configuration values for the client.
type Options struct {
	// APIURL is the backend REST base URL, including the /api prefix.
	APIURL string `json:"api_url"`

	// SessionFile is where the bearer token is persisted. Empty keeps the
	// session in memory for the lifetime of the process.
	SessionFile string `json:"session_file"`

	// Passphrase enables encrypted session storage when non-empty.
	Passphrase string `json:"-"`

	// SessionDSN selects Postgres-backed session storage when non-empty.
	SessionDSN string `json:"session_dsn"`

	// CAFile is an optional PEM bundle trusted for the backend's TLS certificate.
	CAFile string `json:"ca_file"`

	// Timeout bounds every backend request.
	Timeout time.Duration `json:"-"`

	// LogLevel is the zap level name.
	LogLevel string `json:"log_level"`

	// LogFile receives structured logs; empty means stderr.
	LogFile string `json:"log_file"`

	// Config is the path to the Config file.
	Config string `json:"-"`

	// ShowVersion prints build metadata and exits.
	ShowVersion bool `json:"-"`
}

// fileOptions mirrors the JSON file; Timeout is spelled as a duration string there.
type fileOptions struct {
	*Options
	Timeout string `json:"timeout"`
}

// Parse reads flags from args, then the config file, then environment
// variables, each layer overriding the previous one.
func Parse(args []string) (*Options, error) {
	options := &Options{}

	fs := flag.NewFlagSet("gophstay", flag.ContinueOnError)
	fs.StringVar(&options.APIURL, "url", "http://localhost:8080/api", "backend API base URL")
	fs.StringVar(&options.SessionFile, "session", "", "session file path (empty keeps the session in memory)")
	fs.StringVar(&options.Passphrase, "passphrase", "", "encrypt the session storage with this passphrase")
	fs.StringVar(&options.SessionDSN, "session-dsn", "", "postgres DSN for session storage")
	fs.StringVar(&options.CAFile, "ca", "", "path to CA cert for the backend")
	fs.DurationVar(&options.Timeout, "timeout", 10*time.Second, "request timeout")
	fs.StringVar(&options.LogLevel, "log-level", "info", "log level")
	fs.StringVar(&options.LogFile, "log-file", "", "log file path (default stderr)")
	fs.StringVar(&options.Config, "config", "", "path to config file")
	fs.StringVar(&options.Config, "c", "", "path to config file (shorthand)")
	fs.BoolVar(&options.ShowVersion, "version", false, "show build version and date")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Override flags with environment variables if set
	if configPath := os.Getenv("CONFIG"); configPath != "" {
		options.Config = configPath
	}

	if options.Config != "" {
		if _, err := os.Stat(options.Config); err == nil {
			data, err := os.ReadFile(options.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			fo := fileOptions{Options: options}
			if err := json.Unmarshal(data, &fo); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
			if fo.Timeout != "" {
				d, err := time.ParseDuration(fo.Timeout)
				if err != nil {
					return nil, fmt.Errorf("error while parsing config timeout: %w", err)
				}
				options.Timeout = d
			}
		}
	}

	if v := os.Getenv("API_URL"); v != "" {
		options.APIURL = v
	}
	if v := os.Getenv("SESSION_FILE"); v != "" {
		options.SessionFile = v
	}
	if v := os.Getenv("SESSION_PASSPHRASE"); v != "" {
		options.Passphrase = v
	}
	if v := os.Getenv("SESSION_DSN"); v != "" {
		options.SessionDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		options.LogLevel = v
	}

	return options, nil
}
