package config

import (
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v10"

	dotlockErrors "github.com/dotlock/dotlock/internal/errors"
)

// DefaultRetries is the total number of acquisition tries when the
// caller does not say otherwise, matching dotlockfile(1).
const DefaultRetries = 5

// Config holds all dotlock application settings.
type Config struct {
	// Locking behavior
	Retries int `env:"DOTLOCK_RETRIES"`
	Pid     int `env:"DOTLOCK_PID"`

	// User experience
	Quiet bool `env:"DOTLOCK_QUIET"`

	// Debugging
	Debug   bool   `env:"DOTLOCK_DEBUG"`
	LogFile string `env:"DOTLOCK_LOG_FILE"`

	// Build metadata
	VersionInfo VersionInfo `env:"-"`
}

// VersionInfo contains build-time version metadata.
type VersionInfo struct {
	Version string
	Commit  string
	Date    string
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Retries: DefaultRetries,
		Pid:     0, // resolved to the current process in Finalize
		Quiet:   false,
		Debug:   false,
		LogFile: "",

		// Default version info, will be overridden if provided
		VersionInfo: VersionInfo{
			Version: "dev",
			Commit:  "unknown",
			Date:    "unknown",
		},
	}
}

// LoadFromEnvironment updates config from DOTLOCK_* environment variables.
func (c *Config) LoadFromEnvironment() error {
	if err := env.Parse(c); err != nil {
		return dotlockErrors.NewConfigError("environment", nil,
			dotlockErrors.Wrap(dotlockErrors.ErrInvalidConfiguration, err.Error()))
	}
	return nil
}

// Finalize validates and finalizes the configuration.
func (c *Config) Finalize() error {
	if c.Retries < 1 {
		return dotlockErrors.NewConfigError("retries", c.Retries,
			dotlockErrors.Wrap(dotlockErrors.ErrInvalidConfiguration, "at least one try is required"))
	}

	if c.Pid == 0 {
		c.Pid = os.Getpid()
	}
	if c.Pid < 0 {
		return dotlockErrors.NewConfigError("pid", c.Pid,
			dotlockErrors.Wrap(dotlockErrors.ErrInvalidConfiguration, "owner pid must be positive"))
	}

	if c.LogFile == "" {
		c.LogFile = defaultLogFile()
	}

	return nil
}

// defaultLogFile follows the XDG Base Directory Specification, falling
// back to the temp directory when no home directory is available.
func defaultLogFile() string {
	logDir := os.Getenv("XDG_DATA_HOME")
	if logDir == "" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			logDir = filepath.Join(homeDir, ".local", "share")
		} else {
			logDir = os.TempDir()
		}
	}
	return filepath.Join(logDir, "dotlock", "logs", "dotlock.log")
}
