// Package config manages dotlock application settings.
//
// Settings are resolved in three stages: built-in defaults (New),
// DOTLOCK_* environment variables (LoadFromEnvironment), and
// command-line flags bound by the CLI. Finalize validates the result and
// fills in derived values such as the owner pid and the default log file
// location.
package config
