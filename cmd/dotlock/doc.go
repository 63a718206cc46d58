// Command dotlock is the command-line interface for the dot-locking
// protocol.
//
// It exposes four subcommands — lock, unlock, check and touch — over the
// internal/lockfile package, and maps every failure onto the
// liblockfile-compatible exit-code table so it can stand in for
// dotlockfile(1) in scripts.
package main
