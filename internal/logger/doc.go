// Package logger provides logging for dotlock.
//
// It separates internal debug logging, written as structured records to
// an optional log file, from user-facing output on stdout and stderr.
// The Logger interface lets the CLI swap in a silent implementation for
// tests.
package logger
