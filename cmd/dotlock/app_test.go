package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotlock/dotlock/internal/config"
	dotlockErrors "github.com/dotlock/dotlock/internal/errors"
	"github.com/dotlock/dotlock/internal/lockfile"
	"github.com/dotlock/dotlock/internal/logger"
)

// newTestApp builds an App with captured output and compressed backoff.
func newTestApp(t *testing.T) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}

	cfg := config.New()
	return &App{
		Config: cfg,
		Logger: logger.NewWithOutput(false, "", false, out, errBuf),
		Locker: lockfile.New(lockfile.WithSleep(func(time.Duration) {})),
		Stdout: out,
		Stderr: errBuf,
	}, out, errBuf
}

func TestLockThenUnlock(t *testing.T) {
	app, out, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "resource.lock")

	code := app.Run([]string{"lock", path})
	require.Equal(t, dotlockErrors.ExitOK, code)
	assert.Contains(t, out.String(), "acquired")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid())+"\n", string(data))

	app2, _, _ := newTestApp(t)
	code = app2.Run([]string{"unlock", path})
	require.Equal(t, dotlockErrors.ExitOK, code)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "unlock must remove the lock file")
}

func TestUnlockMissingIsSuccess(t *testing.T) {
	app, _, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "absent.lock")

	assert.Equal(t, dotlockErrors.ExitOK, app.Run([]string{"unlock", path}))
}

func TestLockContendedExitCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resource.lock")

	// A lock held by pid 1 always looks alive.
	require.NoError(t, os.WriteFile(path, []byte("1\n"), 0o644))

	app, _, errBuf := newTestApp(t)
	code := app.Run([]string{"lock", "--retries", "2", path})

	assert.Equal(t, dotlockErrors.ExitMaxRetries, code)
	assert.Contains(t, errBuf.String(), "dotlock:")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1\n", string(data), "the holder's lock must survive")
}

func TestCheckReportsLockState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resource.lock")

	app, _, _ := newTestApp(t)
	assert.Equal(t, 1, app.Run([]string{"check", path}), "missing lock is not held")

	require.NoError(t, lockfile.Create(path, 1))
	t.Cleanup(func() { _ = lockfile.Remove(path) })

	app2, out, _ := newTestApp(t)
	assert.Equal(t, dotlockErrors.ExitOK, app2.Run([]string{"check", path}))
	assert.Contains(t, out.String(), "is locked")
}

func TestTouchRefreshesLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resource.lock")
	require.NoError(t, os.WriteFile(path, []byte{}, 0o644))
	old := time.Now().Add(-400 * time.Second)
	require.NoError(t, os.Chtimes(path, old, old))

	app, _, _ := newTestApp(t)
	require.Equal(t, dotlockErrors.ExitOK, app.Run([]string{"touch", path}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now(), info.ModTime(), time.Minute)
}

func TestTouchMissingLockFails(t *testing.T) {
	app, _, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "absent.lock")

	assert.Equal(t, dotlockErrors.ExitGeneric, app.Run([]string{"touch", path}))
}

func TestZeroRetriesRejectedByConfig(t *testing.T) {
	app, _, errBuf := newTestApp(t)
	path := filepath.Join(t.TempDir(), "resource.lock")

	code := app.Run([]string{"lock", "--retries", "0", path})

	assert.Equal(t, dotlockErrors.ExitGeneric, code)
	assert.Contains(t, errBuf.String(), "configuration error")

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "rejected run must not touch the filesystem")
}

func TestRetriesFromEnvironment(t *testing.T) {
	t.Setenv("DOTLOCK_RETRIES", "0")

	app, _, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "resource.lock")

	assert.Equal(t, dotlockErrors.ExitGeneric, app.Run([]string{"lock", path}))
}

func TestOwnerPidFlag(t *testing.T) {
	app, _, _ := newTestApp(t)
	path := filepath.Join(t.TempDir(), "resource.lock")

	require.Equal(t, dotlockErrors.ExitOK, app.Run([]string{"lock", "--pid", "54321", path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "54321\n", string(data))
}

func TestUnknownCommand(t *testing.T) {
	app, _, errBuf := newTestApp(t)

	code := app.Run([]string{"frobnicate"})

	assert.NotEqual(t, dotlockErrors.ExitOK, code)
	assert.False(t, strings.Contains(errBuf.String(), "panic"))
}

func TestVersionFlag(t *testing.T) {
	app, out, _ := newTestApp(t)
	app.Config.VersionInfo = config.VersionInfo{Version: "1.2.3", Commit: "abc1234", Date: "today"}

	require.Equal(t, dotlockErrors.ExitOK, app.Run([]string{"--version"}))
	assert.Contains(t, out.String(), "1.2.3")
}
