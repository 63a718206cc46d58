package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/dotlock/dotlock/internal/config"
	dotlockErrors "github.com/dotlock/dotlock/internal/errors"
	"github.com/dotlock/dotlock/internal/lockfile"
	"github.com/dotlock/dotlock/internal/logger"
)

// errNoValidLock signals that `dotlock check` found no valid lock. It is
// reported through the exit status alone, never printed as an error.
var errNoValidLock = dotlockErrors.New("no valid lock present")

// App is the main dotlock application.
type App struct {
	Config *config.Config
	Logger logger.Logger
	Locker *lockfile.Locker

	// I/O streams
	Stdout io.Writer
	Stderr io.Writer
}

// NewDefaultApp creates an App with standard dependencies.
func NewDefaultApp(versionInfo config.VersionInfo) *App {
	cfg := config.New()
	cfg.VersionInfo = versionInfo

	return &App{
		Config: cfg,
		Locker: lockfile.New(),
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes the CLI with the given arguments and returns the process
// exit code, mapped from the error taxonomy so scripts written against
// dotlockfile(1) keep working.
func (a *App) Run(args []string) int {
	if err := a.Config.LoadFromEnvironment(); err != nil {
		_, _ = fmt.Fprintf(a.Stderr, "dotlock: %v\n", err)
		return dotlockErrors.ExitCode(err)
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.Stdout)
	root.SetErr(a.Stderr)

	err := root.Execute()

	if a.Logger != nil {
		_ = a.Logger.Close()
	}

	if err == nil {
		return dotlockErrors.ExitOK
	}
	if dotlockErrors.Is(err, errNoValidLock) {
		return 1
	}
	_, _ = fmt.Fprintf(a.Stderr, "dotlock: %v\n", err)
	return dotlockErrors.ExitCode(err)
}

// rootCommand builds the cobra command tree. Flags are bound directly to
// the Config, so resolution order is defaults, then environment (already
// applied by Run), then flags.
func (a *App) rootCommand() *cobra.Command {
	cfg := a.Config

	root := &cobra.Command{
		Use:   "dotlock",
		Short: "Cooperative advisory file locking",
		Long: `dotlock coordinates exclusive access to a shared resource between
independent processes by creating and checking a well-known lock file.
It speaks the liblockfile dot-locking protocol and works on shared
filesystems, including NFS.`,
		Version: fmt.Sprintf("%s (%s) built on %s",
			cfg.VersionInfo.Version, cfg.VersionInfo.Commit, cfg.VersionInfo.Date),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := cfg.Finalize(); err != nil {
				return err
			}
			if a.Logger == nil {
				a.Logger = logger.NewWithOutput(cfg.Debug, cfg.LogFile, cfg.Quiet, a.Stdout, a.Stderr)
			}
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "suppress informational output")
	root.PersistentFlags().BoolVar(&cfg.Debug, "debug", cfg.Debug, "enable debug logging")
	root.PersistentFlags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "path to debug log file")

	root.AddCommand(a.lockCommand())
	root.AddCommand(a.unlockCommand())
	root.AddCommand(a.checkCommand())
	root.AddCommand(a.touchCommand())

	return root
}

func (a *App) lockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock <path>",
		Short: "Acquire the lock at <path>",
		Long: `Acquire the lock at <path>, retrying with backoff under contention.
Stale locks left behind by dead owners are detected and reclaimed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			lockPath := args[0]
			a.Logger.Info("acquiring %s (pid %d, retries %d)", lockPath, a.Config.Pid, a.Config.Retries)
			if err := a.Locker.Acquire(lockPath, a.Config.Pid, a.Config.Retries); err != nil {
				a.Logger.Error("failed to acquire %s: %v", lockPath, err)
				return err
			}
			a.Logger.Success("acquired %s", lockPath)
			return nil
		},
	}
	cmd.Flags().IntVarP(&a.Config.Retries, "retries", "r", a.Config.Retries, "total number of tries before giving up")
	cmd.Flags().IntVarP(&a.Config.Pid, "pid", "p", a.Config.Pid, "record this pid as the lock owner (default: current process)")
	return cmd
}

func (a *App) unlockCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <path>",
		Short: "Release the lock at <path>",
		Long:  `Release the lock at <path>. Releasing a lock that is already gone succeeds.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			lockPath := args[0]
			if err := a.Locker.Release(lockPath); err != nil {
				a.Logger.Error("failed to release %s: %v", lockPath, err)
				return err
			}
			a.Logger.Success("released %s", lockPath)
			return nil
		},
	}
}

func (a *App) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <path>",
		Short: "Report whether a valid lock is present at <path>",
		Long:  `Exit 0 if a valid lock is present at <path>, 1 otherwise.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			lockPath := args[0]
			if a.Locker.Valid(lockPath) {
				a.Logger.InfoToUser("%s is locked", lockPath)
				return nil
			}
			a.Logger.InfoToUser("%s is not locked", lockPath)
			return errNoValidLock
		},
	}
}

func (a *App) touchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "touch <path>",
		Short: "Refresh the lock at <path>",
		Long: `Refresh the modification time of the lock at <path> so the stale-lock
age heuristic keeps treating it as held.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			lockPath := args[0]
			if err := a.Locker.Touch(lockPath); err != nil {
				a.Logger.Error("failed to touch %s: %v", lockPath, err)
				return err
			}
			a.Logger.Info("touched %s", lockPath)
			return nil
		},
	}
}
