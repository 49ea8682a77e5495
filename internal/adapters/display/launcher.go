package display

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ShowCommand is the subcommand that displays a quote.
const ShowCommand = "show"

// LauncherConfig configures an ExecLauncher.
type LauncherConfig struct {
	// Command is split on whitespace. Empty runs this executable with
	// GlobalArgs followed by ShowCommand.
	Command string

	// GlobalArgs go before ShowCommand when the default command is used,
	// for example the config profile flag.
	GlobalArgs []string

	// Stdout and Stderr receive the child's output. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer

	Logger *slog.Logger
}

// ExecLauncher starts the display as a child process and waits for it.
// Implements ports.Launcher.
type ExecLauncher struct {
	argv   []string
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// NewExecLauncher resolves the command line to run.
func NewExecLauncher(cfg LauncherConfig) (*ExecLauncher, error) {
	argv := strings.Fields(cfg.Command)
	if len(argv) == 0 {
		self, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locating executable: %w", err)
		}
		argv = append(append([]string{self}, cfg.GlobalArgs...), ShowCommand)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ExecLauncher{
		argv:   argv,
		stdout: cfg.Stdout,
		stderr: cfg.Stderr,
		logger: logger.With(slog.String("component", "display.ExecLauncher")),
	}, nil
}

// Args returns the command line the launcher runs.
func (l *ExecLauncher) Args() []string {
	return append([]string(nil), l.argv...)
}

// Launch runs the display command to completion. Failing to start is an
// error. A non-zero exit is logged and ignored, since the display owns its
// own error reporting.
func (l *ExecLauncher) Launch(ctx context.Context) error {
	//nolint:gosec // command comes from local configuration
	cmd := exec.CommandContext(ctx, l.argv[0], l.argv[1:]...)
	cmd.Stdout = l.stdout
	cmd.Stderr = l.stderr

	start := time.Now()
	l.logger.DebugContext(ctx, "launching display", slog.Any("argv", l.argv))

	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		l.logger.DebugContext(ctx, "display finished", slog.Duration("duration", time.Since(start)))
		return nil
	case errors.As(err, &exitErr):
		l.logger.WarnContext(ctx, "display exited with an error",
			slog.Int("exit_code", exitErr.ExitCode()),
			slog.Duration("duration", time.Since(start)))
		return nil
	default:
		return fmt.Errorf("running %s: %w", l.argv[0], err)
	}
}
