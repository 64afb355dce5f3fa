package runner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/term"

	"github.com/howto-cli/howto/internal/config"
)

// ErrEmptyCommand is returned when asked to run an empty or whitespace-only
// command. No process is started in that case.
var ErrEmptyCommand = errors.New("refusing to run an empty command")

// Result captures one command execution. A non-zero exit code is not an
// error at this layer - it is data for the caller to act on.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// BackupPrompter asks the user whether the targets of a destructive command
// should be copied aside before it runs.
type BackupPrompter interface {
	ConfirmBackup(command string, targets []string) (bool, error)
}

// Runner executes opaque command strings through the platform shell. This is
// the single place in the program that hands user-confirmed text to the
// command interpreter; no escaping or parsing is attempted.
type Runner struct {
	cfg      config.Config
	prompter BackupPrompter

	// Mirror destinations for live output. Overridable in tests.
	stdout io.Writer
	stderr io.Writer
}

// New creates a runner. prompter may be nil, in which case destructive
// commands run without a backup offer.
func New(cfg config.Config, prompter BackupPrompter) *Runner {
	return &Runner{
		cfg:      cfg,
		prompter: prompter,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
}

// Run executes the command string and captures its output. Stdout and
// stderr are captured separately; when live output is enabled and stdout is
// a terminal they are additionally mirrored to the terminal as they arrive.
func (r *Runner) Run(command string) (Result, error) {
	if strings.TrimSpace(command) == "" {
		return Result{}, ErrEmptyCommand
	}

	r.maybeBackup(command)

	shell, shellArgs := platformShell(command)
	cmd := exec.Command(shell, shellArgs...)
	cmd.Stdin = os.Stdin

	var stdoutBuf, stderrBuf bytes.Buffer
	if r.mirrorLive() {
		cmd.Stdout = io.MultiWriter(r.stdout, &stdoutBuf)
		cmd.Stderr = io.MultiWriter(r.stderr, &stderrBuf)
	} else {
		cmd.Stdout = &stdoutBuf
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()
	result := Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to start command: %w", err)
	}

	return result, nil
}

// maybeBackup offers to copy the targets of a deletion command aside before
// it runs. Declining, prompt errors, and copy failures are all non-fatal:
// a failed backup must never block the main operation.
func (r *Runner) maybeBackup(command string) {
	if r.prompter == nil || !IsDestructive(command) {
		return
	}

	targets := DeletionTargets(command)
	if len(targets) == 0 {
		return
	}

	ok, err := r.prompter.ConfirmBackup(command, targets)
	if err != nil || !ok {
		return
	}

	root, err := r.cfg.BackupRoot()
	if err != nil {
		return
	}
	if dir, err := BackupTargets(root, targets); err == nil {
		fmt.Fprintf(r.stdout, "Backed up to %s\n", dir)
	}
}

func (r *Runner) mirrorLive() bool {
	return r.cfg.LiveOutput && term.IsTerminal(int(os.Stdout.Fd()))
}

// platformShell picks the command interpreter for this OS.
func platformShell(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}
	return shell, []string{"-c", command}
}

// IsDestructive reports whether the command textually begins with a deletion
// operator: "rm" followed by whitespace.
func IsDestructive(command string) bool {
	trimmed := strings.TrimSpace(command)
	return trimmed == "rm" || strings.HasPrefix(trimmed, "rm ") || strings.HasPrefix(trimmed, "rm\t")
}

// DeletionTargets extracts the non-flag arguments of a deletion command.
// Whitespace splitting only; quoted paths with spaces are not reassembled.
func DeletionTargets(command string) []string {
	fields := strings.Fields(strings.TrimSpace(command))
	if len(fields) < 2 || fields[0] != "rm" {
		return nil
	}

	var targets []string
	for _, f := range fields[1:] {
		if strings.HasPrefix(f, "-") {
			continue
		}
		targets = append(targets, f)
	}
	return targets
}
