// Package loop implements the confirm/execute/diagnose/repair control flow:
// translate the intent, ask permission, run the command, and on failure offer
// exactly one model-proposed fix.
package loop

import (
	"context"
	"fmt"

	"github.com/howto-cli/howto/internal/history"
	"github.com/howto-cli/howto/internal/runner"
	"github.com/howto-cli/howto/internal/ui"
)

// Translator produces commands from intents and fixes from failures.
type Translator interface {
	Translate(ctx context.Context, intent string) (string, error)
	Repair(ctx context.Context, failedCommand, stderr, intent string) (string, error)
}

// Runner executes a command string and reports its captured output.
type Runner interface {
	Run(command string) (runner.Result, error)
}

// Confirmer asks the user whether a command should run.
type Confirmer interface {
	ConfirmRun(command string) (bool, error)
}

// Recorder persists finished interactions. Recording is best-effort; the
// loop warns on failure and carries on.
type Recorder interface {
	Record(e history.Entry) error
}

// Loop drives one interaction from intent to terminal state.
type Loop struct {
	translator Translator
	runner     Runner
	confirmer  Confirmer
	recorder   Recorder
}

// New creates a loop. recorder may be nil to disable history.
func New(translator Translator, r Runner, confirmer Confirmer, recorder Recorder) *Loop {
	return &Loop{
		translator: translator,
		runner:     r,
		confirmer:  confirmer,
		recorder:   recorder,
	}
}

// Run executes one full interaction and returns the process exit code:
// 0 for success or a declined first command, 1 for API failures, and the
// command's own exit code when execution fails and no repair lands.
func (l *Loop) Run(ctx context.Context, intent string) int {
	ui.ShowInfo("Thinking...")
	command, err := l.translator.Translate(ctx, intent)
	if err != nil {
		ui.ShowError(fmt.Sprintf("Failed to translate request: %v", err))
		return 1
	}

	ok, err := l.confirmer.ConfirmRun(command)
	if err != nil {
		ui.ShowError(fmt.Sprintf("Failed to get confirmation: %v", err))
		return 1
	}
	if !ok {
		// Declining is always safe and silent: nothing ran, nothing failed.
		ui.ShowInfo("Cancelled.")
		l.record(intent, command, false, 0, false)
		return 0
	}

	result, err := l.runner.Run(command)
	if err != nil {
		ui.ShowError(fmt.Sprintf("Failed to run command: %v", err))
		l.record(intent, command, false, 0, false)
		return 1
	}

	if result.ExitCode == 0 {
		l.record(intent, command, true, 0, false)
		return 0
	}

	ui.ShowWarning(fmt.Sprintf("Command failed with exit code %d", result.ExitCode))
	return l.repairCycle(ctx, intent, command, result)
}

// repairCycle runs the single allowed fix attempt. The repaired command gets
// the same confirm/run treatment as the original, but whatever happens next
// is terminal - a failing fix is never fixed again.
func (l *Loop) repairCycle(ctx context.Context, intent, failedCommand string, failed runner.Result) int {
	ui.ShowInfo("Asking for a fix...")
	repaired, err := l.translator.Repair(ctx, failedCommand, failed.Stderr, intent)
	if err != nil {
		ui.ShowError(fmt.Sprintf("Failed to get a fix: %v", err))
		l.record(intent, failedCommand, true, failed.ExitCode, false)
		return 1
	}

	ok, err := l.confirmer.ConfirmRun(repaired)
	if err != nil {
		ui.ShowError(fmt.Sprintf("Failed to get confirmation: %v", err))
		l.record(intent, failedCommand, true, failed.ExitCode, false)
		return 1
	}
	if !ok {
		ui.ShowInfo("Cancelled.")
		l.record(intent, failedCommand, true, failed.ExitCode, false)
		return failed.ExitCode
	}

	result, err := l.runner.Run(repaired)
	if err != nil {
		ui.ShowError(fmt.Sprintf("Failed to run command: %v", err))
		l.record(intent, repaired, false, 0, true)
		return 1
	}

	l.record(intent, repaired, true, result.ExitCode, true)
	if result.ExitCode == 0 {
		return 0
	}

	ui.ShowWarning(fmt.Sprintf("Command failed with exit code %d", result.ExitCode))
	return result.ExitCode
}

func (l *Loop) record(intent, command string, executed bool, exitCode int, repaired bool) {
	if l.recorder == nil {
		return
	}
	entry := history.Entry{
		Intent:   intent,
		Command:  command,
		Executed: executed,
		ExitCode: exitCode,
		Repaired: repaired,
	}
	if err := l.recorder.Record(entry); err != nil {
		ui.ShowWarning(fmt.Sprintf("Failed to save history: %v", err))
	}
}
