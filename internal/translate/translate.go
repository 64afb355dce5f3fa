package translate

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/howto-cli/howto/internal/config"
	"github.com/howto-cli/howto/internal/sanitize"
)

// Completer is the slice of the API client the translator needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Translator turns natural-language intents into shell commands, and failed
// commands into corrected ones. API errors propagate unchanged; successful
// completions are sanitized and otherwise returned verbatim.
type Translator struct {
	client Completer
	cfg    config.Config
}

// New creates a translator backed by the given completer.
func New(client Completer, cfg config.Config) *Translator {
	return &Translator{client: client, cfg: cfg}
}

// Translate converts a natural language request into a shell command.
func (t *Translator) Translate(ctx context.Context, intent string) (string, error) {
	userPrompt := fmt.Sprintf(`Convert this request into a shell command: "%s"

IMPORTANT: Respond with ONLY the command itself, nothing else. No explanations, no markdown, no code blocks. Just the raw command.`, intent)

	out, err := t.client.Complete(ctx, t.buildSystemPrompt(), userPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sanitize.Strip(out)), nil
}

// Repair asks for a single corrected command given a failed command, its
// captured stderr, and the original intent. One call per failure; the loop
// never asks to fix a fix.
func (t *Translator) Repair(ctx context.Context, failedCommand, stderr, intent string) (string, error) {
	userPrompt := fmt.Sprintf(`The command below failed. Produce a corrected command that fulfills the original request.

Original request: "%s"
Failed command: %s
Error output:
%s

IMPORTANT: Respond with ONLY the corrected command, nothing else. If a required tool is missing you may chain an installation or use a common fallback tool, e.g. "sudo apt-get install -y jq && jq ." or replacing an uninstalled tool with an equivalent one. No explanations, no markdown, no code blocks.`,
		intent, failedCommand, strings.TrimSpace(stderr))

	out, err := t.client.Complete(ctx, t.buildRepairSystemPrompt(), userPrompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(sanitize.Strip(out)), nil
}

// buildSystemPrompt describes the execution environment so the model picks
// commands that actually exist here.
func (t *Translator) buildSystemPrompt() string {
	osInfo := runtime.GOOS
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	prompt := fmt.Sprintf(`You are a helpful assistant that translates natural language requests into shell commands.

Environment:
- Operating System: %s
- Shell: %s

Guidelines:
1. Generate safe, correct shell commands
2. Use common Unix/Linux utilities when possible
3. Prefer portable commands over OS-specific ones when applicable
4. Return ONLY the command - no explanations, no markdown formatting, no code blocks
5. If the request is ambiguous, make reasonable assumptions for the most common use case`, osInfo, shell)

	if t.cfg.Description != "" {
		prompt += fmt.Sprintf("\n\nAdditional environment notes:\n%s", t.cfg.Description)
	}

	return prompt
}

func (t *Translator) buildRepairSystemPrompt() string {
	osInfo := runtime.GOOS
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "/bin/sh"
	}

	return fmt.Sprintf(`You are a helpful assistant that fixes failed shell commands.

Environment:
- Operating System: %s
- Shell: %s

Given a failed command, its error output, and the user's original request, return a single corrected command. Return ONLY the command - no explanations, no markdown formatting, no code blocks.`, osInfo, shell)
}
