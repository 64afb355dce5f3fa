package translate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/howto-cli/howto/internal/config"
)

// mockCompleter records prompts and returns canned completions.
type mockCompleter struct {
	CompleteFn func(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	calls   int
	systems []string
	users   []string
}

func (m *mockCompleter) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	m.calls++
	m.systems = append(m.systems, systemPrompt)
	m.users = append(m.users, userPrompt)
	if m.CompleteFn != nil {
		return m.CompleteFn(ctx, systemPrompt, userPrompt)
	}
	return "echo mock", nil
}

func TestTranslate(t *testing.T) {
	mock := &mockCompleter{
		CompleteFn: func(ctx context.Context, system, user string) (string, error) {
			return "ls -S\n", nil
		},
	}
	tr := New(mock, config.Default())

	cmd, err := tr.Translate(context.Background(), "list files sorted by size")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if cmd != "ls -S" {
		t.Errorf("Translate = %q, want %q", cmd, "ls -S")
	}
	if mock.calls != 1 {
		t.Errorf("expected 1 API call, got %d", mock.calls)
	}
	if !strings.Contains(mock.users[0], "list files sorted by size") {
		t.Errorf("user prompt does not contain the intent: %q", mock.users[0])
	}
	if !strings.Contains(mock.systems[0], "Operating System") {
		t.Errorf("system prompt does not describe the environment: %q", mock.systems[0])
	}
}

func TestTranslateSanitizesCompletion(t *testing.T) {
	mock := &mockCompleter{
		CompleteFn: func(ctx context.Context, system, user string) (string, error) {
			return "\x1b[1;32mls -la\x1b[0m", nil
		},
	}
	tr := New(mock, config.Default())

	cmd, err := tr.Translate(context.Background(), "list all files")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if cmd != "ls -la" {
		t.Errorf("Translate = %q, want escape sequences stripped", cmd)
	}
}

func TestTranslatePropagatesErrors(t *testing.T) {
	apiErr := errors.New("api unavailable")
	mock := &mockCompleter{
		CompleteFn: func(ctx context.Context, system, user string) (string, error) {
			return "", apiErr
		},
	}
	tr := New(mock, config.Default())

	_, err := tr.Translate(context.Background(), "anything")
	if !errors.Is(err, apiErr) {
		t.Errorf("expected the API error to propagate unchanged, got %v", err)
	}
}

func TestTranslateIncludesDescription(t *testing.T) {
	cfg := config.Default()
	cfg.Description = "Alpine container with busybox tools only"
	mock := &mockCompleter{}
	tr := New(mock, cfg)

	if _, err := tr.Translate(context.Background(), "show memory usage"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if !strings.Contains(mock.systems[0], "Alpine container with busybox tools only") {
		t.Errorf("system prompt missing the configured description: %q", mock.systems[0])
	}
}

func TestRepair(t *testing.T) {
	mock := &mockCompleter{
		CompleteFn: func(ctx context.Context, system, user string) (string, error) {
			return "curl -sL https://example.com", nil
		},
	}
	tr := New(mock, config.Default())

	cmd, err := tr.Repair(context.Background(), "http https://example.com", "command not found: http", "fetch example.com")
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if cmd != "curl -sL https://example.com" {
		t.Errorf("Repair = %q", cmd)
	}

	user := mock.users[0]
	for _, want := range []string{"http https://example.com", "command not found: http", "fetch example.com"} {
		if !strings.Contains(user, want) {
			t.Errorf("repair prompt missing %q:\n%s", want, user)
		}
	}
}

func TestRepairPropagatesErrors(t *testing.T) {
	apiErr := errors.New("rate limited")
	mock := &mockCompleter{
		CompleteFn: func(ctx context.Context, system, user string) (string, error) {
			return "", apiErr
		},
	}
	tr := New(mock, config.Default())

	_, err := tr.Repair(context.Background(), "cmd", "stderr", "intent")
	if !errors.Is(err, apiErr) {
		t.Errorf("expected the API error to propagate unchanged, got %v", err)
	}
}
