// Package analyze implements the file-summarization mode: expand patterns,
// read each file, and ask the model for a short summary.
package analyze

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/howto-cli/howto/internal/sanitize"
)

// maxFileBytes caps how much of a file is sent to the model.
const maxFileBytes = 16 * 1024

// Completer is the slice of the API client the analyzer needs.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Summary pairs a file path with the model's description of its contents.
type Summary struct {
	Path string
	Text string
}

// Analyzer summarizes files matched by glob patterns.
type Analyzer struct {
	client Completer
}

// New creates an analyzer backed by the given completer.
func New(client Completer) *Analyzer {
	return &Analyzer{client: client}
}

// Expand resolves the patterns with explicit filesystem matching and returns
// an ordered, de-duplicated set of paths. Shell glob expansion is never
// relied on.
func Expand(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if matches == nil {
			// A literal path with no glob metacharacters still counts if
			// the file exists.
			if _, statErr := os.Stat(pattern); statErr == nil {
				matches = []string{pattern}
			}
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

// Summarize reads each file and asks the model for a summary. Directories
// and unreadable files are skipped with a placeholder summary rather than
// aborting the whole batch.
func (a *Analyzer) Summarize(ctx context.Context, paths []string) ([]Summary, error) {
	var summaries []Summary

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			summaries = append(summaries, Summary{Path: path, Text: fmt.Sprintf("(unreadable: %v)", err)})
			continue
		}
		if info.IsDir() {
			summaries = append(summaries, Summary{Path: path, Text: "(directory, skipped)"})
			continue
		}

		content, err := readCapped(path)
		if err != nil {
			summaries = append(summaries, Summary{Path: path, Text: fmt.Sprintf("(unreadable: %v)", err)})
			continue
		}

		userPrompt := fmt.Sprintf("Summarize the following file in a few sentences.\n\nFile: %s\n\n%s", path, content)
		out, err := a.client.Complete(ctx, buildSystemPrompt(), userPrompt)
		if err != nil {
			return summaries, err
		}

		summaries = append(summaries, Summary{Path: path, Text: sanitize.Strip(out)})
	}

	return summaries, nil
}

func buildSystemPrompt() string {
	return fmt.Sprintf(`You are a helpful assistant that summarizes files for a developer working on %s.

Guidelines:
1. Describe what the file is and what it does, in plain prose
2. Keep the summary to a few sentences
3. Do not quote large portions of the file back`, runtime.GOOS)
}

func readCapped(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if len(data) > maxFileBytes {
		data = data[:maxFileBytes]
	}
	return string(data), nil
}
