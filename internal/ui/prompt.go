package ui

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
)

// Prompter collects yes/no answers from the terminal. Declining is always
// the default: only an explicit "y" or "yes" proceeds.
type Prompter struct{}

// NewPrompter creates a terminal prompter.
func NewPrompter() *Prompter {
	return &Prompter{}
}

// Affirmative reports whether a free-text answer means yes. Anything other
// than "y" or "yes" (case-insensitive), including an empty answer, is no.
func Affirmative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// ConfirmRun shows the generated command and asks whether to execute it.
func (p *Prompter) ConfirmRun(command string) (bool, error) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Println("\nGenerated command:")
	fmt.Printf("  %s\n\n", command)

	var answer string
	prompt := &survey.Input{
		Message: "Run this command? [y/N]",
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}

	return Affirmative(answer), nil
}

// ConfirmBackup asks whether to copy the targets of a deletion command aside
// before running it.
func (p *Prompter) ConfirmBackup(command string, targets []string) (bool, error) {
	yellow := color.New(color.FgYellow)
	yellow.Printf("This command deletes: %s\n", strings.Join(targets, ", "))

	var answer string
	prompt := &survey.Input{
		Message: "Back up the targets first? [y/N]",
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}

	return Affirmative(answer), nil
}

// PromptInput asks a free-text question with a default answer.
func PromptInput(message, def string) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

// PromptYesNo asks a yes/no question with a default answer.
func PromptYesNo(message string, def bool) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// ShowSuccess displays a success message
func ShowSuccess(message string) {
	green := color.New(color.FgGreen, color.Bold)
	green.Printf("✓ %s\n", message)
}

// ShowError displays an error message
func ShowError(message string) {
	red := color.New(color.FgRed, color.Bold)
	red.Printf("✗ %s\n", message)
}

// ShowWarning displays a warning message
func ShowWarning(message string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Printf("! %s\n", message)
}

// ShowInfo displays an info message
func ShowInfo(message string) {
	blue := color.New(color.FgBlue)
	blue.Println(message)
}

// ShowSection displays a section header
func ShowSection(title string) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Printf("\n%s\n", title)
}
