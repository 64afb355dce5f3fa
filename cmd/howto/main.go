package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/howto-cli/howto/internal/analyze"
	"github.com/howto-cli/howto/internal/api"
	"github.com/howto-cli/howto/internal/config"
	"github.com/howto-cli/howto/internal/history"
	"github.com/howto-cli/howto/internal/loop"
	"github.com/howto-cli/howto/internal/runner"
	"github.com/howto-cli/howto/internal/translate"
	"github.com/howto-cli/howto/internal/ui"
)

var (
	// version is set by goreleaser at build time
	version = "dev"

	// CLI flags
	copyEntry    int
	historyLimit int

	// exitCode is the code the process ends with; failures handled inside
	// a RunE set it instead of returning an error so cobra does not print
	// usage on top of the diagnostic.
	exitCode int
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "howto [request]",
		Short:   "Natural language interface for your terminal",
		Long:    "howto translates natural language into shell commands using an LLM, confirms before running, and offers one automatic fix when a command fails",
		Version: version,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runRequest,
	}

	configureCmd := &cobra.Command{
		Use:   "configure",
		Short: "Write the howto configuration file interactively",
		RunE:  runConfigure,
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List past requests and the commands they produced",
		RunE:  runHistory,
	}
	historyCmd.Flags().IntVarP(&copyEntry, "copy", "c", 0, "Copy the command of the given entry id to the clipboard")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "How many entries to show")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [pattern]...",
		Short: "Summarize the files matching the given glob patterns",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAnalyze,
	}

	rootCmd.AddCommand(configureCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(analyzeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func runRequest(cmd *cobra.Command, args []string) error {
	intent := strings.Join(args, " ")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	key, err := api.ResolveKey(cfg)
	if err != nil {
		ui.ShowError(err.Error())
		exitCode = 1
		return nil
	}

	prompter := ui.NewPrompter()
	client := api.New(cfg, key)
	translator := translate.New(client, cfg)
	run := runner.New(cfg, prompter)

	var recorder loop.Recorder
	store, err := history.Open()
	if err != nil {
		ui.ShowWarning(fmt.Sprintf("History unavailable: %v", err))
	} else {
		defer store.Close()
		recorder = store
	}

	l := loop.New(translator, run, prompter, recorder)
	exitCode = l.Run(context.Background(), intent)
	return nil
}

func runConfigure(cmd *cobra.Command, args []string) error {
	ui.ShowSection("howto configuration")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.Model, err = ui.PromptInput("Model:", cfg.Model); err != nil {
		return err
	}
	if cfg.BaseURL, err = ui.PromptInput("API base URL:", cfg.BaseURL); err != nil {
		return err
	}
	if cfg.APIKeyEnv, err = ui.PromptInput("Environment variable holding the API key:", cfg.APIKeyEnv); err != nil {
		return err
	}
	if cfg.Description, err = ui.PromptInput("Describe this machine (optional, used in prompts):", cfg.Description); err != nil {
		return err
	}
	if cfg.LiveOutput, err = ui.PromptYesNo("Stream command output live?", cfg.LiveOutput); err != nil {
		return err
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	ui.ShowSuccess(fmt.Sprintf("Configuration saved to %s", configPath))

	if os.Getenv(cfg.APIKeyEnv) == "" {
		ui.ShowWarning(fmt.Sprintf("%s is not set in this shell; howto needs it to reach the API", cfg.APIKeyEnv))
	}

	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := history.Open()
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	if copyEntry > 0 {
		entry, err := store.Get(int64(copyEntry))
		if err != nil {
			ui.ShowError(err.Error())
			exitCode = 1
			return nil
		}
		if err := clipboard.WriteAll(entry.Command); err != nil {
			ui.ShowError(fmt.Sprintf("Failed to copy to clipboard: %v", err))
			exitCode = 1
			return nil
		}
		ui.ShowSuccess("Command copied to clipboard!")
		return nil
	}

	entries, err := store.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(entries) == 0 {
		ui.ShowInfo("No history yet. Try: howto \"list all files\"")
		return nil
	}

	for _, e := range entries {
		status := "not run"
		if e.Executed {
			status = "exit " + strconv.Itoa(e.ExitCode)
			if e.Repaired {
				status += ", repaired"
			}
		}
		fmt.Printf("%4d  %s  %-40q  [%s]\n", e.ID, e.Timestamp.Format("2006-01-02 15:04"), e.Command, status)
		fmt.Printf("      → %s\n", e.Intent)
	}

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	key, err := api.ResolveKey(cfg)
	if err != nil {
		ui.ShowError(err.Error())
		exitCode = 1
		return nil
	}

	paths, err := analyze.Expand(args)
	if err != nil {
		ui.ShowError(err.Error())
		exitCode = 1
		return nil
	}
	if len(paths) == 0 {
		ui.ShowWarning("No files match the given patterns")
		return nil
	}

	analyzer := analyze.New(api.New(cfg, key))

	ui.ShowInfo(fmt.Sprintf("Summarizing %d file(s)...", len(paths)))
	summaries, err := analyzer.Summarize(context.Background(), paths)
	for _, s := range summaries {
		ui.ShowSection(s.Path)
		fmt.Println(s.Text)
	}
	if err != nil {
		ui.ShowError(fmt.Sprintf("Analysis aborted: %v", err))
		exitCode = 1
	}

	return nil
}
