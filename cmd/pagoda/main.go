// Command pagoda is a personal knowledge and task-tracking tool:
// pages made of typed blocks, derived progress, and AI-assisted
// planning, all in one terminal session.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pagoda-notes/pagoda/internal/ai"
	"github.com/pagoda-notes/pagoda/internal/assist"
	"github.com/pagoda-notes/pagoda/internal/config"
	"github.com/pagoda-notes/pagoda/internal/events"
	"github.com/pagoda-notes/pagoda/internal/repl"
	"github.com/pagoda-notes/pagoda/internal/store"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pagoda",
	Short: "Pages, blocks, and AI-assisted planning",
	Long: `Pagoda organizes personal notes into pages of typed blocks
(headings, paragraphs, todos, bullets) with derived progress, and can
ask an AI to break topics down or suggest next steps.

Running pagoda with no subcommand starts the interactive shell.
All state lives in memory for the session.`,
	Run: func(cmd *cobra.Command, args []string) {
		runShell()
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive shell",
	Run: func(cmd *cobra.Command, args []string) {
		runShell()
	},
}

func runShell() {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := events.NewLog(cfg.EventLogCapacity)
	docs := store.New(log)

	// Generation is optional: without an API key the shell still works,
	// only the breakdown/suggest commands are disabled.
	var assistant *assist.Assistant
	genCfg, err := cfg.GeneratorConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if gen, err := ai.NewGenerator(genCfg); err == nil {
		assistant, err = assist.New(docs, gen)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Fprintf(os.Stderr, "Note: AI generation disabled: %v\n", err)
	}

	shell, err := repl.New(&repl.Config{Store: docs, Assistant: assistant})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create shell: %v\n", err)
		os.Exit(1)
	}
	if err := shell.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	rootCmd.AddCommand(replCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
