// Package repl implements the interactive terminal presentation layer.
// It renders pages and blocks and forwards user intents to the document
// store's mutation entry points; it never holds a mutable page
// reference of its own.
package repl

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/pagoda-notes/pagoda/internal/assist"
	"github.com/pagoda-notes/pagoda/internal/store"
)

// UserActor is the actor recorded for REPL-driven mutations
const UserActor = "user"

// CommandHandler handles a specific command
type CommandHandler func(args []string) error

// REPL represents the interactive shell
type REPL struct {
	store     *store.DocumentStore
	assistant *assist.Assistant // nil when generation is unavailable
	rl        *readline.Instance
	ctx       context.Context
	commands  map[string]CommandHandler

	// currentID is the active page selection. Cleared when the page is
	// deleted: the store's no-op policy means a stale selection would
	// otherwise silently swallow every command.
	currentID string
}

// Config holds REPL configuration
type Config struct {
	Store     *store.DocumentStore
	Assistant *assist.Assistant // optional; generation commands degrade without it
}

// New creates a new REPL instance
func New(cfg *Config) (*REPL, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("store is required")
	}

	r := &REPL{
		store:     cfg.Store,
		assistant: cfg.Assistant,
		commands:  make(map[string]CommandHandler),
	}
	r.registerCommands()
	return r, nil
}

// Run starts the REPL loop
func (r *REPL) Run(ctx context.Context) error {
	r.ctx = ctx

	cyan := color.New(color.FgCyan).SprintFunc()
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            cyan("pagoda> "),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()
	r.rl = rl

	r.printWelcome()

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				fmt.Println("\nGoodbye!")
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := r.processInput(line); err != nil {
			if err == io.EOF {
				return nil
			}
			red := color.New(color.FgRed).SprintFunc()
			fmt.Printf("%s %v\n", red("Error:"), err)
		}
	}
}

// processInput processes a single line of input
func (r *REPL) processInput(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	command := parts[0]
	if handler, ok := r.commands[command]; ok {
		return handler(parts[1:])
	}

	yellow := color.New(color.FgYellow).SprintFunc()
	fmt.Printf("%s Unknown command %q. Type 'help' for available commands.\n", yellow("Note:"), command)
	return nil
}

// registerCommands registers all built-in commands
func (r *REPL) registerCommands() {
	r.commands["help"] = r.cmdHelp
	r.commands["?"] = r.cmdHelp
	r.commands["exit"] = r.cmdExit
	r.commands["quit"] = r.cmdExit

	r.commands["pages"] = r.cmdPages
	r.commands["new"] = r.cmdNewPage
	r.commands["open"] = r.cmdOpen
	r.commands["show"] = r.cmdShow
	r.commands["title"] = r.cmdTitle
	r.commands["emoji"] = r.cmdEmoji
	r.commands["progress"] = r.cmdProgress
	r.commands["rmpage"] = r.cmdDeletePage

	r.commands["add"] = r.cmdAddBlock
	r.commands["edit"] = r.cmdEditBlock
	r.commands["kind"] = r.cmdBlockKind
	r.commands["check"] = r.cmdCheck
	r.commands["rm"] = r.cmdDeleteBlock

	r.commands["breakdown"] = r.cmdBreakdown
	r.commands["suggest"] = r.cmdSuggest
	r.commands["activity"] = r.cmdActivity
}

// printWelcome prints the welcome message
func (r *REPL) printWelcome() {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Printf("\n%s\n", cyan("Pagoda"))
	fmt.Println("Personal pages, blocks, and AI-assisted planning")
	fmt.Println()
	fmt.Println("Type 'help' for available commands, 'exit' to quit")
	fmt.Println()
}

// cmdHelp shows help information
func (r *REPL) cmdHelp(args []string) error {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s\n\n", cyan("Available Commands:"))

	commands := []struct {
		name string
		desc string
	}{
		{"pages", "List all pages"},
		{"new <kind>", "Create a page (project|work|paper|daily_log)"},
		{"open <n>", "Open page n from the pages listing"},
		{"show", "Show the open page"},
		{"title <text>", "Set the open page's title"},
		{"emoji <glyph>", "Set the open page's emoji"},
		{"progress <0-100>", "Set progress manually (pages without todos)"},
		{"rmpage", "Delete the open page"},
		{"", ""},
		{"add <n>", "Insert an empty paragraph after block n"},
		{"edit <n> <text>", "Replace block n's content"},
		{"kind <n> <kind>", "Change block n's kind"},
		{"check <n>", "Toggle a todo block's checkbox"},
		{"rm <n>", "Delete block n"},
		{"", ""},
		{"breakdown", "Ask the AI to break the page's title into blocks"},
		{"suggest", "Ask the AI for next-step todos"},
		{"activity [n]", "Show recent document activity"},
		{"", ""},
		{"help, ?", "Show this help message"},
		{"exit, quit", "Exit"},
	}
	for _, cmd := range commands {
		if cmd.name == "" {
			fmt.Println()
			continue
		}
		fmt.Printf("  %-18s %s\n", green(cmd.name), cmd.desc)
	}
	fmt.Println()
	return nil
}

// cmdExit exits the REPL
func (r *REPL) cmdExit(args []string) error {
	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("\n%s Goodbye!\n", green("✓"))
	return io.EOF
}
