package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// cmdBreakdown asks the AI to decompose the open page's title into a
// starting block structure
func (r *REPL) cmdBreakdown(args []string) error {
	page, err := r.currentPage()
	if err != nil {
		return err
	}
	if r.assistant == nil {
		return fmt.Errorf("generation unavailable (set ANTHROPIC_API_KEY and restart)")
	}
	if r.store.IsGenerating(page.ID) {
		return fmt.Errorf("generation already in progress for this page")
	}

	fmt.Println("Generating breakdown...")
	appended, err := r.assistant.BreakdownPage(r.ctx, page.ID)
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Appended %d blocks\n", green("✓"), appended)
	return r.cmdShow(nil)
}

// cmdSuggest asks the AI for next-step todos on the open page
func (r *REPL) cmdSuggest(args []string) error {
	page, err := r.currentPage()
	if err != nil {
		return err
	}
	if r.assistant == nil {
		return fmt.Errorf("generation unavailable (set ANTHROPIC_API_KEY and restart)")
	}
	if r.store.IsGenerating(page.ID) {
		return fmt.Errorf("generation already in progress for this page")
	}

	fmt.Println("Thinking about next steps...")
	appended, err := r.assistant.SuggestNextSteps(r.ctx, page.ID)
	if err != nil {
		return err
	}
	if appended == 0 {
		fmt.Println("Nothing to suggest.")
		return nil
	}

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Appended %d blocks\n", green("✓"), appended)
	return r.cmdShow(nil)
}

// cmdActivity shows recent document activity, newest first
func (r *REPL) cmdActivity(args []string) error {
	limit := 15
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("usage: activity [n]")
		}
		limit = n
	}

	recent := r.store.Log().Recent(limit)
	if len(recent) == 0 {
		fmt.Println("No activity yet.")
		return nil
	}

	dim := color.New(color.Faint).SprintFunc()
	fmt.Println()
	for _, ev := range recent {
		line := fmt.Sprintf("%s  %-20s %s", ev.Timestamp.Format("15:04:05"), ev.Type, ev.Actor)
		if ev.Detail != "" {
			line += "  " + ev.Detail
		}
		if page := r.store.Page(ev.PageID); page != nil {
			line += dim("  (" + displayTitle(page) + ")")
		}
		fmt.Println(strings.TrimRight(line, " "))
	}
	fmt.Println()
	return nil
}
