package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/pagoda-notes/pagoda/internal/types"
)

// displayTitle is the presentation fallback for pages with no stored title
func displayTitle(p *types.Page) string {
	if strings.TrimSpace(p.Title) == "" {
		return "Untitled"
	}
	return p.Title
}

// currentPage returns a clone of the open page, or an error when no
// selection exists (or it points at a page deleted behind our back).
func (r *REPL) currentPage() (*types.Page, error) {
	if r.currentID == "" {
		return nil, fmt.Errorf("no page open; use 'pages' and 'open <n>'")
	}
	page := r.store.Page(r.currentID)
	if page == nil {
		r.currentID = ""
		return nil, fmt.Errorf("the open page no longer exists")
	}
	return page, nil
}

// cmdPages lists all pages, most recently created first
func (r *REPL) cmdPages(args []string) error {
	pages := r.store.Pages()
	if len(pages) == 0 {
		fmt.Println("No pages yet. Create one with 'new <kind>'.")
		return nil
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Println()
	for i, p := range pages {
		marker := "  "
		if p.ID == r.currentID {
			marker = color.New(color.FgCyan).Sprint("▸ ")
		}
		fmt.Printf("%s%2d. %s %s  %s\n", marker, i+1, p.Emoji, bold(displayTitle(p)),
			dim(fmt.Sprintf("(%s, %d%%, updated %s)", p.Kind, p.Progress, p.UpdatedAt.Format("Jan 2 15:04"))))
	}
	fmt.Println()
	return nil
}

// cmdNewPage creates a page and makes it the open selection
func (r *REPL) cmdNewPage(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: new <project|work|paper|daily_log>")
	}
	kind := types.PageKind(args[0])
	if !kind.IsValid() {
		return fmt.Errorf("unknown page kind %q", args[0])
	}

	page := r.store.CreatePage(kind, UserActor)
	r.currentID = page.ID

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Created %s page %s — now open. Set a title with 'title <text>'.\n",
		green("✓"), kind, page.Emoji)
	return nil
}

// cmdOpen selects a page by its number in the pages listing
func (r *REPL) cmdOpen(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: open <n>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("not a page number: %q", args[0])
	}

	pages := r.store.Pages()
	if n < 1 || n > len(pages) {
		return fmt.Errorf("page %d does not exist (have %d)", n, len(pages))
	}
	r.currentID = pages[n-1].ID
	return r.cmdShow(nil)
}

// cmdShow renders the open page
func (r *REPL) cmdShow(args []string) error {
	page, err := r.currentPage()
	if err != nil {
		return err
	}

	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()
	fmt.Printf("\n%s %s  %s\n", page.Emoji, bold(displayTitle(page)),
		dim(fmt.Sprintf("(%s, %d%% done)", page.Kind, page.Progress)))
	if r.store.IsGenerating(page.ID) {
		fmt.Printf("  %s\n", color.New(color.FgYellow).Sprint("⏳ generation in progress"))
	}
	fmt.Println()

	for i := range page.Blocks {
		fmt.Printf("  %2d. %s\n", i+1, renderBlock(&page.Blocks[i]))
	}
	fmt.Println()
	return nil
}

// renderBlock formats one block for the terminal
func renderBlock(b *types.Block) string {
	switch b.Kind {
	case types.BlockHeading1:
		return color.New(color.Bold, color.Underline).Sprint(b.Content)
	case types.BlockHeading2:
		return color.New(color.Bold).Sprint(b.Content)
	case types.BlockTodo:
		box := "[ ]"
		if b.Checked {
			box = color.New(color.FgGreen).Sprint("[x]")
		}
		return fmt.Sprintf("%s %s", box, b.Content)
	case types.BlockBullet:
		return fmt.Sprintf("• %s", b.Content)
	default:
		return b.Content
	}
}

// cmdTitle sets the open page's title
func (r *REPL) cmdTitle(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: title <text>")
	}
	page, err := r.currentPage()
	if err != nil {
		return err
	}
	r.store.UpdatePage(page.ID, map[string]interface{}{"title": strings.Join(args, " ")}, UserActor)
	return nil
}

// cmdEmoji sets the open page's emoji
func (r *REPL) cmdEmoji(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: emoji <glyph>")
	}
	page, err := r.currentPage()
	if err != nil {
		return err
	}
	r.store.UpdatePage(page.ID, map[string]interface{}{"emoji": args[0]}, UserActor)
	return nil
}

// cmdProgress sets the open page's progress manually. Useful for pages
// without todo blocks; pages with todos recompute on the next mutation.
func (r *REPL) cmdProgress(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: progress <0-100>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 || n > 100 {
		return fmt.Errorf("progress must be an integer from 0 to 100")
	}
	page, err := r.currentPage()
	if err != nil {
		return err
	}
	r.store.UpdatePage(page.ID, map[string]interface{}{"progress": n}, UserActor)
	return nil
}

// cmdDeletePage deletes the open page and clears the selection
func (r *REPL) cmdDeletePage(args []string) error {
	page, err := r.currentPage()
	if err != nil {
		return err
	}
	r.store.DeletePage(page.ID, UserActor)
	r.currentID = ""

	green := color.New(color.FgGreen).SprintFunc()
	fmt.Printf("%s Deleted %q\n", green("✓"), displayTitle(page))
	return nil
}
