package repl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/pagoda-notes/pagoda/internal/types"
)

// blockAt resolves a 1-based block number from the show listing to the
// block itself, against a fresh clone of the open page.
func (r *REPL) blockAt(arg string) (*types.Page, *types.Block, error) {
	page, err := r.currentPage()
	if err != nil {
		return nil, nil, err
	}
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, nil, fmt.Errorf("not a block number: %q", arg)
	}
	if n < 1 || n > len(page.Blocks) {
		return nil, nil, fmt.Errorf("block %d does not exist (page has %d)", n, len(page.Blocks))
	}
	return page, &page.Blocks[n-1], nil
}

// cmdAddBlock inserts an empty paragraph after the given block
func (r *REPL) cmdAddBlock(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: add <n>")
	}
	page, block, err := r.blockAt(args[0])
	if err != nil {
		return err
	}
	if r.store.InsertBlockAfter(page.ID, block.ID, UserActor) == nil {
		return fmt.Errorf("insert failed; the page may have changed underneath you")
	}
	return r.cmdShow(nil)
}

// cmdEditBlock replaces a block's content
func (r *REPL) cmdEditBlock(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: edit <n> <text>")
	}
	page, block, err := r.blockAt(args[0])
	if err != nil {
		return err
	}
	content := strings.Join(args[1:], " ")
	r.store.UpdateBlock(page.ID, block.ID, map[string]interface{}{"content": content}, UserActor)
	return nil
}

// cmdBlockKind changes a block's kind
func (r *REPL) cmdBlockKind(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: kind <n> <heading1|heading2|paragraph|todo|bullet>")
	}
	kind := types.BlockKind(args[1])
	if !kind.IsValid() {
		return fmt.Errorf("unknown block kind %q", args[1])
	}
	page, block, err := r.blockAt(args[0])
	if err != nil {
		return err
	}
	r.store.UpdateBlock(page.ID, block.ID, map[string]interface{}{"kind": kind}, UserActor)
	return nil
}

// cmdCheck toggles a todo block's checkbox
func (r *REPL) cmdCheck(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: check <n>")
	}
	page, block, err := r.blockAt(args[0])
	if err != nil {
		return err
	}
	if block.Kind != types.BlockTodo {
		return fmt.Errorf("block %s is a %s, not a todo", args[0], block.Kind)
	}
	r.store.UpdateBlock(page.ID, block.ID, map[string]interface{}{"checked": !block.Checked}, UserActor)

	updated := r.store.Page(page.ID)
	if updated != nil {
		dim := color.New(color.Faint).SprintFunc()
		fmt.Printf("%s\n", dim(fmt.Sprintf("progress: %d%%", updated.Progress)))
	}
	return nil
}

// cmdDeleteBlock removes a block. The store keeps the last block of a
// page no matter what, so deleting it is reported rather than silent.
func (r *REPL) cmdDeleteBlock(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rm <n>")
	}
	page, block, err := r.blockAt(args[0])
	if err != nil {
		return err
	}
	if len(page.Blocks) == 1 {
		return fmt.Errorf("a page always keeps at least one block")
	}
	r.store.DeleteBlock(page.ID, block.ID, UserActor)
	return nil
}
