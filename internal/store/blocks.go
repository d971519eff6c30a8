package store

import (
	"fmt"
	"time"

	"github.com/pagoda-notes/pagoda/internal/events"
	"github.com/pagoda-notes/pagoda/internal/types"
)

// InsertBlockAfter creates an empty paragraph block and splices it
// immediately after afterBlockID in the page's sequence. Returns a copy
// of the new block, or nil when either id is unknown.
func (s *DocumentStore) InsertBlockAfter(pageID, afterBlockID, actor string) *types.Block {
	s.mu.Lock()
	page, ok := s.index[pageID]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	pos := page.BlockIndex(afterBlockID)
	if pos < 0 {
		s.mu.Unlock()
		return nil
	}

	block := types.NewBlock(types.BlockParagraph, "")
	page.Blocks = append(page.Blocks, types.Block{})
	copy(page.Blocks[pos+2:], page.Blocks[pos+1:])
	page.Blocks[pos+1] = block

	s.recalc(page)
	page.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.log.Record(events.Event{
		Type:    events.EventTypeBlockInserted,
		PageID:  pageID,
		BlockID: block.ID,
		Actor:   actor,
	})
	result := block
	return &result
}

// UpdateBlock merges the given fields into the matching block and
// refreshes the page's updated-at timestamp. Unknown ids and unknown
// field names are ignored. Recognized fields:
//
//	"kind"    types.BlockKind or string (must be a valid kind)
//	"content" string
//	"checked" bool (ignored unless the block is a todo)
//
// Changing a todo block to another kind resets its checked flag, since
// checked is only meaningful for todos.
func (s *DocumentStore) UpdateBlock(pageID, blockID string, fields map[string]interface{}, actor string) {
	s.mu.Lock()
	page, ok := s.index[pageID]
	if !ok {
		s.mu.Unlock()
		return
	}
	pos := page.BlockIndex(blockID)
	if pos < 0 {
		s.mu.Unlock()
		return
	}
	block := &page.Blocks[pos]

	for key, value := range fields {
		switch key {
		case "kind":
			if kind, ok := toBlockKind(value); ok {
				block.Kind = kind
				if kind != types.BlockTodo {
					block.Checked = false
				}
			}
		case "content":
			if v, ok := value.(string); ok {
				block.Content = v
			}
		case "checked":
			if v, ok := value.(bool); ok && block.Kind == types.BlockTodo {
				block.Checked = v
			}
		}
	}

	s.recalc(page)
	page.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.log.Record(events.Event{
		Type:    events.EventTypeBlockUpdated,
		PageID:  pageID,
		BlockID: blockID,
		Actor:   actor,
	})
}

// DeleteBlock removes the block from the page unless it is the last one
// remaining: a page always keeps at least one block, and that invariant
// wins over the request.
func (s *DocumentStore) DeleteBlock(pageID, blockID, actor string) {
	s.mu.Lock()
	page, ok := s.index[pageID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if len(page.Blocks) <= 1 {
		s.mu.Unlock()
		return
	}
	pos := page.BlockIndex(blockID)
	if pos < 0 {
		s.mu.Unlock()
		return
	}
	page.Blocks = append(page.Blocks[:pos], page.Blocks[pos+1:]...)

	s.recalc(page)
	page.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.log.Record(events.Event{
		Type:    events.EventTypeBlockDeleted,
		PageID:  pageID,
		BlockID: blockID,
		Actor:   actor,
	})
}

// AppendGeneratedBlocks normalizes externally supplied block
// descriptors and appends them to the end of the page's sequence in
// their given relative order. Returns how many blocks were appended.
//
// Normalization policy: descriptors with an unrecognized kind are
// dropped, not coerced. Every surviving descriptor gets a fresh
// identifier, and checked only survives on todos. If nothing survives
// normalization, or the page id is unknown, the page is left untouched.
func (s *DocumentStore) AppendGeneratedBlocks(pageID string, raw []types.RawBlock, actor string) int {
	blocks := NormalizeRaw(raw)
	if len(blocks) == 0 {
		return 0
	}

	s.mu.Lock()
	page, ok := s.index[pageID]
	if !ok {
		s.mu.Unlock()
		return 0
	}
	page.Blocks = append(page.Blocks, blocks...)

	s.recalc(page)
	page.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.log.Record(events.Event{
		Type:   events.EventTypeBlocksAppended,
		PageID: pageID,
		Actor:  actor,
		Detail: fmt.Sprintf("count=%d", len(blocks)),
	})
	return len(blocks)
}

// NormalizeRaw converts untrusted raw descriptors into blocks with
// fresh identities. Descriptors whose kind is not one of the five valid
// block kinds are dropped.
func NormalizeRaw(raw []types.RawBlock) []types.Block {
	blocks := make([]types.Block, 0, len(raw))
	for _, r := range raw {
		kind := types.BlockKind(r.Kind)
		if !kind.IsValid() {
			continue
		}
		block := types.NewBlock(kind, r.Content)
		if kind == types.BlockTodo {
			block.Checked = r.Checked
		}
		blocks = append(blocks, block)
	}
	return blocks
}

func toBlockKind(value interface{}) (types.BlockKind, bool) {
	switch v := value.(type) {
	case types.BlockKind:
		return v, v.IsValid()
	case string:
		kind := types.BlockKind(v)
		return kind, kind.IsValid()
	}
	return "", false
}
