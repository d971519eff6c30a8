// Package types defines the core entities of the document model: pages
// and the typed blocks they contain.
package types

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BlockKind categorizes the content of a block
type BlockKind string

const (
	BlockHeading1  BlockKind = "heading1"
	BlockHeading2  BlockKind = "heading2"
	BlockParagraph BlockKind = "paragraph"
	BlockTodo      BlockKind = "todo"
	BlockBullet    BlockKind = "bullet"
)

// IsValid checks if the block kind value is valid
func (k BlockKind) IsValid() bool {
	switch k {
	case BlockHeading1, BlockHeading2, BlockParagraph, BlockTodo, BlockBullet:
		return true
	}
	return false
}

// Block is the atomic unit of page content. Checked is meaningful only
// when Kind is BlockTodo; it stays false for every other kind.
type Block struct {
	ID      string    `json:"id"`
	Kind    BlockKind `json:"kind"`
	Content string    `json:"content"`
	Checked bool      `json:"checked,omitempty"`
}

// Validate checks if the block has valid field values
func (b *Block) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("block id is required")
	}
	if !b.Kind.IsValid() {
		return fmt.Errorf("invalid block kind: %s", b.Kind)
	}
	if b.Checked && b.Kind != BlockTodo {
		return fmt.Errorf("checked is only meaningful for todo blocks (got %s)", b.Kind)
	}
	return nil
}

// PageKind categorizes a page
type PageKind string

const (
	PageProject  PageKind = "project"
	PageWork     PageKind = "work"
	PagePaper    PageKind = "paper"
	PageDailyLog PageKind = "daily_log"
)

// IsValid checks if the page kind value is valid
func (k PageKind) IsValid() bool {
	switch k {
	case PageProject, PageWork, PagePaper, PageDailyLog:
		return true
	}
	return false
}

// DefaultEmoji returns the glyph a freshly created page of this kind carries
func (k PageKind) DefaultEmoji() string {
	switch k {
	case PageProject:
		return "📁"
	case PageWork:
		return "💼"
	case PagePaper:
		return "📄"
	case PageDailyLog:
		return "📅"
	}
	return "📝"
}

// Page is a titled, ordered container of blocks plus metadata.
//
// Invariants (enforced by the store, checked by Validate):
//   - Blocks is never empty after creation
//   - no two blocks in the same page share an ID
//   - Progress stays within [0,100]
type Page struct {
	ID        string    `json:"id"`
	Kind      PageKind  `json:"kind"`
	Title     string    `json:"title"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Blocks    []Block   `json:"blocks"`
	Progress  int       `json:"progress"`
}

// Validate checks if the page has valid field values
func (p *Page) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("page id is required")
	}
	if !p.Kind.IsValid() {
		return fmt.Errorf("invalid page kind: %s", p.Kind)
	}
	if p.Progress < 0 || p.Progress > 100 {
		return fmt.Errorf("progress must be between 0 and 100 (got %d)", p.Progress)
	}
	if len(p.Blocks) == 0 {
		return fmt.Errorf("page must have at least one block")
	}
	seen := make(map[string]bool, len(p.Blocks))
	for i := range p.Blocks {
		b := &p.Blocks[i]
		if err := b.Validate(); err != nil {
			return fmt.Errorf("block %d: %w", i, err)
		}
		if seen[b.ID] {
			return fmt.Errorf("duplicate block id: %s", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// Clone returns a deep copy of the page. Callers outside the store only
// ever see clones, so nobody can mutate a page behind the store's back.
func (p *Page) Clone() *Page {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Blocks = make([]Block, len(p.Blocks))
	copy(cp.Blocks, p.Blocks)
	return &cp
}

// BlockIndex returns the position of the block with the given id, or -1
func (p *Page) BlockIndex(id string) int {
	for i := range p.Blocks {
		if p.Blocks[i].ID == id {
			return i
		}
	}
	return -1
}

// Transcript flattens the page's blocks into a "kind: content" listing,
// the form the content generator consumes when suggesting next steps.
func (p *Page) Transcript() string {
	var sb strings.Builder
	for i := range p.Blocks {
		b := &p.Blocks[i]
		fmt.Fprintf(&sb, "%s: %s", b.Kind, b.Content)
		if b.Kind == BlockTodo {
			if b.Checked {
				sb.WriteString(" [done]")
			} else {
				sb.WriteString(" [open]")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NewID allocates a fresh opaque identifier for a page or block
func NewID() string {
	return uuid.NewString()
}

// NewBlock creates a block of the given kind with a fresh identifier
func NewBlock(kind BlockKind, content string) Block {
	return Block{
		ID:      NewID(),
		Kind:    kind,
		Content: content,
	}
}

// RawBlock is an externally supplied block description, as produced by
// the content generator. It carries no identity and is untrusted: the
// store normalizes it (fresh id, kind validation) before it becomes a
// Block.
type RawBlock struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Checked bool   `json:"checked,omitempty"`
}
