package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlockKindIsValid(t *testing.T) {
	valid := []BlockKind{BlockHeading1, BlockHeading2, BlockParagraph, BlockTodo, BlockBullet}
	for _, kind := range valid {
		assert.True(t, kind.IsValid(), "expected %s to be valid", kind)
	}

	invalid := []BlockKind{"", "heading3", "code", "Todo", "HEADING1"}
	for _, kind := range invalid {
		assert.False(t, kind.IsValid(), "expected %s to be invalid", kind)
	}
}

func TestPageKindIsValid(t *testing.T) {
	valid := []PageKind{PageProject, PageWork, PagePaper, PageDailyLog}
	for _, kind := range valid {
		assert.True(t, kind.IsValid(), "expected %s to be valid", kind)
	}

	invalid := []PageKind{"", "journal", "daily-log", "Project"}
	for _, kind := range invalid {
		assert.False(t, kind.IsValid(), "expected %s to be invalid", kind)
	}
}

func TestNewBlockAssignsFreshIDs(t *testing.T) {
	a := NewBlock(BlockParagraph, "one")
	b := NewBlock(BlockParagraph, "one")

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestBlockValidate(t *testing.T) {
	tests := []struct {
		name    string
		block   Block
		wantErr string
	}{
		{
			name:  "valid paragraph",
			block: NewBlock(BlockParagraph, "text"),
		},
		{
			name:  "valid checked todo",
			block: Block{ID: "b1", Kind: BlockTodo, Content: "step", Checked: true},
		},
		{
			name:  "empty content is allowed",
			block: NewBlock(BlockHeading1, ""),
		},
		{
			name:    "missing id",
			block:   Block{Kind: BlockParagraph},
			wantErr: "id is required",
		},
		{
			name:    "invalid kind",
			block:   Block{ID: "b1", Kind: "code"},
			wantErr: "invalid block kind",
		},
		{
			name:    "checked non-todo",
			block:   Block{ID: "b1", Kind: BlockBullet, Checked: true},
			wantErr: "only meaningful for todo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.block.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func validPage() *Page {
	return &Page{
		ID:     NewID(),
		Kind:   PageProject,
		Blocks: []Block{NewBlock(BlockHeading1, "")},
	}
}

func TestPageValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validPage().Validate())
	})

	t.Run("empty block list", func(t *testing.T) {
		page := validPage()
		page.Blocks = nil
		err := page.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least one block")
	})

	t.Run("duplicate block ids", func(t *testing.T) {
		page := validPage()
		page.Blocks = append(page.Blocks, page.Blocks[0])
		err := page.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate block id")
	})

	t.Run("progress out of range", func(t *testing.T) {
		page := validPage()
		page.Progress = 101
		require.Error(t, page.Validate())
		page.Progress = -1
		require.Error(t, page.Validate())
	})

	t.Run("invalid kind", func(t *testing.T) {
		page := validPage()
		page.Kind = "journal"
		require.Error(t, page.Validate())
	})
}

func TestPageClone(t *testing.T) {
	page := validPage()
	page.Title = "original"
	page.Blocks[0].Content = "heading"

	clone := page.Clone()
	require.NotNil(t, clone)

	clone.Title = "changed"
	clone.Blocks[0].Content = "tampered"
	clone.Blocks = append(clone.Blocks, NewBlock(BlockParagraph, "extra"))

	assert.Equal(t, "original", page.Title)
	assert.Equal(t, "heading", page.Blocks[0].Content)
	assert.Len(t, page.Blocks, 1)
}

func TestPageCloneNil(t *testing.T) {
	var page *Page
	assert.Nil(t, page.Clone())
}

func TestPageBlockIndex(t *testing.T) {
	page := validPage()
	second := NewBlock(BlockTodo, "step")
	page.Blocks = append(page.Blocks, second)

	assert.Equal(t, 0, page.BlockIndex(page.Blocks[0].ID))
	assert.Equal(t, 1, page.BlockIndex(second.ID))
	assert.Equal(t, -1, page.BlockIndex("nope"))
}

func TestPageTranscript(t *testing.T) {
	page := validPage()
	page.Blocks[0].Content = "Plan"
	done := NewBlock(BlockTodo, "write draft")
	done.Checked = true
	page.Blocks = append(page.Blocks,
		done,
		NewBlock(BlockTodo, "review"),
		NewBlock(BlockBullet, "reference"),
	)

	transcript := page.Transcript()
	lines := strings.Split(strings.TrimRight(transcript, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "heading1: Plan", lines[0])
	assert.Equal(t, "todo: write draft [done]", lines[1])
	assert.Equal(t, "todo: review [open]", lines[2])
	assert.Equal(t, "bullet: reference", lines[3])
}

func TestDefaultEmoji(t *testing.T) {
	for _, kind := range []PageKind{PageProject, PageWork, PagePaper, PageDailyLog} {
		assert.NotEmpty(t, kind.DefaultEmoji())
	}
}
