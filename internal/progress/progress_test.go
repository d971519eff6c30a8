package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pagoda-notes/pagoda/internal/types"
)

func todo(checked bool) types.Block {
	b := types.NewBlock(types.BlockTodo, "step")
	b.Checked = checked
	return b
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name     string
		blocks   []types.Block
		expected int
		hasTodos bool
	}{
		{
			name:     "no blocks",
			blocks:   nil,
			hasTodos: false,
		},
		{
			name: "no todos",
			blocks: []types.Block{
				types.NewBlock(types.BlockHeading1, "title"),
				types.NewBlock(types.BlockParagraph, "text"),
				types.NewBlock(types.BlockBullet, "point"),
			},
			hasTodos: false,
		},
		{
			name:     "two of three done rounds up to 67",
			blocks:   []types.Block{todo(true), todo(false), todo(true)},
			expected: 67,
			hasTodos: true,
		},
		{
			name:     "one of three done rounds to 33",
			blocks:   []types.Block{todo(true), todo(false), todo(false)},
			expected: 33,
			hasTodos: true,
		},
		{
			name:     "half done rounds half up",
			blocks:   []types.Block{todo(true), todo(false)},
			expected: 50,
			hasTodos: true,
		},
		{
			name:     "one of eight rounds half up to 13",
			blocks:   []types.Block{todo(true), todo(false), todo(false), todo(false), todo(false), todo(false), todo(false), todo(false)},
			expected: 13,
			hasTodos: true,
		},
		{
			name:     "none done",
			blocks:   []types.Block{todo(false), todo(false)},
			expected: 0,
			hasTodos: true,
		},
		{
			name:     "all done",
			blocks:   []types.Block{todo(true), todo(true), todo(true)},
			expected: 100,
			hasTodos: true,
		},
		{
			name: "non-todo blocks don't dilute the percentage",
			blocks: []types.Block{
				types.NewBlock(types.BlockHeading2, "tasks"),
				todo(true),
				types.NewBlock(types.BlockParagraph, "notes"),
				todo(false),
				types.NewBlock(types.BlockBullet, "aside"),
			},
			expected: 50,
			hasTodos: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pct, ok := Compute(tt.blocks)
			assert.Equal(t, tt.hasTodos, ok)
			if tt.hasTodos {
				assert.Equal(t, tt.expected, pct)
			}
		})
	}
}

func TestComputeIsIdempotent(t *testing.T) {
	blocks := []types.Block{todo(true), todo(false), todo(true)}

	first, ok1 := Compute(blocks)
	second, ok2 := Compute(blocks)

	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
}

func TestComputeIgnoresNonTodoOrder(t *testing.T) {
	heading := types.NewBlock(types.BlockHeading1, "h")
	para := types.NewBlock(types.BlockParagraph, "p")
	done := todo(true)
	open := todo(false)

	a, _ := Compute([]types.Block{heading, done, para, open})
	b, _ := Compute([]types.Block{done, open, heading, para})
	c, _ := Compute([]types.Block{para, heading, open, done})

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}
