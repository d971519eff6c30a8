package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRawBlocksDirectArray(t *testing.T) {
	input := `[{"kind": "heading2", "content": "Steps"}, {"kind": "todo", "content": "start", "checked": false}]`

	blocks, err := parseRawBlocks(input)
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, "heading2", blocks[0].Kind)
	assert.Equal(t, "start", blocks[1].Content)
}

func TestParseRawBlocksEnvelopeObject(t *testing.T) {
	input := `{"blocks": [{"kind": "todo", "content": "x"}]}`

	blocks, err := parseRawBlocks(input)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "todo", blocks[0].Kind)
}

func TestParseRawBlocksCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "json fence",
			input: "```json\n[{\"kind\": \"todo\", \"content\": \"fenced\"}]\n```",
		},
		{
			name:  "bare fence",
			input: "```\n[{\"kind\": \"todo\", \"content\": \"fenced\"}]\n```",
		},
		{
			name:  "fence with surrounding prose",
			input: "Here you go:\n```json\n[{\"kind\": \"todo\", \"content\": \"fenced\"}]\n```\nLet me know!",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := parseRawBlocks(tt.input)
			require.NoError(t, err)
			require.Len(t, blocks, 1)
			assert.Equal(t, "fenced", blocks[0].Content)
		})
	}
}

func TestParseRawBlocksTrailingCommas(t *testing.T) {
	input := `[{"kind": "todo", "content": "x",}, {"kind": "bullet", "content": "y"},]`

	blocks, err := parseRawBlocks(input)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestParseRawBlocksArrayBuriedInProse(t *testing.T) {
	input := `Sure! Here is the structure you asked for:

[{"kind": "heading2", "content": "Plan"}, {"kind": "todo", "content": "draft"}]

Hope that helps.`

	blocks, err := parseRawBlocks(input)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
}

func TestParseRawBlocksEmptyArray(t *testing.T) {
	blocks, err := parseRawBlocks("[]")
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestParseRawBlocksFailures(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty input", input: ""},
		{name: "whitespace only", input: "   \n  "},
		{name: "plain prose", input: "I can't help with that."},
		{name: "truncated array", input: `[{"kind": "todo", "content": "x"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseRawBlocks(tt.input)
			assert.Error(t, err)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcde...", truncate("abcdefgh", 5))
}
