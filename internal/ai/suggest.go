package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagoda-notes/pagoda/internal/types"
)

const suggestPromptTemplate = `You are reviewing a personal knowledge page. Its blocks, one per line as "kind: content" (todos annotated [done] or [open]):

%s

Suggest the next concrete steps the author should take. Respond with ONLY a JSON array of todo block objects, no prose:
  [{"kind": "todo", "content": "<actionable step>", "checked": false}]

Rules:
- at most 5 suggestions
- only kind "todo", checked always false
- do not repeat steps already on the page
- an empty array [] is the correct answer when the page needs nothing more`

// SuggestNextSteps asks the model for follow-up todos given a flattened
// transcript of a page's blocks. An empty result is a valid "nothing to
// suggest" answer, not an error. Descriptors that come back with a kind
// other than todo are dropped here: the suggestion contract is
// todo-only.
func (g *Generator) SuggestNextSteps(ctx context.Context, transcript string) ([]types.RawBlock, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("transcript is required")
	}

	prompt := fmt.Sprintf(suggestPromptTemplate, transcript)
	text, err := g.complete(ctx, "suggest_next_steps", prompt)
	if err != nil {
		return nil, err
	}

	blocks, err := parseRawBlocks(text)
	if err != nil {
		return nil, fmt.Errorf("parsing suggestion response: %w", err)
	}

	todos := make([]types.RawBlock, 0, len(blocks))
	for _, b := range blocks {
		if types.BlockKind(b.Kind) != types.BlockTodo {
			continue
		}
		b.Checked = false
		todos = append(todos, b)
	}
	return todos, nil
}
