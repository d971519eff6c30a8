package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagoda-notes/pagoda/internal/types"
)

const breakdownPromptTemplate = `You are helping organize a personal knowledge page titled %q.
%s
Break the topic down into a useful starting structure for the page.

Respond with ONLY a JSON array of block objects, no prose. Each object:
  {"kind": "<heading1|heading2|paragraph|todo|bullet>", "content": "<text>", "checked": false}

Rules:
- 4 to 12 blocks
- use heading2 blocks to group related items
- use todo blocks for concrete actionable steps (checked always false)
- use bullet blocks for reference points, paragraph blocks for notes
- never invent other kinds`

// Breakdown asks the model to decompose a title/topic into a candidate
// ordered block list. The result is untrusted: callers hand it to the
// store, which assigns identities and drops invalid kinds.
func (g *Generator) Breakdown(ctx context.Context, title, pageContext string) ([]types.RawBlock, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	contextNote := ""
	if strings.TrimSpace(pageContext) != "" {
		contextNote = fmt.Sprintf("Existing page content for context:\n%s\n", pageContext)
	}
	prompt := fmt.Sprintf(breakdownPromptTemplate, title, contextNote)

	text, err := g.complete(ctx, "breakdown", prompt)
	if err != nil {
		return nil, err
	}

	blocks, err := parseRawBlocks(text)
	if err != nil {
		return nil, fmt.Errorf("parsing breakdown response: %w", err)
	}
	return blocks, nil
}
