// Package assist coordinates the document store with the content
// generator. It owns the failure contract: a generation call never
// leaves a page in an inconsistent state — worst case the page gains a
// single explanatory paragraph (breakdown) or nothing at all
// (suggestions).
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/pagoda-notes/pagoda/internal/events"
	"github.com/pagoda-notes/pagoda/internal/store"
	"github.com/pagoda-notes/pagoda/internal/types"
)

// GeneratorActor is the actor recorded for generation-driven mutations
const GeneratorActor = "ai-generator"

// nextStepsHeading labels appended suggestions. It is only appended
// when there is at least one suggestion to attach it to.
const nextStepsHeading = "Next steps"

// ContentGenerator is the external capability that proposes block
// content from natural-language prompts. Implemented by ai.Generator;
// the interface lives here so the coordinator can be tested without a
// network.
type ContentGenerator interface {
	Breakdown(ctx context.Context, title, pageContext string) ([]types.RawBlock, error)
	SuggestNextSteps(ctx context.Context, transcript string) ([]types.RawBlock, error)
}

// Assistant runs generation calls against pages
type Assistant struct {
	store *store.DocumentStore
	gen   ContentGenerator
}

// New creates an assistant
func New(s *store.DocumentStore, gen ContentGenerator) (*Assistant, error) {
	if s == nil {
		return nil, fmt.Errorf("store is required")
	}
	if gen == nil {
		return nil, fmt.Errorf("generator is required")
	}
	return &Assistant{store: s, gen: gen}, nil
}

// BreakdownPage asks the generator to decompose the page's title into a
// starting block structure and appends the result. A generation failure
// is recovered by appending one explanatory paragraph instead. Returns
// how many blocks were appended.
//
// Errors are only returned for preconditions that prevent the call from
// going out at all: unknown page, empty title, or a generation already
// in flight for the page. If the page vanishes while the call is
// outstanding, the append silently no-ops.
func (a *Assistant) BreakdownPage(ctx context.Context, pageID string) (int, error) {
	page := a.store.Page(pageID)
	if page == nil {
		return 0, fmt.Errorf("page %s not found", pageID)
	}
	if strings.TrimSpace(page.Title) == "" {
		return 0, fmt.Errorf("page has no title to break down")
	}
	if a.store.IsGenerating(pageID) {
		return 0, fmt.Errorf("generation already in progress for page %s", pageID)
	}

	a.store.MarkGenerating(pageID, true)
	defer a.store.MarkGenerating(pageID, false)
	a.recordStart(pageID, "breakdown")

	raw, err := a.gen.Breakdown(ctx, page.Title, page.Transcript())
	if err != nil {
		raw = []types.RawBlock{{
			Kind:    string(types.BlockParagraph),
			Content: fmt.Sprintf("Couldn't generate a breakdown: %v", err),
		}}
	}

	appended := a.store.AppendGeneratedBlocks(pageID, raw, GeneratorActor)
	a.recordFinish(pageID, "breakdown", appended, err)
	return appended, nil
}

// SuggestNextSteps asks the generator for follow-up todos based on the
// page's current blocks. Non-empty suggestions are appended under a
// "Next steps" heading; an empty result (including any generation
// failure) causes no mutation at all. Returns how many blocks were
// appended, heading included.
func (a *Assistant) SuggestNextSteps(ctx context.Context, pageID string) (int, error) {
	page := a.store.Page(pageID)
	if page == nil {
		return 0, fmt.Errorf("page %s not found", pageID)
	}
	if a.store.IsGenerating(pageID) {
		return 0, fmt.Errorf("generation already in progress for page %s", pageID)
	}

	a.store.MarkGenerating(pageID, true)
	defer a.store.MarkGenerating(pageID, false)
	a.recordStart(pageID, "suggest_next_steps")

	todos, err := a.gen.SuggestNextSteps(ctx, page.Transcript())
	if err != nil || len(todos) == 0 {
		a.recordFinish(pageID, "suggest_next_steps", 0, err)
		return 0, nil
	}

	raw := make([]types.RawBlock, 0, len(todos)+1)
	raw = append(raw, types.RawBlock{
		Kind:    string(types.BlockHeading2),
		Content: nextStepsHeading,
	})
	for _, todo := range todos {
		if types.BlockKind(todo.Kind) != types.BlockTodo {
			continue
		}
		raw = append(raw, todo)
	}
	if len(raw) == 1 {
		// every suggestion was malformed; don't append a bare heading
		a.recordFinish(pageID, "suggest_next_steps", 0, nil)
		return 0, nil
	}

	appended := a.store.AppendGeneratedBlocks(pageID, raw, GeneratorActor)
	a.recordFinish(pageID, "suggest_next_steps", appended, nil)
	return appended, nil
}

func (a *Assistant) recordStart(pageID, operation string) {
	a.store.Log().Record(events.Event{
		Type:   events.EventTypeGenerationStarted,
		PageID: pageID,
		Actor:  GeneratorActor,
		Detail: operation,
	})
}

func (a *Assistant) recordFinish(pageID, operation string, appended int, err error) {
	detail := fmt.Sprintf("%s appended=%d", operation, appended)
	if err != nil {
		detail += fmt.Sprintf(" (generation failed: %v)", err)
	}
	a.store.Log().Record(events.Event{
		Type:   events.EventTypeGenerationFinished,
		PageID: pageID,
		Actor:  GeneratorActor,
		Detail: detail,
	})
}
