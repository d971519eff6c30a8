// Package store owns the in-memory page collection and is the single
// mutation entry point for the document model.
//
// Lookup misses and invariant-violating requests are silent no-ops:
// the presentation layer may race a delete against a still-in-flight
// mutation, and absence of effect is the signal. No store operation
// returns an error.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/pagoda-notes/pagoda/internal/events"
	"github.com/pagoda-notes/pagoda/internal/progress"
	"github.com/pagoda-notes/pagoda/internal/types"
)

// DocumentStore holds every page for the lifetime of the process.
// Callers only ever receive deep copies; the owning references never
// leave the store, so invariants cannot be bypassed from outside.
type DocumentStore struct {
	mu         sync.Mutex
	pages      []*types.Page // most-recent-first creation order
	index      map[string]*types.Page
	generating map[string]bool
	log        *events.Log
}

// New creates an empty document store. Mutations are recorded to log;
// a nil log gets replaced with a private one so callers that don't care
// about the activity feed can pass nil.
func New(log *events.Log) *DocumentStore {
	if log == nil {
		log = events.NewLog(0)
	}
	return &DocumentStore{
		index:      make(map[string]*types.Page),
		generating: make(map[string]bool),
		log:        log,
	}
}

// Log returns the event log mutations are recorded to
func (s *DocumentStore) Log() *events.Log {
	return s.log
}

// CreatePage allocates a new page of the given kind, seeded with a
// single empty heading1 block, and puts it at the front of the
// collection. Returns a copy of the new page, or nil if kind is not a
// valid page kind.
func (s *DocumentStore) CreatePage(kind types.PageKind, actor string) *types.Page {
	if !kind.IsValid() {
		return nil
	}

	now := time.Now()
	page := &types.Page{
		ID:        types.NewID(),
		Kind:      kind,
		Emoji:     kind.DefaultEmoji(),
		CreatedAt: now,
		UpdatedAt: now,
		Blocks:    []types.Block{types.NewBlock(types.BlockHeading1, "")},
		Progress:  0,
	}

	s.mu.Lock()
	s.pages = append([]*types.Page{page}, s.pages...)
	s.index[page.ID] = page
	s.mu.Unlock()

	s.log.Record(events.Event{
		Type:   events.EventTypePageCreated,
		PageID: page.ID,
		Actor:  actor,
		Detail: fmt.Sprintf("kind=%s", kind),
	})
	return page.Clone()
}

// Page returns a deep copy of the page with the given id, or nil
func (s *DocumentStore) Page(id string) *types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index[id].Clone()
}

// Pages returns deep copies of every page, most recently created first
func (s *DocumentStore) Pages() []*types.Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Page, len(s.pages))
	for i, p := range s.pages {
		out[i] = p.Clone()
	}
	return out
}

// UpdatePage merges the given fields into the page matching id and
// refreshes its updated-at timestamp. Unknown ids and unknown field
// names are ignored. Recognized fields:
//
//	"title"    string
//	"emoji"    string
//	"progress" int            (manual override; recomputed away if todos exist)
//	"blocks"   []types.Block  (replacement sequence; rejected if it would
//	                           break the never-empty or unique-id invariants)
func (s *DocumentStore) UpdatePage(id string, fields map[string]interface{}, actor string) {
	s.mu.Lock()
	page, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}

	blocksChanged := false
	for key, value := range fields {
		switch key {
		case "title":
			if v, ok := value.(string); ok {
				page.Title = v
			}
		case "emoji":
			if v, ok := value.(string); ok {
				page.Emoji = v
			}
		case "progress":
			if v, ok := toInt(value); ok && v >= 0 && v <= 100 {
				page.Progress = v
			}
		case "blocks":
			if v, ok := value.([]types.Block); ok && validBlockSequence(v) {
				page.Blocks = append([]types.Block(nil), v...)
				blocksChanged = true
			}
		}
	}

	if blocksChanged {
		s.recalc(page)
	}
	page.UpdatedAt = time.Now()
	s.mu.Unlock()

	s.log.Record(events.Event{
		Type:   events.EventTypePageUpdated,
		PageID: id,
		Actor:  actor,
	})
}

// DeletePage removes the page and all its blocks. Unknown id is a no-op.
func (s *DocumentStore) DeletePage(id string, actor string) {
	s.mu.Lock()
	if _, ok := s.index[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.index, id)
	delete(s.generating, id)
	for i, p := range s.pages {
		if p.ID == id {
			s.pages = append(s.pages[:i], s.pages[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.log.Record(events.Event{
		Type:   events.EventTypePageDeleted,
		PageID: id,
		Actor:  actor,
	})
}

// MarkGenerating sets or clears the advisory generation-in-progress
// flag for a page. The flag exists so the presentation layer can refuse
// duplicate submissions; the store does not enforce it as a lock.
// Setting the flag for an unknown page is a no-op; clearing never is.
func (s *DocumentStore) MarkGenerating(pageID string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !active {
		delete(s.generating, pageID)
		return
	}
	if _, ok := s.index[pageID]; ok {
		s.generating[pageID] = true
	}
}

// IsGenerating reports whether a generation call is outstanding for the page
func (s *DocumentStore) IsGenerating(pageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating[pageID]
}

// recalc re-derives the page's progress from its blocks. Pages with no
// todo blocks keep their previous value. Caller must hold s.mu.
func (s *DocumentStore) recalc(page *types.Page) {
	if pct, ok := progress.Compute(page.Blocks); ok {
		page.Progress = pct
	}
}

// validBlockSequence checks a replacement block list against the
// invariants UpdatePage must not break
func validBlockSequence(blocks []types.Block) bool {
	if len(blocks) == 0 {
		return false
	}
	seen := make(map[string]bool, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		if b.ID == "" || !b.Kind.IsValid() || seen[b.ID] {
			return false
		}
		if b.Checked && b.Kind != types.BlockTodo {
			return false
		}
		seen[b.ID] = true
	}
	return true
}

func toInt(value interface{}) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	}
	return 0, false
}
