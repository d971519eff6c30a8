// Package progress derives a page's completion percentage from the todo
// blocks it contains.
package progress

import (
	"math"

	"github.com/pagoda-notes/pagoda/internal/types"
)

// Compute derives the completion percentage for a block list as
// round(100 * checked todos / total todos), using round-half-up.
//
// The second return value reports whether the list contains any todo
// blocks at all. When it is false the caller must keep the page's
// existing progress value: a page with no todos is never forced back to
// zero, so a manually set percentage survives block edits.
func Compute(blocks []types.Block) (int, bool) {
	var total, done int
	for i := range blocks {
		if blocks[i].Kind != types.BlockTodo {
			continue
		}
		total++
		if blocks[i].Checked {
			done++
		}
	}
	if total == 0 {
		return 0, false
	}
	return int(math.Round(100 * float64(done) / float64(total))), true
}
