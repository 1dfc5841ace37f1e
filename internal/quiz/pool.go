package quiz

import (
	"context"
	"fmt"

	"github.com/abhisek/lexiq/internal/store"
)

// build draws count questions from pool. It must run inside tx's
// transaction so that the drawn flags and the returned questions agree.
//
// Entries not yet drawn in the current cycle are shuffled and taken first.
// When the cycle runs out mid-request the pool's flags are reset and the
// draw continues from the new cycle, skipping entries this call already
// took, so one build never repeats an entry. The result is in shuffled
// order.
func (t *Tester) build(ctx context.Context, tx store.EntryRepo, count int, pool store.Pool) ([]Question, error) {
	if count == 0 {
		return nil, nil
	}

	// Checked against the whole pool, before any flag changes: a request
	// that fits the pool can always be met across cycles.
	eligible, err := tx.CountEligible(ctx, pool)
	if err != nil {
		return nil, err
	}
	if count > eligible {
		return nil, fmt.Errorf("%w: %d %s questions requested, pool has %d entries",
			ErrInsufficientEntries, count, pool, eligible)
	}

	var (
		questions = make([]Question, 0, count)
		taken     = make(map[int]bool, count)
		afterNew  bool
	)
	for count > 0 {
		batch, err := tx.FetchUntested(ctx, pool)
		if err != nil {
			return nil, err
		}

		candidates := batch[:0]
		for _, e := range batch {
			if !taken[e.ID] {
				candidates = append(candidates, e)
			}
		}
		if len(candidates) == 0 && afterNew {
			// Only reachable if the pool shrank under us.
			return nil, fmt.Errorf("%w: %s pool exhausted while drawing", ErrInsufficientEntries, pool)
		}

		t.rng.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})

		n := min(count, len(candidates))
		picked := candidates[:n]
		reserved := picked
		if t.cfg.ReserveWholeBatch {
			reserved = candidates
		}
		if err := tx.MarkDrawn(ctx, entryIDs(reserved), pool); err != nil {
			return nil, err
		}

		for _, e := range picked {
			questions = append(questions, newQuestion(e, pool))
			taken[e.ID] = true
		}
		count -= n

		if count > 0 {
			t.log.Debug("rotation cycle exhausted mid-draw", "pool", pool.String(), "remaining", count)
			if err := tx.ResetRotation(ctx, pool); err != nil {
				return nil, err
			}
			afterNew = true
		}
	}
	return questions, nil
}

func entryIDs(entries []*store.Entry) []int {
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	return ids
}
