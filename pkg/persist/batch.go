package persist

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome of one entity in ApplyAll.
type BatchResult[ID, S comparable] struct {
	ID    ID
	State S
	Err   error
}

// ApplyAll applies event to every distinct id, at most limit at a time
// (limit <= 0 means unbounded). Results keep the order of first appearance.
// Per-entity failures are reported in the results. Entities not attempted
// because ctx ended carry the context error, which is also returned.
func (h *Handler[ID, S, E]) ApplyAll(ctx context.Context, ids []ID, event E, data any, limit int) ([]BatchResult[ID, S], error) {
	seen := make(map[ID]struct{}, len(ids))
	results := make([]BatchResult[ID, S], 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		results = append(results, BatchResult[ID, S]{ID: id})
	}

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i := range results {
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		g.Go(func() error {
			state, err := h.Apply(gctx, results[i].ID, event, data)
			results[i].State = state
			results[i].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return results, ctx.Err()
}
