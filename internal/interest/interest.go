package interest

import "context"

// Store records directed interest edges. At most one edge exists per ordered
// (from, to) pair; re-expressing interest is an upsert, never a duplicate.
// There is no way to remove an edge.
type Store interface {
	UpsertEdge(ctx context.Context, from, to string) error
	HasEdge(ctx context.Context, from, to string) (bool, error)
}
