package domain

import "context"

type Service interface {
	// Recompute scores every incident of the trailing window and persists
	// the result under the current hour key. An empty window writes
	// nothing, leaving the previous snapshot in place.
	Recompute(ctx context.Context) error
	Latest(ctx context.Context) (Assessment, error)
}
