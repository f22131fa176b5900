package hooks

import (
	"context"
)

// Optimistic describes a mutation that edits a cached value before the
// server confirms it.  S is the cached snapshot type, V the mutation
// variables and R the server result.
type Optimistic[S, V, R any] struct {
	// Key is the cache entry the optimistic result is written to.
	Key string
	// Apply computes the expected post-mutation value from the snapshot.
	// It must not modify the snapshot.
	Apply func(snapshot S, vars V) S
	// Rollback computes the value restored on failure. When nil the
	// snapshot itself is restored, which is what every todo mutation
	// uses; set it only when the restored value must differ from the
	// snapshot.
	Rollback func(snapshot S, vars V) S
	// Mutate performs the server call.
	Mutate func(ctx context.Context, vars V) (R, error)
	// Invalidate lists the key prefixes dropped once the mutation settles.
	Invalidate []string
}

// Run executes the mutation in three phases.  It cancels any fetch of Key
// and snapshots the cached value, writes the optimistic value, then calls
// Mutate.  On failure the rollback value is restored.  Success or not,
// every Invalidate prefix is dropped so the next read refetches.
//
// When nothing is cached under Key no optimistic value is written.
func (o Optimistic[S, V, R]) Run(ctx context.Context, cache Cache, vars V) (R, error) {
	cache.CancelInFlight(o.Key)
	var snapshot S
	raw, cached := cache.Get(o.Key)
	if cached {
		snapshot, cached = raw.(S)
	}
	if cached {
		cache.Set(o.Key, o.Apply(snapshot, vars))
	}

	defer func() {
		for _, prefix := range o.Invalidate {
			cache.Invalidate(prefix)
		}
	}()

	res, err := o.Mutate(ctx, vars)
	if err != nil && cached {
		restored := snapshot
		if o.Rollback != nil {
			restored = o.Rollback(snapshot, vars)
		}
		cache.Set(o.Key, restored)
	}
	return res, err
}
