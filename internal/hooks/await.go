package hooks

import (
	"context"
	"time"
)

// Await runs query in the background and waits at most d for it.  If the
// deadline passes first, loading is returned and the query keeps running
// detached from ctx so its result lands in the cache for the next read.
// A non-positive d waits for the query.
func Await[T any](ctx context.Context, d time.Duration, loading T, query func(context.Context) T) T {
	if d <= 0 {
		return query(ctx)
	}
	done := make(chan T, 1)
	bg := context.WithoutCancel(ctx)
	go func() { done <- query(bg) }()

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case res := <-done:
		return res
	case <-timer.C:
		return loading
	case <-ctx.Done():
		return loading
	}
}
