package view_test

import (
	"sync"
	"testing"
	"time"

	"github.com/afoley587/coding-challenges-2025/addressbook/internal/view"
)

type collector struct {
	mu   sync.Mutex
	got  []string
	fire chan struct{}
}

func newCollector() *collector { return &collector{fire: make(chan struct{}, 16)} }

func (c *collector) add(v string) {
	c.mu.Lock()
	c.got = append(c.got, v)
	c.mu.Unlock()
	c.fire <- struct{}{}
}

func (c *collector) values() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.got...)
}

func TestDebouncerCoalesces(t *testing.T) {
	c := newCollector()
	d := view.NewDebouncer(20*time.Millisecond, c.add)
	for _, v := range []string{"e", "em", "emi", "emily"} {
		d.Push(v)
	}
	select {
	case <-c.fire:
	case <-time.After(time.Second):
		t.Fatalf("debouncer never fired")
	}
	time.Sleep(50 * time.Millisecond)
	if got := c.values(); len(got) != 1 || got[0] != "emily" {
		t.Fatalf("expected one call with the last value, got %v", got)
	}
}

func TestDebouncerFlushAndStop(t *testing.T) {
	c := newCollector()
	d := view.NewDebouncer(time.Hour, c.add)

	d.Push("now")
	d.Flush()
	if got := c.values(); len(got) != 1 || got[0] != "now" {
		t.Fatalf("Flush should deliver at once, got %v", got)
	}
	d.Flush()
	if got := c.values(); len(got) != 1 {
		t.Fatalf("Flush without a pending value must not fire, got %v", got)
	}

	d.Push("dropped")
	d.Stop()
	d.Flush()
	if got := c.values(); len(got) != 1 {
		t.Fatalf("Stop should drop the pending value, got %v", got)
	}
}
