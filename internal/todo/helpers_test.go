package todo

import (
	"errors"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"todokeep/internal/kv"
)

// countingKV wraps a memory store and counts writes.
type countingKV struct {
	*kv.MemoryStore
	mu   sync.Mutex
	sets int
	fail error
}

func newCountingKV() *countingKV {
	return &countingKV{MemoryStore: kv.NewMemoryStore()}
}

func (c *countingKV) Set(key, value string) error {
	c.mu.Lock()
	c.sets++
	fail := c.fail
	c.mu.Unlock()
	if fail != nil {
		return fail
	}
	return c.MemoryStore.Set(key, value)
}

func (c *countingKV) writes() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sets
}

var errDiskFull = errors.New("disk full")

var testStart = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, *countingKV, *FakeClock) {
	t.Helper()

	backing := newCountingKV()
	clock := NewFakeClock(testStart)
	s := NewStore(Options{
		Adapter: NewAdapter(backing, ""),
		Clock:   clock,
		Logger:  log.New(io.Discard, "", 0),
	})
	s.Load()
	return s, backing, clock
}

func texts(tasks []Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Text)
	}
	return out
}
