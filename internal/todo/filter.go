package todo

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var ErrInvalidFilter = errors.New("invalid filter")

type FilterMode string

const (
	FilterAll       FilterMode = "all"
	FilterActive    FilterMode = "active"
	FilterCompleted FilterMode = "completed"
)

var filterModes = []FilterMode{FilterAll, FilterActive, FilterCompleted}

// FilterModes lists the modes in display order.
func FilterModes() []FilterMode {
	return append([]FilterMode(nil), filterModes...)
}

// ParseFilterMode accepts a mode name case-insensitively; "" means all.
func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterActive:
		return FilterActive, nil
	case FilterCompleted:
		return FilterCompleted, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFilter, s)
	}
}

func (m FilterMode) matches(t Task) bool {
	switch m {
	case FilterActive:
		return !t.Done
	case FilterCompleted:
		return t.Done
	default:
		return true
	}
}

// Selector holds the current view filter. It is a view concern only and is
// never persisted.
type Selector struct {
	mu   sync.RWMutex
	mode FilterMode
}

func NewSelector() *Selector {
	return &Selector{mode: FilterAll}
}

func (s *Selector) Mode() FilterMode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *Selector) SetMode(m FilterMode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

// Cycle advances all -> active -> completed -> all and returns the new mode.
func (s *Selector) Cycle() FilterMode {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := FilterAll
	for i, m := range filterModes {
		if m == s.mode {
			next = filterModes[(i+1)%len(filterModes)]
			break
		}
	}
	s.mode = next
	return next
}

// View is the store's filtered view under the current mode.
func (s *Selector) View(store *Store) []Task {
	return store.FilteredView(s.Mode())
}
