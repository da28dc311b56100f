package todo

import (
	"errors"
	"log"
	"slices"
	"strings"
	"sync"

	"todokeep/internal/logging"
	"todokeep/internal/telemetry"
)

var (
	ErrNotFound  = errors.New("task not found")
	ErrEmptyText = errors.New("task text is empty")
)

type Options struct {
	Adapter *Adapter
	Clock   Clock
	Logger  *log.Logger
	Events  telemetry.Recorder
	// ConfirmMessage is the question passed to the Prompt by ClearAll.
	ConfirmMessage string
}

// Store owns the task list. Tasks are kept newest first. Every change is
// written through the adapter before the call returns; a failed write is
// reported but the in-memory change stands.
type Store struct {
	mu      sync.RWMutex
	tasks   []Task
	adapter *Adapter
	clock   Clock
	logger  *log.Logger
	events  telemetry.Recorder
	confirm string
	suffix  func() string
}

func NewStore(opts Options) *Store {
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if strings.TrimSpace(opts.ConfirmMessage) == "" {
		opts.ConfirmMessage = DefaultConfirmMessage
	}
	return &Store{
		tasks:   []Task{},
		adapter: opts.Adapter,
		clock:   opts.Clock,
		logger:  opts.Logger,
		events:  opts.Events,
		confirm: opts.ConfirmMessage,
		suffix:  randomSuffix,
	}
}

// Load replaces the in-memory list with the stored one. Missing or unreadable
// state yields an empty list.
func (s *Store) Load() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = []Task{}
	if s.adapter == nil {
		return []Task{}
	}

	tasks, err := s.adapter.Restore()
	if err != nil {
		logging.Warn(s.logger, "restore_failed", logging.Fields{
			"key":   s.adapter.Key(),
			"error": err.Error(),
		})
	}
	s.tasks = tasks
	return slices.Clone(s.tasks)
}

// Add prepends a new task. Blank text is ignored: created is false and
// nothing is written.
func (s *Store) Add(rawText string) (task Task, created bool, err error) {
	text := strings.TrimSpace(rawText)
	if text == "" {
		return Task{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	id := newID(now, s.suffix)
	for s.indexLocked(id) >= 0 {
		id = newID(now, s.suffix)
	}

	task = Task{
		ID:        id,
		Text:      text,
		Done:      false,
		CreatedAt: now.UnixMilli(),
	}
	s.tasks = slices.Insert(s.tasks, 0, task)

	s.record(telemetry.EventTaskAdded, telemetry.EventMetadata{"id": id})
	return task, true, s.persistLocked()
}

// Toggle flips done on the task with id and returns the task as it now is.
// Unknown ids change nothing and are not written.
func (s *Store) Toggle(id string) (Task, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, false, nil
	}
	s.tasks[i].Done = !s.tasks[i].Done
	task := s.tasks[i]

	s.record(telemetry.EventTaskToggled, telemetry.EventMetadata{"id": id, "done": task.Done})
	return task, true, s.persistLocked()
}

// Remove deletes the first task with id.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return false, nil
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)

	s.record(telemetry.EventTaskRemoved, telemetry.EventMetadata{"id": id})
	return true, s.persistLocked()
}

// ClearCompleted drops every done task, keeping the rest in order. It always
// writes, even when nothing was removed.
func (s *Store) ClearCompleted() (removed int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Done {
			kept = append(kept, t)
		}
	}
	removed = len(s.tasks) - len(kept)
	s.tasks = kept

	s.record(telemetry.EventCompletedCleared, telemetry.EventMetadata{"removed": removed})
	return removed, s.persistLocked()
}

// ClearAll empties the list once p confirms. A declined prompt leaves both
// memory and storage untouched.
func (s *Store) ClearAll(p Prompt) (bool, error) {
	if p == nil || !p.Confirm(s.confirm) {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := len(s.tasks)
	s.tasks = []Task{}

	s.record(telemetry.EventAllCleared, telemetry.EventMetadata{"removed": removed})
	return true, s.persistLocked()
}

// ConfirmMessage is the question ClearAll asks.
func (s *Store) ConfirmMessage() string {
	return s.confirm
}

func (s *Store) Get(id string) (Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexLocked(id)
	if i < 0 {
		return Task{}, ErrNotFound
	}
	return s.tasks[i], nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func (s *Store) CompletedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tasks {
		if t.Done {
			n++
		}
	}
	return n
}

func (s *Store) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, t := range s.tasks {
		if !t.Done {
			n++
		}
	}
	return n
}

// FilteredView returns a fresh slice of the tasks matching mode. Unknown
// modes behave like FilterAll.
func (s *Store) FilteredView(mode FilterMode) []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if mode.matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Summary is the list under one filter together with the counts, all read
// from the same state.
type Summary struct {
	Filter         FilterMode `json:"filter"`
	Tasks          []Task     `json:"tasks"`
	CompletedCount int        `json:"completedCount"`
	ActiveCount    int        `json:"activeCount"`
	Total          int        `json:"total"`
}

func (s *Store) Summary(mode FilterMode) Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		Filter: mode,
		Tasks:  make([]Task, 0, len(s.tasks)),
		Total:  len(s.tasks),
	}
	for _, t := range s.tasks {
		if t.Done {
			sum.CompletedCount++
		} else {
			sum.ActiveCount++
		}
		if mode.matches(t) {
			sum.Tasks = append(sum.Tasks, t)
		}
	}
	return sum
}

// Snapshot returns a copy of the whole list.
func (s *Store) Snapshot() []Task {
	return s.FilteredView(FilterAll)
}

// Healthy reports whether the backing store is readable. It never writes.
func (s *Store) Healthy() error {
	if s.adapter == nil {
		return nil
	}
	return s.adapter.Check()
}

// Persist writes the current list. Mutations call it themselves; it is
// exported so a caller can retry after a failed write.
func (s *Store) Persist() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	if s.adapter == nil {
		return nil
	}
	if err := s.adapter.Save(s.tasks); err != nil {
		logging.Error(s.logger, "persist_failed", logging.Fields{
			"key":   s.adapter.Key(),
			"tasks": len(s.tasks),
			"error": err.Error(),
		})
		s.record(telemetry.EventPersistFailed, telemetry.EventMetadata{"error": err.Error()})
		return err
	}
	return nil
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

func (s *Store) record(eventType telemetry.EventType, metadata telemetry.EventMetadata) {
	if s.events == nil {
		return
	}
	if err := s.events.RecordEvent(eventType, metadata); err != nil {
		logging.Warn(s.logger, "event_record_failed", logging.Fields{
			"type":  string(eventType),
			"error": err.Error(),
		})
	}
}
