package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

// Recorder accepts events. The task store only needs this half.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}

// Repository stores telemetry events
type Repository interface {
	Recorder
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository stores events in memory. It keeps at most limit events;
// the oldest are dropped first.
type MemoryRepository struct {
	mu     sync.RWMutex
	events []Event
	nextID int
	limit  int
}

const defaultLimit = 1000

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		events: make([]Event, 0),
		nextID: 1,
		limit:  defaultLimit,
	}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: time.Now(),
		Metadata:  string(metadataJSON),
	})
	r.nextID++

	if over := len(r.events) - r.limit; over > 0 {
		r.events = append(r.events[:0:0], r.events[over:]...)
	}
	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for _, event := range r.events {
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.nextID = 1

	return nil
}
