package telemetry

import "time"

type EventType string

const (
	EventTaskAdded        EventType = "task_added"
	EventTaskToggled      EventType = "task_toggled"
	EventTaskRemoved      EventType = "task_removed"
	EventCompletedCleared EventType = "completed_cleared"
	EventAllCleared       EventType = "all_cleared"
	EventPersistFailed    EventType = "persist_failed"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}
