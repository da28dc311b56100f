package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Since          string            `json:"since"`
	EventCounts    map[EventType]int `json:"event_counts"`
	TasksAdded     int               `json:"tasks_added"`
	TasksCompleted int               `json:"tasks_completed"`
	TasksRemoved   int               `json:"tasks_removed"`
	PersistFailed  int               `json:"persist_failed"`
}

// CalculateStats summarizes list activity from events.
func CalculateStats(events []Event, since time.Time) Stats {
	stats := Stats{
		Since:       since.UTC().Format(time.RFC3339),
		EventCounts: make(map[EventType]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			metadata = nil
		}

		switch event.Type {
		case EventTaskAdded:
			stats.TasksAdded++
		case EventTaskToggled:
			if done, ok := metadata["done"].(bool); ok && done {
				stats.TasksCompleted++
			}
		case EventTaskRemoved:
			stats.TasksRemoved++
		case EventCompletedCleared, EventAllCleared:
			if n, ok := metadata["removed"].(float64); ok {
				stats.TasksRemoved += int(n)
			}
		case EventPersistFailed:
			stats.PersistFailed++
		}
	}

	return stats
}
