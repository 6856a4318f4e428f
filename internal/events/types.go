// Package events provides event management functionality.
package events

import "time"

// EventType represents different event types
type EventType string

const (
	AnalysisCompleted   EventType = "ANALYSIS_COMPLETED"
	BatchCompleted      EventType = "BATCH_COMPLETED"
	ScoreUpdated        EventType = "SCORE_UPDATED"
	TickerTracked       EventType = "TICKER_TRACKED"
	TickerUntracked     EventType = "TICKER_UNTRACKED"
	SystemStatusChanged EventType = "SYSTEM_STATUS_CHANGED"
	BackupCompleted     EventType = "BACKUP_COMPLETED"
	ErrorOccurred       EventType = "ERROR_OCCURRED"
)

// Event represents a system event
type Event struct {
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
	Module    string                 `json:"module"`
}
