package models

import "time"

// RunResult summarizes one aggregation run for the trigger surface.
type RunResult struct {
	OK     bool   `json:"ok"`
	Events int    `json:"events"`
	RunID  string `json:"run_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// RunCompletedEvent is the message published to the notification exchange
// after a successful upload.
type RunCompletedEvent struct {
	RunID     string    `json:"run_id"`
	Events    int       `json:"events"`
	ObjectKey string    `json:"object_key"`
	Duration  string    `json:"duration"`
	Timestamp time.Time `json:"timestamp"`
}
