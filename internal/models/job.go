// internal/models/job.go
package models

import "time"

// DocumentProcessingJob asks a pool worker to extract and score one
// document. Jobs are value objects: delivered at most once per
// successful dequeue, lost if the worker crashes mid-flight.
//
// Priority is advisory metadata computed by the scheduler for operator
// inspection; the FIFO queues never reorder on it.
type DocumentProcessingJob struct {
	SessionID    string    `json:"sessionId"`
	DocumentID   string    `json:"documentId"`
	DocumentPath string    `json:"documentPath"`
	Priority     int       `json:"priority"`
	EnqueuedAt   time.Time `json:"enqueuedAt"`
}

// SessionAnalysisJob asks the analyzer to build comparison results for
// a session whose documents are all terminal.
type SessionAnalysisJob struct {
	SessionID               string    `json:"sessionId"`
	GenerateMatrix          bool      `json:"generateMatrix"`
	GenerateRecommendations bool      `json:"generateRecommendations"`
	EnqueuedAt              time.Time `json:"enqueuedAt"`
}
