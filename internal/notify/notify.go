// internal/notify/notify.go

// Package notify delivers pipeline progress events to interested
// parties. Delivery is best-effort: a sink failure is logged and never
// propagated back into the pipeline.
package notify

import "context"

// AnalysisSummary is the compact digest attached to the
// analysis-complete event.
type AnalysisSummary struct {
	SessionID       string  `json:"sessionId"`
	CandidateCount  int     `json:"candidateCount"`
	ProcessedCount  int     `json:"processedCount"`
	FailedCount     int     `json:"failedCount"`
	AverageScore    float64 `json:"averageScore"`
	TopCandidate    string  `json:"topCandidate,omitempty"`
	OverallCoverage float64 `json:"overallCoverage"`
	DurationMs      int64   `json:"durationMs"`
}

// Sink receives pipeline events. Implementations must be safe for
// concurrent use; the worker pool calls them from multiple goroutines.
type Sink interface {
	Progress(ctx context.Context, sessionID string, percent int, message string)
	DocumentResult(ctx context.Context, sessionID, documentID string, success bool, errMsg string)
	AnalysisComplete(ctx context.Context, sessionID string, summary AnalysisSummary)
	ProcessingError(ctx context.Context, sessionID, message string)
	StatusChanged(ctx context.Context, sessionID, status, message string)
}

// Multi fans events out to every configured sink.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Progress(ctx context.Context, sessionID string, percent int, message string) {
	for _, s := range m.sinks {
		s.Progress(ctx, sessionID, percent, message)
	}
}

func (m *Multi) DocumentResult(ctx context.Context, sessionID, documentID string, success bool, errMsg string) {
	for _, s := range m.sinks {
		s.DocumentResult(ctx, sessionID, documentID, success, errMsg)
	}
}

func (m *Multi) AnalysisComplete(ctx context.Context, sessionID string, summary AnalysisSummary) {
	for _, s := range m.sinks {
		s.AnalysisComplete(ctx, sessionID, summary)
	}
}

func (m *Multi) ProcessingError(ctx context.Context, sessionID, message string) {
	for _, s := range m.sinks {
		s.ProcessingError(ctx, sessionID, message)
	}
}

func (m *Multi) StatusChanged(ctx context.Context, sessionID, status, message string) {
	for _, s := range m.sinks {
		s.StatusChanged(ctx, sessionID, status, message)
	}
}
