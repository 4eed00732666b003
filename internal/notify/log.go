// internal/notify/log.go
package notify

import (
	"context"

	"cv-screening-workers/internal/common/logger"
)

// LogSink writes every event to the structured log. It is always
// configured so the pipeline leaves a trace even when SNS/SES are off.
type LogSink struct {
	logger logger.Logger
}

func NewLogSink(log logger.Logger) *LogSink {
	return &LogSink{logger: log.WithFields(map[string]interface{}{
		"component": "notify",
	})}
}

func (s *LogSink) Progress(ctx context.Context, sessionID string, percent int, message string) {
	s.logger.Info("session progress", map[string]interface{}{
		"sessionId": sessionID,
		"percent":   percent,
		"message":   message,
	})
}

func (s *LogSink) DocumentResult(ctx context.Context, sessionID, documentID string, success bool, errMsg string) {
	fields := map[string]interface{}{
		"sessionId":  sessionID,
		"documentId": documentID,
		"success":    success,
	}
	if errMsg != "" {
		fields["error"] = errMsg
	}
	s.logger.Info("document result", fields)
}

func (s *LogSink) AnalysisComplete(ctx context.Context, sessionID string, summary AnalysisSummary) {
	s.logger.Info("analysis complete", map[string]interface{}{
		"sessionId":      sessionID,
		"candidateCount": summary.CandidateCount,
		"averageScore":   summary.AverageScore,
		"topCandidate":   summary.TopCandidate,
		"durationMs":     summary.DurationMs,
	})
}

func (s *LogSink) ProcessingError(ctx context.Context, sessionID, message string) {
	s.logger.Error("processing error", map[string]interface{}{
		"sessionId": sessionID,
		"message":   message,
	})
}

func (s *LogSink) StatusChanged(ctx context.Context, sessionID, status, message string) {
	s.logger.Info("session status changed", map[string]interface{}{
		"sessionId": sessionID,
		"status":    status,
		"message":   message,
	})
}
