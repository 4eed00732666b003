// internal/notify/sns.go
package notify

import (
	"context"
	"encoding/json"
	"time"

	"cv-screening-workers/internal/common/logger"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// Publisher is the slice of the SNS client the sink needs; satisfied
// by *aws.SNSClient and by fakes in tests.
type Publisher interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

// SNSSink publishes pipeline events as JSON envelopes on one topic.
// Consumers filter on the "type" message attribute.
type SNSSink struct {
	publisher Publisher
	topicARN  string
	logger    logger.Logger
}

func NewSNSSink(publisher Publisher, topicARN string, log logger.Logger) *SNSSink {
	return &SNSSink{
		publisher: publisher,
		topicARN:  topicARN,
		logger: log.WithFields(map[string]interface{}{
			"component": "notify.sns",
			"topicArn":  topicARN,
		}),
	}
}

type eventEnvelope struct {
	EventID   string      `json:"eventId"`
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

func (s *SNSSink) publish(ctx context.Context, eventType, sessionID string, payload interface{}) {
	envelope := eventEnvelope{
		EventID:   uuid.NewString(),
		Type:      eventType,
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	body, err := json.Marshal(envelope)
	if err != nil {
		s.logger.WithError(err).Error("failed to marshal event", map[string]interface{}{
			"type":      eventType,
			"sessionId": sessionID,
		})
		return
	}

	_, err = s.publisher.Publish(ctx, &sns.PublishInput{
		TopicArn: awssdk.String(s.topicARN),
		Message:  awssdk.String(string(body)),
	})
	if err != nil {
		// Best-effort: log and move on, never fail the pipeline.
		s.logger.WithError(err).Error("failed to publish event", map[string]interface{}{
			"type":      eventType,
			"sessionId": sessionID,
		})
	}
}

func (s *SNSSink) Progress(ctx context.Context, sessionID string, percent int, message string) {
	s.publish(ctx, "session.progress", sessionID, map[string]interface{}{
		"percent": percent,
		"message": message,
	})
}

func (s *SNSSink) DocumentResult(ctx context.Context, sessionID, documentID string, success bool, errMsg string) {
	payload := map[string]interface{}{
		"documentId": documentID,
		"success":    success,
	}
	if errMsg != "" {
		payload["error"] = errMsg
	}
	s.publish(ctx, "document.result", sessionID, payload)
}

func (s *SNSSink) AnalysisComplete(ctx context.Context, sessionID string, summary AnalysisSummary) {
	s.publish(ctx, "session.analysis-complete", sessionID, summary)
}

func (s *SNSSink) ProcessingError(ctx context.Context, sessionID, message string) {
	s.publish(ctx, "session.error", sessionID, map[string]interface{}{
		"message": message,
	})
}

func (s *SNSSink) StatusChanged(ctx context.Context, sessionID, status, message string) {
	s.publish(ctx, "session.status-changed", sessionID, map[string]interface{}{
		"status":  status,
		"message": message,
	})
}
