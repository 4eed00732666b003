// internal/notify/email.go
package notify

import (
	"context"
	"fmt"

	"cv-screening-workers/internal/common/logger"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Emailer is the slice of the SES client the sink needs.
type Emailer interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// EmailSink sends a digest email when a session finishes analysis.
// All other events are ignored; email is too noisy a channel for
// per-document updates.
type EmailSink struct {
	emailer   Emailer
	fromEmail string
	toEmail   string
	logger    logger.Logger
}

func NewEmailSink(emailer Emailer, fromEmail, toEmail string, log logger.Logger) *EmailSink {
	return &EmailSink{
		emailer:   emailer,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		logger: log.WithFields(map[string]interface{}{
			"component": "notify.email",
		}),
	}
}

func (s *EmailSink) Progress(ctx context.Context, sessionID string, percent int, message string) {
}

func (s *EmailSink) DocumentResult(ctx context.Context, sessionID, documentID string, success bool, errMsg string) {
}

func (s *EmailSink) ProcessingError(ctx context.Context, sessionID, message string) {}

func (s *EmailSink) StatusChanged(ctx context.Context, sessionID, status, message string) {}

func (s *EmailSink) AnalysisComplete(ctx context.Context, sessionID string, summary AnalysisSummary) {
	subject := fmt.Sprintf("CV screening complete: session %s", sessionID)
	body := fmt.Sprintf(
		"Screening session %s finished.\n\n"+
			"Candidates analyzed: %d\n"+
			"Documents processed: %d (failed: %d)\n"+
			"Average score: %.2f\n"+
			"Top candidate: %s\n"+
			"Required-skill coverage: %.0f%%\n"+
			"Analysis duration: %dms\n",
		sessionID,
		summary.CandidateCount,
		summary.ProcessedCount, summary.FailedCount,
		summary.AverageScore,
		summary.TopCandidate,
		summary.OverallCoverage,
		summary.DurationMs,
	)

	_, err := s.emailer.SendEmail(ctx, &ses.SendEmailInput{
		Source: awssdk.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{s.toEmail},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: awssdk.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: awssdk.String(body)},
			},
		},
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to send digest email", map[string]interface{}{
			"sessionId": sessionID,
		})
	}
}
