// internal/pipeline/service.go

// Package pipeline exposes the manual job-submission surface used by
// operational tooling: re-queue a document, force an analysis run.
// The scheduler uses the queues directly; this layer adds validation.
package pipeline

import (
	"context"
	"time"

	pipelineerrors "cv-screening-workers/internal/common/errors"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/common/metrics"
	"cv-screening-workers/internal/models"
	"cv-screening-workers/internal/pipeline/queue"
	"cv-screening-workers/internal/store"
)

type Service struct {
	store         store.SessionStore
	docQueue      *queue.Queue[models.DocumentProcessingJob]
	analysisQueue *queue.Queue[models.SessionAnalysisJob]
	logger        logger.Logger
}

func NewService(
	sessionStore store.SessionStore,
	docQueue *queue.Queue[models.DocumentProcessingJob],
	analysisQueue *queue.Queue[models.SessionAnalysisJob],
	log logger.Logger,
) *Service {
	return &Service{
		store:         sessionStore,
		docQueue:      docQueue,
		analysisQueue: analysisQueue,
		logger: log.WithFields(map[string]interface{}{
			"component": "pipeline",
		}),
	}
}

// EnqueueDocumentJob validates the session/document pair and submits a
// document processing job. Blocks under backpressure like any other
// producer.
func (s *Service) EnqueueDocumentJob(ctx context.Context, sessionID, documentID string, priority int) error {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return pipelineerrors.NewSessionNotFoundError(sessionID)
	}

	doc := session.FindDocument(documentID)
	if doc == nil {
		return pipelineerrors.NewDocumentNotFoundError(sessionID, documentID)
	}

	job := models.DocumentProcessingJob{
		SessionID:    sessionID,
		DocumentID:   documentID,
		DocumentPath: doc.FilePath,
		Priority:     priority,
		EnqueuedAt:   time.Now().UTC(),
	}
	if err := s.docQueue.Enqueue(ctx, job); err != nil {
		return err
	}

	metrics.QueueDepth.WithLabelValues("documents").Set(float64(s.docQueue.Len()))
	s.logger.Info("document job submitted", map[string]interface{}{
		"sessionId":  sessionID,
		"documentId": documentID,
		"priority":   priority,
	})
	return nil
}

// EnqueueAnalysisJob validates the session and submits an analysis
// job. The analyzer still drops the job if nothing is processed by the
// time it runs.
func (s *Service) EnqueueAnalysisJob(ctx context.Context, sessionID string, generateMatrix, generateRecommendations bool) error {
	session, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return pipelineerrors.NewSessionNotFoundError(sessionID)
	}

	now := time.Now().UTC()
	job := models.SessionAnalysisJob{
		SessionID:               sessionID,
		GenerateMatrix:          generateMatrix,
		GenerateRecommendations: generateRecommendations,
		EnqueuedAt:              now,
	}
	if err := s.analysisQueue.Enqueue(ctx, job); err != nil {
		return err
	}

	// Mark the session so the scheduler does not queue a second run.
	session.AnalysisQueuedAt = &now
	session.Touch()
	if err := s.store.Save(ctx, session); err != nil {
		s.logger.WithError(err).Warn("failed to record analysis enqueue", map[string]interface{}{
			"sessionId": sessionID,
		})
	}

	metrics.QueueDepth.WithLabelValues("analysis").Set(float64(s.analysisQueue.Len()))
	s.logger.Info("analysis job submitted", map[string]interface{}{
		"sessionId":      sessionID,
		"generateMatrix": generateMatrix,
	})
	return nil
}

// DocumentQueueDepth reports the best-effort document queue depth.
func (s *Service) DocumentQueueDepth() int {
	return s.docQueue.Len()
}

// AnalysisQueueDepth reports the best-effort analysis queue depth.
func (s *Service) AnalysisQueueDepth() int {
	return s.analysisQueue.Len()
}
