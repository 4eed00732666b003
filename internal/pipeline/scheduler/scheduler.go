// internal/pipeline/scheduler/scheduler.go

// Package scheduler runs the polling loop that feeds the work queues.
// It is the only component that decides WHEN work happens; the workers
// decide HOW.
package scheduler

import (
	"context"
	"time"

	"cv-screening-workers/internal/common/errors"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/common/metrics"
	"cv-screening-workers/internal/models"
	"cv-screening-workers/internal/pipeline/queue"
	"cv-screening-workers/internal/store"
)

type Config struct {
	// PollInterval is the pause between store scans.
	PollInterval time.Duration
	// TickBackoff is the extra pause after a tick-level failure.
	TickBackoff time.Duration
}

// Scheduler periodically scans every session and enqueues document and
// analysis jobs. Per-session failures are contained: one bad session
// never blocks the rest of the scan.
type Scheduler struct {
	config        Config
	store         store.SessionStore
	docQueue      *queue.Queue[models.DocumentProcessingJob]
	analysisQueue *queue.Queue[models.SessionAnalysisJob]
	logger        logger.Logger
}

func New(
	config Config,
	sessionStore store.SessionStore,
	docQueue *queue.Queue[models.DocumentProcessingJob],
	analysisQueue *queue.Queue[models.SessionAnalysisJob],
	log logger.Logger,
) *Scheduler {
	return &Scheduler{
		config:        config,
		store:         sessionStore,
		docQueue:      docQueue,
		analysisQueue: analysisQueue,
		logger: log.WithFields(map[string]interface{}{
			"component": "scheduler",
		}),
	}
}

// Run executes ticks until ctx is cancelled. A failed tick backs off
// for TickBackoff on top of the poll interval instead of crashing the
// loop.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler started", map[string]interface{}{
		"pollInterval": s.config.PollInterval.String(),
	})

	for {
		if err := s.Tick(ctx); err != nil {
			metrics.SchedulerTickErrors.Inc()
			s.logger.WithError(err).Error("scheduler tick failed", nil)

			select {
			case <-time.After(s.config.TickBackoff):
			case <-ctx.Done():
				s.logger.Info("scheduler stopped", nil)
				return
			}
		} else {
			metrics.SchedulerTicks.Inc()
		}

		select {
		case <-time.After(s.config.PollInterval):
		case <-ctx.Done():
			s.logger.Info("scheduler stopped", nil)
			return
		}
	}
}

// Tick scans all sessions once. It returns an error only for loop-level
// failures (store scan failed); per-session errors are logged and
// swallowed.
func (s *Scheduler) Tick(ctx context.Context) error {
	sessions, err := s.store.GetAll(ctx)
	if err != nil {
		return errors.NewTransientLoopError("scheduler", err)
	}

	for _, session := range sessions {
		if err := s.scheduleSession(ctx, session); err != nil {
			s.logger.WithError(err).Error("failed to schedule session", map[string]interface{}{
				"sessionId": session.ID,
			})
		}
	}

	metrics.QueueDepth.WithLabelValues("documents").Set(float64(s.docQueue.Len()))
	metrics.QueueDepth.WithLabelValues("analysis").Set(float64(s.analysisQueue.Len()))

	return nil
}

func (s *Scheduler) scheduleSession(ctx context.Context, session *models.Session) error {
	changed := false
	now := time.Now().UTC()

	for _, doc := range session.Documents {
		if doc.Status != models.DocumentStatusUploaded {
			continue
		}

		job := models.DocumentProcessingJob{
			SessionID:    session.ID,
			DocumentID:   doc.ID,
			DocumentPath: doc.FilePath,
			Priority:     documentPriority(doc, len(session.Documents), now),
			EnqueuedAt:   now,
		}
		if err := s.docQueue.Enqueue(ctx, job); err != nil {
			// Persist whatever was flipped before the queue refused us.
			if changed {
				s.persist(ctx, session)
			}
			return err
		}

		doc.Status = models.DocumentStatusExtracting
		changed = true

		s.logger.Debug("document job enqueued", map[string]interface{}{
			"sessionId":  session.ID,
			"documentId": doc.ID,
			"priority":   job.Priority,
		})
	}

	if s.readyForAnalysis(session) {
		job := models.SessionAnalysisJob{
			SessionID:               session.ID,
			GenerateMatrix:          true,
			GenerateRecommendations: true,
			EnqueuedAt:              now,
		}
		if err := s.analysisQueue.Enqueue(ctx, job); err != nil {
			if changed {
				s.persist(ctx, session)
			}
			return err
		}

		session.AnalysisQueuedAt = &now
		changed = true

		s.logger.Info("analysis job enqueued", map[string]interface{}{
			"sessionId": session.ID,
			"processed": len(session.ProcessedDocuments()),
		})
	}

	if changed {
		return s.persist(ctx, session)
	}
	return nil
}

// readyForAnalysis gates the one-shot analysis enqueue: every document
// terminal, at least one of them processed, analysis neither done nor
// already queued, session not failed or cancelled.
func (s *Scheduler) readyForAnalysis(session *models.Session) bool {
	if session.Status == models.SessionStatusFailed || session.Status == models.SessionStatusCancelled {
		return false
	}
	if session.ComparisonMatrix != nil || session.AnalysisQueuedAt != nil {
		return false
	}
	if !session.AllDocumentsTerminal() {
		return false
	}
	return len(session.ProcessedDocuments()) > 0
}

func (s *Scheduler) persist(ctx context.Context, session *models.Session) error {
	session.Touch()
	if err := s.store.Save(ctx, session); err != nil {
		return errors.NewPersistenceFailedError(err)
	}
	return nil
}

// documentPriority is advisory metadata: older uploads, smaller files
// and smaller sessions score higher. The FIFO queues never reorder on
// it; operators read it off the job for inspection.
func documentPriority(doc *models.Document, sessionSize int, now time.Time) int {
	priority := 0

	hours := int(now.Sub(doc.UploadedAt).Hours())
	if hours < 0 {
		hours = 0
	}
	if hours > 24 {
		hours = 24
	}
	priority += hours

	switch {
	case doc.FileSize < 1<<20:
		priority += 10
	case doc.FileSize < 5<<20:
		priority += 5
	}

	switch {
	case sessionSize <= 5:
		priority += 15
	case sessionSize <= 20:
		priority += 10
	default:
		priority += 5
	}

	return priority
}
