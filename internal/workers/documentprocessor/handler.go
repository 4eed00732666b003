// internal/workers/documentprocessor/handler.go

// Package documentprocessor runs the worker pool that extracts and
// scores one CV document per job. A document failure marks that
// document FAILED and nothing else; the session keeps going.
package documentprocessor

import (
	"context"
	"fmt"
	"time"

	pipelineerrors "cv-screening-workers/internal/common/errors"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/extraction"
	"cv-screening-workers/internal/models"
	"cv-screening-workers/internal/notify"
	"cv-screening-workers/internal/scoring"
	"cv-screening-workers/internal/store"
)

const JobType = "document"

type Handler struct {
	store     store.SessionStore
	extractor extraction.Extractor
	notifier  notify.Sink
	logger    logger.Logger
}

func NewHandler(sessionStore store.SessionStore, extractor extraction.Extractor, notifier notify.Sink, log logger.Logger) *Handler {
	return &Handler{
		store:     sessionStore,
		extractor: extractor,
		notifier:  notifier,
		logger: log.WithFields(map[string]interface{}{
			"jobType": JobType,
		}),
	}
}

// Handle processes one document job end to end. The returned error is
// for metrics and logging only; the caller never retries.
func (h *Handler) Handle(ctx context.Context, job models.DocumentProcessingJob) error {
	log := h.logger.WithFields(map[string]interface{}{
		"sessionId":  job.SessionID,
		"documentId": job.DocumentID,
	})
	log.Info("processing document job", map[string]interface{}{
		"queuedFor": time.Since(job.EnqueuedAt).String(),
	})

	// Re-fetch at job time: the session may have changed or vanished
	// since the scheduler looked at it.
	session, err := h.store.Get(ctx, job.SessionID)
	if err != nil {
		log.WithError(err).Warn("session gone at job time, dropping job", nil)
		return pipelineerrors.NewSessionNotFoundError(job.SessionID)
	}

	doc := session.FindDocument(job.DocumentID)
	if doc == nil {
		log.Warn("document gone at job time, dropping job", nil)
		return pipelineerrors.NewDocumentNotFoundError(job.SessionID, job.DocumentID)
	}
	if doc.Status.IsTerminal() {
		log.Info("document already terminal, dropping job", map[string]interface{}{
			"status": doc.Status,
		})
		return nil
	}

	start := time.Now()
	doc.Status = models.DocumentStatusExtracting
	h.persistBestEffort(ctx, session, log)
	h.notifier.Progress(ctx, session.ID, session.ComputeProgress(),
		fmt.Sprintf("processing document %s", doc.FileName))

	cv, extractErr := h.extractor.Extract(ctx, doc.ExtractedText, session.JobOffer)

	// Re-fetch before writing results; extraction can take a while and
	// another worker may have saved the session meanwhile.
	session, err = h.store.Get(ctx, job.SessionID)
	if err != nil {
		log.WithError(err).Warn("session gone after extraction, dropping result", nil)
		return pipelineerrors.NewSessionNotFoundError(job.SessionID)
	}
	doc = session.FindDocument(job.DocumentID)
	if doc == nil {
		log.Warn("document gone after extraction, dropping result", nil)
		return pipelineerrors.NewDocumentNotFoundError(job.SessionID, job.DocumentID)
	}

	now := time.Now().UTC()
	doc.ProcessedAt = &now
	doc.DurationMs = time.Since(start).Milliseconds()

	if extractErr != nil {
		doc.Status = models.DocumentStatusFailed
		doc.ErrorMessage = extractErr.Error()

		h.finishDocument(ctx, session, doc, log)
		h.notifier.DocumentResult(ctx, session.ID, doc.ID, false, doc.ErrorMessage)

		log.WithError(extractErr).Error("document extraction failed", nil)
		return pipelineerrors.NewExtractionFailedError(extractErr)
	}

	if cv.Score == nil {
		computed := scoring.ScoreCandidate(cv, session.JobOffer)
		cv.Score = &computed
	}
	doc.ExtractedData = cv
	doc.Status = models.DocumentStatusProcessed
	doc.ErrorMessage = ""

	h.finishDocument(ctx, session, doc, log)
	h.notifier.DocumentResult(ctx, session.ID, doc.ID, true, "")

	log.Info("document processed", map[string]interface{}{
		"candidate":  cv.PersonalInfo.Name,
		"score":      cv.Score.OverallScore,
		"durationMs": doc.DurationMs,
	})
	return nil
}

// finishDocument persists the document outcome, refreshes session
// progress and flips the session to COMPLETED once every document is
// terminal. The analyzer later overwrites the status message with the
// analysis result.
func (h *Handler) finishDocument(ctx context.Context, session *models.Session, doc *models.Document, log logger.Logger) {
	session.Progress = session.ComputeProgress()

	if session.AllDocumentsTerminal() && !session.Status.IsTerminal() {
		now := time.Now().UTC()
		session.Status = models.SessionStatusCompleted
		session.CompletedAt = &now
		session.StatusMessage = fmt.Sprintf("%d/%d documents processed",
			len(session.ProcessedDocuments()), len(session.Documents))

		h.notifier.StatusChanged(ctx, session.ID, string(session.Status), session.StatusMessage)
	}

	h.persistBestEffort(ctx, session, log)
	h.notifier.Progress(ctx, session.ID, session.Progress,
		fmt.Sprintf("document %s finished with status %s", doc.FileName, doc.Status))
}

// persistBestEffort logs a failed save and moves on: the next
// scheduler tick or job will observe whatever state actually stuck.
func (h *Handler) persistBestEffort(ctx context.Context, session *models.Session, log logger.Logger) {
	session.Touch()
	if err := h.store.Save(ctx, session); err != nil {
		log.WithError(err).Error("failed to persist session state", nil)
	}
}
