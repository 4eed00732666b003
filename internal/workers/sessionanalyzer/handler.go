// internal/workers/sessionanalyzer/handler.go

// Package sessionanalyzer consumes analysis jobs: once every document
// of a session is terminal it builds the comparison matrix, the
// shortlist and the skill-gap analysis, and closes the session out.
package sessionanalyzer

import (
	"context"
	"fmt"
	"time"

	pipelineerrors "cv-screening-workers/internal/common/errors"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/models"
	"cv-screening-workers/internal/notify"
	"cv-screening-workers/internal/scoring"
	"cv-screening-workers/internal/search"
	"cv-screening-workers/internal/store"
)

const JobType = "analysis"

type Handler struct {
	config   *Config
	store    store.SessionStore
	notifier notify.Sink
	// indexer is optional; nil when search is disabled.
	indexer *search.Indexer
	logger  logger.Logger
}

func NewHandler(config *Config, sessionStore store.SessionStore, notifier notify.Sink, indexer *search.Indexer, log logger.Logger) *Handler {
	return &Handler{
		config:   config,
		store:    sessionStore,
		notifier: notifier,
		indexer:  indexer,
		logger: log.WithFields(map[string]interface{}{
			"jobType": JobType,
		}),
	}
}

// Handle runs one analysis job. Stale jobs (session gone, nothing
// processed) are dropped without touching the session; a genuine
// failure marks the session FAILED but keeps partial results.
func (h *Handler) Handle(ctx context.Context, job models.SessionAnalysisJob) error {
	log := h.logger.WithFields(map[string]interface{}{
		"sessionId": job.SessionID,
	})
	log.Info("processing analysis job", map[string]interface{}{
		"queuedFor": time.Since(job.EnqueuedAt).String(),
	})

	session, err := h.store.Get(ctx, job.SessionID)
	if err != nil {
		log.WithError(err).Warn("session gone at job time, dropping job", nil)
		return pipelineerrors.NewSessionNotFoundError(job.SessionID)
	}

	if len(session.ProcessedDocuments()) == 0 {
		// Nothing to compare. Drop silently: no status change, no
		// notifications, no partial artifacts.
		log.Warn("no processed documents, dropping analysis job", nil)
		return nil
	}

	h.notifier.Progress(ctx, session.ID, 90, "starting candidate analysis")

	start := time.Now()
	if err := h.analyze(ctx, session, job); err != nil {
		h.failSession(ctx, session, err, log)
		return pipelineerrors.NewAnalysisFailedError(err)
	}

	now := time.Now().UTC()
	session.Status = models.SessionStatusCompleted
	session.CompletedAt = &now
	session.Progress = 100
	session.StatusMessage = fmt.Sprintf("analysis completed in %dms", time.Since(start).Milliseconds())
	session.Touch()

	if err := h.store.Save(ctx, session); err != nil {
		h.failSession(ctx, session, err, log)
		return pipelineerrors.NewPersistenceFailedError(err)
	}

	summary := buildSummary(session, time.Since(start))
	h.notifier.Progress(ctx, session.ID, 100, "analysis complete")
	h.notifier.AnalysisComplete(ctx, session.ID, summary)
	h.notifier.StatusChanged(ctx, session.ID, string(session.Status), session.StatusMessage)

	if h.indexer != nil && session.ComparisonMatrix != nil {
		h.indexer.IndexMatrix(ctx, session, session.ComparisonMatrix)
	}

	log.Info("session analysis completed", map[string]interface{}{
		"candidates":   summary.CandidateCount,
		"averageScore": summary.AverageScore,
		"durationMs":   summary.DurationMs,
	})
	return nil
}

func (h *Handler) analyze(ctx context.Context, session *models.Session, job models.SessionAnalysisJob) error {
	matrix := session.ComparisonMatrix
	if job.GenerateMatrix || matrix == nil {
		matrix = scoring.BuildComparisonMatrix(session)
		session.ComparisonMatrix = matrix

		// Persist the matrix before the remaining steps so a later
		// failure keeps this partial result.
		session.Touch()
		if err := h.store.Save(ctx, session); err != nil {
			return err
		}
	}

	if job.GenerateRecommendations {
		matrix.Recommendations = scoring.TopRecommendations(matrix, h.config.TopRecommendations)
	}

	session.SkillGap = scoring.AnalyzeSkillGap(session.JobOffer.RequiredSkills, session.Documents)
	session.Stats = buildStats(session, matrix)

	return nil
}

func (h *Handler) failSession(ctx context.Context, session *models.Session, cause error, log logger.Logger) {
	log.WithError(cause).Error("session analysis failed", nil)

	session.Status = models.SessionStatusFailed
	session.StatusMessage = fmt.Sprintf("analysis failed: %v", cause)
	session.Touch()
	if err := h.store.Save(ctx, session); err != nil {
		log.WithError(err).Error("failed to persist failed session", nil)
	}

	h.notifier.ProcessingError(ctx, session.ID, session.StatusMessage)
	h.notifier.StatusChanged(ctx, session.ID, string(session.Status), session.StatusMessage)
}

func buildStats(session *models.Session, matrix *models.ComparisonMatrix) *models.SessionStats {
	stats := &models.SessionStats{
		TotalDocuments:     len(session.Documents),
		ProcessedDocuments: len(session.ProcessedDocuments()),
	}
	for _, d := range session.Documents {
		if d.Status == models.DocumentStatusFailed {
			stats.FailedDocuments++
		}
	}
	if matrix != nil {
		stats.AverageScore = matrix.Statistics.AverageScore
	}
	return stats
}

func buildSummary(session *models.Session, elapsed time.Duration) notify.AnalysisSummary {
	summary := notify.AnalysisSummary{
		SessionID:      session.ID,
		ProcessedCount: len(session.ProcessedDocuments()),
		DurationMs:     elapsed.Milliseconds(),
	}
	for _, d := range session.Documents {
		if d.Status == models.DocumentStatusFailed {
			summary.FailedCount++
		}
	}
	if matrix := session.ComparisonMatrix; matrix != nil {
		summary.CandidateCount = matrix.Statistics.CandidateCount
		summary.AverageScore = matrix.Statistics.AverageScore
		if len(matrix.Candidates) > 0 {
			summary.TopCandidate = matrix.Candidates[0].CandidateName
		}
	}
	if session.SkillGap != nil {
		summary.OverallCoverage = session.SkillGap.OverallCoverage
	}
	return summary
}
