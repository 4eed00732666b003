// internal/workers/sessionanalyzer/loop.go
package sessionanalyzer

import (
	"context"
	"errors"
	"sync"
	"time"

	pipelineerrors "cv-screening-workers/internal/common/errors"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/common/metrics"
	"cv-screening-workers/internal/common/observability"
	"cv-screening-workers/internal/models"
	"cv-screening-workers/internal/pipeline/queue"
)

// Loop is the single consumer of the analysis queue. Analysis jobs are
// rare and heavy relative to document jobs, so one consumer keeps the
// per-session results strictly ordered.
type Loop struct {
	config  *Config
	queue   *queue.Queue[models.SessionAnalysisJob]
	handler *Handler
	obs     *observability.Observability
	logger  logger.Logger
}

func NewLoop(
	config *Config,
	q *queue.Queue[models.SessionAnalysisJob],
	handler *Handler,
	obs *observability.Observability,
	log logger.Logger,
) *Loop {
	return &Loop{
		config:  config,
		queue:   q,
		handler: handler,
		obs:     obs,
		logger: log.WithFields(map[string]interface{}{
			"component": "sessionanalyzer",
		}),
	}
}

// Start launches the consumer loop and registers it on wg.
func (l *Loop) Start(ctx context.Context, wg *sync.WaitGroup) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		l.run(ctx)
	}()
}

func (l *Loop) run(ctx context.Context) {
	l.logger.Info("session analyzer started", nil)

	for {
		job, err := l.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) || ctx.Err() != nil {
				l.logger.Info("session analyzer stopped", nil)
				return
			}

			l.logger.WithError(err).Error("unexpected dequeue failure, backing off", nil)
			select {
			case <-time.After(l.config.Backoff):
			case <-ctx.Done():
				l.logger.Info("session analyzer stopped", nil)
				return
			}
			continue
		}

		start := time.Now()
		handleErr := l.handler.Handle(ctx, job)
		elapsed := time.Since(start)

		metrics.PipelineJobDuration.WithLabelValues(JobType).Observe(elapsed.Seconds())
		l.obs.RecordJobDuration(ctx, JobType, elapsed)

		if handleErr != nil {
			metrics.PipelineJobsFailed.WithLabelValues(JobType, string(pipelineerrors.CodeOf(handleErr))).Inc()
			l.obs.RecordJobProcessed(ctx, JobType, "failed")
		} else {
			metrics.PipelineJobsCompleted.WithLabelValues(JobType).Inc()
			l.obs.RecordJobProcessed(ctx, JobType, "completed")
		}
	}
}
