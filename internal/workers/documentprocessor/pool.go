// internal/workers/documentprocessor/pool.go
package documentprocessor

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

// Pool runs WorkerCount concurrent dequeue loops over the document
// queue. Loops exit when the queue is closed and drained or the
// context is cancelled; a job failure never takes a loop down.
type Pool struct {
	config  *Config
	queue   *queue.Queue[models.DocumentProcessingJob]
	handler *Handler
	obs     *observability.Observability
	logger  logger.Logger
}

func NewPool(
	config *Config,
	q *queue.Queue[models.DocumentProcessingJob],
	handler *Handler,
	obs *observability.Observability,
	log logger.Logger,
) *Pool {
	return &Pool{
		config:  config,
		queue:   q,
		handler: handler,
		obs:     obs,
		logger: log.WithFields(map[string]interface{}{
			"component": "documentprocessor",
		}),
	}
}

// Start launches the worker loops and registers them on wg.
func (p *Pool) Start(ctx context.Context, wg *sync.WaitGroup) {
	p.logger.Info("starting document worker pool", map[string]interface{}{
		"workers": p.config.WorkerCount,
	})

	for i := 0; i < p.config.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p.runLoop(ctx, id)
		}(i)
	}
}

func (p *Pool) runLoop(ctx context.Context, id int) {
	log := p.logger.WithFields(map[string]interface{}{"worker": id})

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if errors.Is(err, queue.ErrClosed) || ctx.Err() != nil {
				log.Info("document worker stopped", nil)
				return
			}
			log.WithError(err).Error("unexpected dequeue failure", nil)
			continue
		}

		start := time.Now()
		handleErr := p.handler.Handle(ctx, job)
		elapsed := time.Since(start)

		metrics.PipelineJobDuration.WithLabelValues(JobType).Observe(elapsed.Seconds())
		p.obs.RecordJobDuration(ctx, JobType, elapsed)

		if handleErr != nil {
			metrics.PipelineJobsFailed.WithLabelValues(JobType, string(pipelineerrors.CodeOf(handleErr))).Inc()
			p.obs.RecordJobProcessed(ctx, JobType, "failed")
		} else {
			metrics.PipelineJobsCompleted.WithLabelValues(JobType).Inc()
			p.obs.RecordJobProcessed(ctx, JobType, "completed")
		}
	}
}
