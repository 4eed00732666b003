// internal/workers/sessionanalyzer/config.go
package sessionanalyzer

import (
	"time"

	"cv-screening-workers/internal/common/config"
)

type Config struct {
	// Backoff is the pause after an unexpected loop-level failure.
	Backoff time.Duration
	// TopRecommendations is the shortlist size attached to the matrix.
	TopRecommendations int
}

func NewConfig(cfg config.PipelineConfig) *Config {
	return &Config{
		Backoff:            time.Duration(cfg.AnalysisBackoffSec) * time.Second,
		TopRecommendations: 5,
	}
}
