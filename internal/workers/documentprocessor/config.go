// internal/workers/documentprocessor/config.go
package documentprocessor

import (
	"runtime"

	"cv-screening-workers/internal/common/config"
)

type Config struct {
	// WorkerCount is the number of concurrent dequeue loops.
	WorkerCount int
}

func NewConfig(cfg config.PipelineConfig) *Config {
	count := cfg.WorkerCount
	if count <= 0 {
		count = runtime.NumCPU()
	}
	return &Config{WorkerCount: count}
}
