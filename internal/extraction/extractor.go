// internal/extraction/extractor.go
package extraction

import (
	"context"

	"cv-screening-workers/internal/models"
)

// Extractor turns raw CV text into structured candidate data. The
// document worker treats it as a black box: one call per document,
// error means the document failed.
type Extractor interface {
	Extract(ctx context.Context, rawText string, offer models.JobOffer) (*models.CVData, error)
}
