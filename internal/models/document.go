// internal/models/document.go
package models

import "time"

// DocumentStatus is the processing state of one uploaded CV.
type DocumentStatus string

const (
	DocumentStatusUploaded   DocumentStatus = "UPLOADED"
	DocumentStatusExtracting DocumentStatus = "EXTRACTING"
	// DocumentStatusAnalyzing is set by the upload-side document service
	// right before extraction; the pipeline treats it like EXTRACTING.
	DocumentStatusAnalyzing DocumentStatus = "ANALYZING"
	DocumentStatusProcessed DocumentStatus = "PROCESSED"
	DocumentStatusFailed    DocumentStatus = "FAILED"
	// DocumentStatusRejected is assigned at upload validation and never
	// enters the queue pipeline.
	DocumentStatusRejected DocumentStatus = "REJECTED"
)

// IsTerminal reports whether the document left the pipeline for good.
func (s DocumentStatus) IsTerminal() bool {
	return s == DocumentStatusProcessed || s == DocumentStatusFailed || s == DocumentStatusRejected
}

// IsInFlight reports whether extraction is underway (or about to be).
func (s DocumentStatus) IsInFlight() bool {
	return s == DocumentStatusExtracting || s == DocumentStatusAnalyzing
}

// Document is one uploaded CV file and its processing state.
// ExtractedData is non-nil iff status is PROCESSED; ErrorMessage is
// non-empty iff status is FAILED.
type Document struct {
	ID            string         `json:"id"`
	SessionID     string         `json:"sessionId"`
	FileName      string         `json:"fileName"`
	FilePath      string         `json:"filePath"`
	FileSize      int64          `json:"fileSize"`
	ContentType   string         `json:"contentType"`
	Status        DocumentStatus `json:"status"`
	ExtractedData *CVData        `json:"extractedData,omitempty"`
	ExtractedText string         `json:"extractedText,omitempty"`
	ErrorMessage  string         `json:"errorMessage,omitempty"`
	UploadedAt    time.Time      `json:"uploadedAt"`
	ProcessedAt   *time.Time     `json:"processedAt,omitempty"`
	DurationMs    int64          `json:"processingDurationMs,omitempty"`
}
