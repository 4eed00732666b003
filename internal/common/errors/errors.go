// Package errors provides the standardized error taxonomy of the
// screening pipeline. Failures are contained at the smallest scope
// (per document, per session tick, per analysis job) and converted to
// status + notification; nothing here is allowed to kill a loop.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeSessionNotFound  ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"

	ErrCodeExtractionFailed  ErrorCode = "EXTRACTION_FAILED"
	ErrCodePersistenceFailed ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeAnalysisFailed    ErrorCode = "ANALYSIS_FAILED"

	ErrCodeQueueClosed          ErrorCode = "QUEUE_CLOSED"
	ErrCodeTransientLoopFailure ErrorCode = "TRANSIENT_LOOP_FAILURE"
)

// PipelineError is a structured application error carried through the
// pipeline and surfaced on documents/sessions as status messages.
type PipelineError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("PipelineError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err, or TRANSIENT_LOOP_FAILURE for
// unclassified errors.
func CodeOf(err error) ErrorCode {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrCodeTransientLoopFailure
}

// NewSessionNotFoundError creates a non-retryable drop-the-job error.
func NewSessionNotFoundError(sessionID string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found at job time",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDocumentNotFoundError creates a non-retryable drop-the-job error.
func NewDocumentNotFoundError(sessionID, documentID string) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeDocumentNotFound,
		Message:   "Document not found in session at job time",
		Details:   fmt.Sprintf("sessionId: %s, documentId: %s", sessionID, documentID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewExtractionFailedError marks a document FAILED; the collaborator
// owns retry/backoff, so it is not retryable at this layer.
func NewExtractionFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeExtractionFailed,
		Message:   "CV extraction failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersistenceFailedError wraps a store write failure. Best-effort
// only: the caller logs it and moves on.
func NewPersistenceFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodePersistenceFailed,
		Message:   "Session store write failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewAnalysisFailedError marks a session FAILED; partial results
// persisted before the failure remain.
func NewAnalysisFailedError(err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeAnalysisFailed,
		Message:   "Session analysis failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransientLoopError wraps a loop-level (not job-specific) failure
// that triggers a backoff and resume.
func NewTransientLoopError(loop string, err error) *PipelineError {
	return &PipelineError{
		Code:      ErrCodeTransientLoopFailure,
		Message:   fmt.Sprintf("Transient failure in %s loop", loop),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
