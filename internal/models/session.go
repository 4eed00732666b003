// internal/models/session.go
package models

import (
	"math"
	"time"
)

// SessionStatus is the lifecycle state of a screening session.
type SessionStatus string

const (
	SessionStatusCreated   SessionStatus = "CREATED"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusFailed    SessionStatus = "FAILED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

// IsTerminal reports whether no further automatic transition occurs.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusFailed || s == SessionStatusCancelled
}

// JobOffer describes the position candidates are screened against.
type JobOffer struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"requiredSkills"`
	PreferredSkills []string `json:"preferredSkills,omitempty"`
	MinExperience   int      `json:"minExperienceYears"`
	EducationLevel  string   `json:"educationLevel,omitempty"`
	Location        string   `json:"location,omitempty"`
	WorkMode        string   `json:"workMode,omitempty"`
	SalaryMin       int      `json:"salaryMin,omitempty"`
	SalaryMax       int      `json:"salaryMax,omitempty"`
}

// SessionStats aggregates per-session document outcomes. COMPLETED does
// not imply every document succeeded; these counts tell the two apart.
type SessionStats struct {
	TotalDocuments     int     `json:"totalDocuments"`
	ProcessedDocuments int     `json:"processedDocuments"`
	FailedDocuments    int     `json:"failedDocuments"`
	AverageScore       float64 `json:"averageScore,omitempty"`
}

// Session is the aggregate root for one screening engagement: a job
// offer plus the CV documents uploaded against it. The store offers no
// concurrency control, so concurrent writers are last-writer-wins.
type Session struct {
	ID               string            `json:"id"`
	JobOffer         JobOffer          `json:"jobOffer"`
	Documents        []*Document       `json:"documents"`
	Status           SessionStatus     `json:"status"`
	Progress         int               `json:"progress"`
	StatusMessage    string            `json:"statusMessage,omitempty"`
	ComparisonMatrix *ComparisonMatrix `json:"comparisonMatrix,omitempty"`
	SkillGap         *SkillGapAnalysis `json:"skillGap,omitempty"`
	Stats            *SessionStats     `json:"stats,omitempty"`
	AnalysisQueuedAt *time.Time        `json:"analysisQueuedAt,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
	CompletedAt      *time.Time        `json:"completedAt,omitempty"`
}

// FindDocument returns the document with the given id, or nil.
func (s *Session) FindDocument(documentID string) *Document {
	for _, d := range s.Documents {
		if d.ID == documentID {
			return d
		}
	}
	return nil
}

// ProcessedDocuments returns the documents that finished extraction
// successfully.
func (s *Session) ProcessedDocuments() []*Document {
	var out []*Document
	for _, d := range s.Documents {
		if d.Status == DocumentStatusProcessed {
			out = append(out, d)
		}
	}
	return out
}

// AllDocumentsTerminal reports whether every document reached a
// terminal status. False for an empty document set.
func (s *Session) AllDocumentsTerminal() bool {
	if len(s.Documents) == 0 {
		return false
	}
	for _, d := range s.Documents {
		if !d.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// ComputeProgress returns the share of terminal documents as a rounded
// integer percentage.
func (s *Session) ComputeProgress() int {
	if len(s.Documents) == 0 {
		return 0
	}
	terminal := 0
	for _, d := range s.Documents {
		if d.Status.IsTerminal() {
			terminal++
		}
	}
	return int(math.Round(float64(terminal) / float64(len(s.Documents)) * 100))
}

// Touch bumps the updated timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}
