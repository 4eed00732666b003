// internal/models/comparison.go
package models

import "time"

// Recommendation is the hiring recommendation category for a candidate.
type Recommendation string

const (
	RecommendationHighlyRecommended Recommendation = "HIGHLY_RECOMMENDED"
	RecommendationRecommended       Recommendation = "RECOMMENDED"
	RecommendationConsider          Recommendation = "CONSIDER"
	RecommendationNotRecommended    Recommendation = "NOT_RECOMMENDED"
)

// CandidateComparison is the per-document snapshot inside a matrix.
// Ranking is the 1-based position in the descending overall-score sort.
type CandidateComparison struct {
	DocumentID      string         `json:"documentId"`
	CandidateName   string         `json:"candidateName"`
	Email           string         `json:"email,omitempty"`
	OverallScore    int            `json:"overallScore"`
	ExperienceScore int            `json:"experienceScore"`
	SkillsScore     int            `json:"skillsScore"`
	EducationScore  int            `json:"educationScore"`
	JobMatchScore   int            `json:"jobMatchScore"`
	Ranking         int            `json:"ranking"`
	MatchingSkills  []string       `json:"matchingSkills,omitempty"`
	MissingSkills   []string       `json:"missingSkills,omitempty"`
	RelevantYears   float64        `json:"relevantExperienceYears"`
	Strengths       []string       `json:"strengths,omitempty"`
	Weaknesses      []string       `json:"weaknesses,omitempty"`
	Recommendation  Recommendation `json:"recommendation"`
}

// SkillFrequency counts how often a matching skill appears across the
// candidate pool.
type SkillFrequency struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// ComparisonStatistics summarizes the overall scores of a matrix.
type ComparisonStatistics struct {
	CandidateCount int              `json:"candidateCount"`
	AverageScore   float64          `json:"averageScore"`
	MaxScore       int              `json:"maxScore"`
	MinScore       int              `json:"minScore"`
	StdDeviation   float64          `json:"stdDeviation"`
	TopSkills      []SkillFrequency `json:"topSkills,omitempty"`
	JuniorCount    int              `json:"juniorCount"`
	MidCount       int              `json:"midCount"`
	SeniorCount    int              `json:"seniorCount"`
}

// TopRecommendation is a compact entry of the ranked shortlist derived
// from a matrix.
type TopRecommendation struct {
	CandidateName  string         `json:"candidateName"`
	Ranking        int            `json:"ranking"`
	OverallScore   int            `json:"overallScore"`
	Recommendation Recommendation `json:"recommendation"`
}

// ComparisonMatrix is the ranked, scored snapshot of every successfully
// processed candidate in a session. Candidates are sorted by overall
// score descending at generation time.
type ComparisonMatrix struct {
	ID              string                `json:"id"`
	SessionID       string                `json:"sessionId"`
	Candidates      []CandidateComparison `json:"candidates"`
	Statistics      ComparisonStatistics  `json:"statistics"`
	Recommendations []TopRecommendation   `json:"recommendations,omitempty"`
	GeneratedAt     time.Time             `json:"generatedAt"`
	DurationMs      int64                 `json:"generationDurationMs"`
}

// SkillCoverage describes how well the candidate pool covers one
// required skill.
type SkillCoverage struct {
	Skill      string  `json:"skill"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
	Scarce     bool    `json:"scarce"`
	Abundant   bool    `json:"abundant"`
	Missing    bool    `json:"missing"`
}

// SkillGapAnalysis measures required-skill coverage across processed
// documents.
type SkillGapAnalysis struct {
	Skills          []SkillCoverage `json:"skills,omitempty"`
	OverallCoverage float64         `json:"overallCoverage"`
}
