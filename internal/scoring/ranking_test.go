// internal/scoring/ranking_test.go
package scoring

import (
	"testing"
	"time"

	"cv-screening-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func processedDoc(id, name string, overall int, skills []string) *models.Document {
	now := time.Now().UTC()
	return &models.Document{
		ID:          id,
		Status:      models.DocumentStatusProcessed,
		UploadedAt:  now,
		ProcessedAt: &now,
		ExtractedData: &models.CVData{
			PersonalInfo: models.PersonalInfo{Name: name},
			Skills:       skills,
			Score: &models.CVScore{
				ExperienceScore: overall,
				SkillsScore:     overall,
				EducationScore:  overall,
				JobMatchScore:   overall,
				OverallScore:    overall,
			},
		},
	}
}

// Scenario: three processed documents scoring [90, 70, 50] rank 1,2,3
// with mean 70 and population stddev 16.33.
func TestBuildComparisonMatrix_RankingAndStatistics(t *testing.T) {
	session := &models.Session{
		ID:       "sess-1",
		JobOffer: models.JobOffer{RequiredSkills: []string{"Go", "SQL"}},
		Documents: []*models.Document{
			processedDoc("d1", "Alice", 90, []string{"Go", "SQL"}),
			processedDoc("d2", "Bob", 70, []string{"Go"}),
			processedDoc("d3", "Carol", 50, []string{"SQL"}),
		},
	}

	matrix := BuildComparisonMatrix(session)
	require.NotNil(t, matrix)
	require.Len(t, matrix.Candidates, 3)
	assert.Equal(t, "sess-1", matrix.SessionID)
	assert.NotEmpty(t, matrix.ID)

	assert.Equal(t, []int{1, 2, 3}, []int{
		matrix.Candidates[0].Ranking,
		matrix.Candidates[1].Ranking,
		matrix.Candidates[2].Ranking,
	})
	assert.Equal(t, "Alice", matrix.Candidates[0].CandidateName)
	assert.Equal(t, "Carol", matrix.Candidates[2].CandidateName)

	stats := matrix.Statistics
	assert.Equal(t, 3, stats.CandidateCount)
	assert.InDelta(t, 70.0, stats.AverageScore, 0.001)
	assert.Equal(t, 90, stats.MaxScore)
	assert.Equal(t, 50, stats.MinScore)
	assert.InDelta(t, 16.33, stats.StdDeviation, 0.01)
}

func TestRankCandidates_IdempotentAndStable(t *testing.T) {
	candidates := []models.CandidateComparison{
		{CandidateName: "A", OverallScore: 70},
		{CandidateName: "B", OverallScore: 90},
		{CandidateName: "C", OverallScore: 70},
	}

	RankCandidates(candidates)
	first := make([]models.CandidateComparison, len(candidates))
	copy(first, candidates)

	// Running the ranking again on the unchanged list yields the exact
	// same assignment.
	RankCandidates(candidates)
	assert.Equal(t, first, candidates)

	// Stable tie-break: A keeps its position ahead of C.
	assert.Equal(t, "B", candidates[0].CandidateName)
	assert.Equal(t, "A", candidates[1].CandidateName)
	assert.Equal(t, "C", candidates[2].CandidateName)
}

func TestBuildComparisonMatrix_SkipsUnprocessedDocuments(t *testing.T) {
	session := &models.Session{
		ID:       "sess-1",
		JobOffer: models.JobOffer{RequiredSkills: []string{"Go"}},
		Documents: []*models.Document{
			processedDoc("d1", "Alice", 90, []string{"Go"}),
			{ID: "d2", Status: models.DocumentStatusFailed, ErrorMessage: "boom"},
			{ID: "d3", Status: models.DocumentStatusUploaded},
		},
	}

	matrix := BuildComparisonMatrix(session)
	require.Len(t, matrix.Candidates, 1)
	assert.Equal(t, "d1", matrix.Candidates[0].DocumentID)
}

func TestTopRecommendations(t *testing.T) {
	session := &models.Session{
		ID:       "sess-1",
		JobOffer: models.JobOffer{RequiredSkills: []string{"Go"}},
		Documents: []*models.Document{
			processedDoc("d1", "Alice", 90, []string{"Go"}),
			processedDoc("d2", "Bob", 70, []string{"Go"}),
		},
	}
	matrix := BuildComparisonMatrix(session)

	recs := TopRecommendations(matrix, 5)
	require.Len(t, recs, 2)
	assert.Equal(t, "Alice", recs[0].CandidateName)
	assert.Equal(t, 1, recs[0].Ranking)

	recs = TopRecommendations(matrix, 1)
	require.Len(t, recs, 1)
}

func TestComputeStatistics_ExperienceTiers(t *testing.T) {
	candidates := []models.CandidateComparison{
		{OverallScore: 80, RelevantYears: 1},   // junior
		{OverallScore: 80, RelevantYears: 2},   // junior
		{OverallScore: 80, RelevantYears: 4},   // mid
		{OverallScore: 80, RelevantYears: 5},   // mid
		{OverallScore: 80, RelevantYears: 7.5}, // senior
	}

	stats := ComputeStatistics(candidates)
	assert.Equal(t, 2, stats.JuniorCount)
	assert.Equal(t, 2, stats.MidCount)
	assert.Equal(t, 1, stats.SeniorCount)
}

func TestComputeStatistics_TopSkills(t *testing.T) {
	candidates := []models.CandidateComparison{
		{OverallScore: 80, MatchingSkills: []string{"Go", "SQL"}},
		{OverallScore: 70, MatchingSkills: []string{"Go"}},
		{OverallScore: 60, MatchingSkills: []string{"go", "Docker"}},
	}

	stats := ComputeStatistics(candidates)
	require.NotEmpty(t, stats.TopSkills)
	assert.Equal(t, "Go", stats.TopSkills[0].Skill)
	assert.Equal(t, 3, stats.TopSkills[0].Count)
	assert.InDelta(t, 100.0, stats.TopSkills[0].Percentage, 0.001)
}

func TestComputeStatistics_Empty(t *testing.T) {
	stats := ComputeStatistics(nil)
	assert.Equal(t, 0, stats.CandidateCount)
	assert.Zero(t, stats.AverageScore)
}
