// internal/scoring/scoring_test.go
package scoring

import (
	"testing"

	"cv-screening-workers/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name     string
		years    float64
		required int
		expected int
	}{
		{"well above requirement", 9, 5, 100},  // 9 >= 7.5
		{"meets requirement", 6, 5, 80},        // 6 >= 5, < 7.5
		{"close to requirement", 4, 5, 60},     // 4 >= 3.5
		{"below requirement", 2, 5, 16},        // floor(40*2/5)
		{"zero experience", 0, 5, 0},
		{"no requirement", 0, 0, 100},
		{"exactly 1.5x", 7.5, 5, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExperienceScore(tt.years, tt.required))
		})
	}
}

func TestSkillsScore(t *testing.T) {
	candidate := []string{"C#", "SQL", "Azure"}

	// Full required coverage, no preferred list specified.
	assert.Equal(t, 100, SkillsScore(candidate, []string{"C#", "SQL"}, nil))

	// Half required coverage: 40 + 20 default preferred.
	assert.Equal(t, 60, SkillsScore(candidate, []string{"C#", "Rust"}, nil))

	// Case-insensitive intersection.
	assert.Equal(t, 100, SkillsScore([]string{"c#", "sql"}, []string{"C#", "SQL"}, nil))

	// Preferred coverage counted at 20 points.
	assert.Equal(t, 90, SkillsScore(candidate, []string{"C#", "SQL"}, []string{"Azure", "AWS"}))

	// No required skills specified defaults to the full 80.
	assert.Equal(t, 100, SkillsScore(candidate, nil, nil))
}

func TestEducationScore(t *testing.T) {
	education := []models.Education{
		{Institution: "MIT", Degree: "Master of Science"},
	}

	assert.Equal(t, 70, EducationScore(education, ""))
	assert.Equal(t, 100, EducationScore(education, "master"))
	assert.Equal(t, 50, EducationScore(education, "phd"))
	assert.Equal(t, 50, EducationScore(nil, "bachelor"))
}

func TestJobMatchScore(t *testing.T) {
	assert.Equal(t, 70, JobMatchScore(0))
	assert.Equal(t, 80, JobMatchScore(2))
	assert.Equal(t, 100, JobMatchScore(6))
	assert.Equal(t, 100, JobMatchScore(20)) // capped
}

// Scenario: required ["C#","SQL"], min experience 5; candidate with
// ["C#","SQL","Azure"] and 6 years of relevant experience.
func TestScoreCandidate_ReferenceScenario(t *testing.T) {
	offer := models.JobOffer{
		RequiredSkills: []string{"C#", "SQL"},
		MinExperience:  5,
	}
	cv := &models.CVData{
		PersonalInfo: models.PersonalInfo{Name: "Jane Doe"},
		Skills:       []string{"C#", "SQL", "Azure"},
		Experiences: []models.Experience{
			{
				Company:      "Acme",
				Position:     "C# Developer",
				Duration:     "6 years",
				Technologies: []string{"C#", "SQL"},
			},
		},
	}

	score := ScoreCandidate(cv, offer)
	assert.Equal(t, 80, score.ExperienceScore) // 6 >= 5 but < 7.5
	assert.Equal(t, 100, score.SkillsScore)
	assert.Equal(t, 70, score.EducationScore) // no level specified
	assert.Equal(t, 80, score.JobMatchScore)  // 70 + 5*2
	// round(0.3*80 + 0.4*100 + 0.2*70 + 0.1*80) = round(86) = 86
	assert.Equal(t, 86, score.OverallScore)

	matching := MatchingSkills(cv.Skills, offer.RequiredSkills)
	rec := Classify(score.OverallScore, len(matching), len(offer.RequiredSkills))
	assert.Equal(t, models.RecommendationHighlyRecommended, rec)
}

func TestScoreBounds(t *testing.T) {
	offers := []models.JobOffer{
		{},
		{RequiredSkills: []string{"Go"}, MinExperience: 10, EducationLevel: "PhD"},
		{RequiredSkills: []string{"Go", "SQL", "K8s", "AWS", "Rust", "C", "C++", "Java"}, PreferredSkills: []string{"Bash"}},
	}
	cvs := []*models.CVData{
		{},
		{Skills: []string{"Go", "SQL", "K8s", "AWS", "Rust", "C", "C++", "Java", "Bash"}},
		{
			Skills:      []string{"Go"},
			Experiences: []models.Experience{{Duration: "40 years"}},
			Education:   []models.Education{{Degree: "PhD in CS"}},
		},
	}

	for _, offer := range offers {
		for _, cv := range cvs {
			score := ScoreCandidate(cv, offer)
			for _, v := range []int{
				score.ExperienceScore, score.SkillsScore,
				score.EducationScore, score.JobMatchScore, score.OverallScore,
			} {
				assert.GreaterOrEqual(t, v, 0)
				assert.LessOrEqual(t, v, 100)
			}
		}
	}
}

func TestMatchingAndMissingSkills(t *testing.T) {
	candidate := []string{"go", " SQL ", "Docker"}
	required := []string{"Go", "SQL", "Kubernetes"}

	assert.Equal(t, []string{"Go", "SQL"}, MatchingSkills(candidate, required))
	assert.Equal(t, []string{"Kubernetes"}, MissingSkills(candidate, required))
	assert.Empty(t, MatchingSkills(nil, nil))
}

func TestRelevantExperienceYears(t *testing.T) {
	required := []string{"Go", "SQL"}
	entries := []models.Experience{
		// Relevant via technologies.
		{Position: "Engineer", Technologies: []string{"Go"}, Duration: "3 years"},
		// Relevant via position substring.
		{Position: "Senior SQL Analyst", Duration: "2 years"},
		// Not relevant.
		{Position: "Barista", Duration: "4 years"},
	}

	assert.InDelta(t, 5.0, RelevantExperienceYears(entries, required), 0.01)
	assert.Zero(t, RelevantExperienceYears(entries, []string{"Rust"}))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		overall  int
		matching int
		required int
		expected models.Recommendation
	}{
		{90, 2, 2, models.RecommendationHighlyRecommended},
		{85, 4, 5, models.RecommendationHighlyRecommended},
		{90, 1, 2, models.RecommendationConsider}, // ratio 0.5 blocks both upper tiers
		{75, 2, 3, models.RecommendationRecommended},
		{60, 0, 2, models.RecommendationConsider},
		{40, 2, 2, models.RecommendationNotRecommended},
		{85, 0, 0, models.RecommendationHighlyRecommended}, // no required skills => ratio 1.0
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Classify(tt.overall, tt.matching, tt.required))
	}
}

func TestExperienceYears_TextualParsing(t *testing.T) {
	tests := []struct {
		duration string
		expected float64
	}{
		{"6 years", 6},
		{"2 yrs", 2},
		{"18 months", 1.5},
		{"2 years 6 months", 2.5},
		{"1.5 years", 1.5},
		{"some time", 1}, // unparseable defaults to one year
		{"", 1},
	}

	for _, tt := range tests {
		t.Run(tt.duration, func(t *testing.T) {
			years := ExperienceYears(models.Experience{Duration: tt.duration})
			assert.InDelta(t, tt.expected, years, 0.01)
		})
	}
}

func TestExperienceYears_ExplicitDates(t *testing.T) {
	years := ExperienceYears(models.Experience{
		StartDate: "2018-01",
		EndDate:   "2021-01",
	})
	assert.InDelta(t, 3.0, years, 0.05)

	// End before start clamps to zero.
	assert.Zero(t, ExperienceYears(models.Experience{
		StartDate: "2021-01",
		EndDate:   "2019-01",
	}))
}
