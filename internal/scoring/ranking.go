// internal/scoring/ranking.go
package scoring

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"cv-screening-workers/internal/models"

	"github.com/google/uuid"
)

// BuildComparisonMatrix turns a session's successfully processed
// documents into a ranked comparison matrix. Candidates are sorted by
// overall score descending with a stable tie-break (original relative
// order preserved), and Ranking is the 1-based sort position.
func BuildComparisonMatrix(session *models.Session) *models.ComparisonMatrix {
	start := time.Now()
	offer := session.JobOffer

	var candidates []models.CandidateComparison
	for _, doc := range session.ProcessedDocuments() {
		cv := doc.ExtractedData
		if cv == nil {
			continue
		}

		score := cv.Score
		if score == nil {
			computed := ScoreCandidate(cv, offer)
			score = &computed
		}

		matching := MatchingSkills(cv.Skills, offer.RequiredSkills)
		missing := MissingSkills(cv.Skills, offer.RequiredSkills)
		relevantYears := RelevantExperienceYears(cv.Experiences, offer.RequiredSkills)

		candidates = append(candidates, models.CandidateComparison{
			DocumentID:      doc.ID,
			CandidateName:   cv.PersonalInfo.Name,
			Email:           cv.PersonalInfo.Email,
			OverallScore:    score.OverallScore,
			ExperienceScore: score.ExperienceScore,
			SkillsScore:     score.SkillsScore,
			EducationScore:  score.EducationScore,
			JobMatchScore:   score.JobMatchScore,
			MatchingSkills:  matching,
			MissingSkills:   missing,
			RelevantYears:   round2(relevantYears),
			Strengths:       deriveStrengths(score, matching, relevantYears),
			Weaknesses:      deriveWeaknesses(score, missing),
			Recommendation:  Classify(score.OverallScore, len(matching), len(offer.RequiredSkills)),
		})
	}

	RankCandidates(candidates)

	return &models.ComparisonMatrix{
		ID:          uuid.NewString(),
		SessionID:   session.ID,
		Candidates:  candidates,
		Statistics:  ComputeStatistics(candidates),
		GeneratedAt: time.Now().UTC(),
		DurationMs:  time.Since(start).Milliseconds(),
	}
}

// RankCandidates sorts in place by overall score descending and
// assigns 1-based rankings. The sort is stable, so equal scores keep
// their original relative order and re-ranking an unchanged list is
// idempotent.
func RankCandidates(candidates []models.CandidateComparison) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].OverallScore > candidates[j].OverallScore
	})
	for i := range candidates {
		candidates[i].Ranking = i + 1
	}
}

// TopRecommendations returns the compact shortlist of the first n
// ranked candidates.
func TopRecommendations(matrix *models.ComparisonMatrix, n int) []models.TopRecommendation {
	if n > len(matrix.Candidates) {
		n = len(matrix.Candidates)
	}
	out := make([]models.TopRecommendation, 0, n)
	for _, c := range matrix.Candidates[:n] {
		out = append(out, models.TopRecommendation{
			CandidateName:  c.CandidateName,
			Ranking:        c.Ranking,
			OverallScore:   c.OverallScore,
			Recommendation: c.Recommendation,
		})
	}
	return out
}

// ComputeStatistics aggregates overall-score statistics, the top-10
// matching skills across the pool and the experience-tier histogram.
func ComputeStatistics(candidates []models.CandidateComparison) models.ComparisonStatistics {
	stats := models.ComparisonStatistics{CandidateCount: len(candidates)}
	if len(candidates) == 0 {
		return stats
	}

	sum := 0
	stats.MaxScore = candidates[0].OverallScore
	stats.MinScore = candidates[0].OverallScore
	for _, c := range candidates {
		sum += c.OverallScore
		if c.OverallScore > stats.MaxScore {
			stats.MaxScore = c.OverallScore
		}
		if c.OverallScore < stats.MinScore {
			stats.MinScore = c.OverallScore
		}

		switch {
		case c.RelevantYears <= 2:
			stats.JuniorCount++
		case c.RelevantYears <= 5:
			stats.MidCount++
		default:
			stats.SeniorCount++
		}
	}

	mean := float64(sum) / float64(len(candidates))
	var variance float64
	for _, c := range candidates {
		d := float64(c.OverallScore) - mean
		variance += d * d
	}
	variance /= float64(len(candidates)) // population variance

	stats.AverageScore = round2(mean)
	stats.StdDeviation = round2(math.Sqrt(variance))
	stats.TopSkills = topMatchingSkills(candidates, 10)

	return stats
}

func topMatchingSkills(candidates []models.CandidateComparison, limit int) []models.SkillFrequency {
	counts := make(map[string]int)
	casing := make(map[string]string)
	for _, c := range candidates {
		for _, s := range c.MatchingSkills {
			key := strings.ToLower(s)
			counts[key]++
			if _, ok := casing[key]; !ok {
				casing[key] = s
			}
		}
	}
	if len(counts) == 0 {
		return nil
	}

	freqs := make([]models.SkillFrequency, 0, len(counts))
	for key, count := range counts {
		freqs = append(freqs, models.SkillFrequency{
			Skill:      casing[key],
			Count:      count,
			Percentage: round2(float64(count) / float64(len(candidates)) * 100),
		})
	}
	sort.Slice(freqs, func(i, j int) bool {
		if freqs[i].Count != freqs[j].Count {
			return freqs[i].Count > freqs[j].Count
		}
		return freqs[i].Skill < freqs[j].Skill
	})

	if len(freqs) > limit {
		freqs = freqs[:limit]
	}
	return freqs
}

func deriveStrengths(score *models.CVScore, matching []string, relevantYears float64) []string {
	var out []string
	if score.ExperienceScore >= 80 {
		out = append(out, fmt.Sprintf("%.1f years of relevant experience", relevantYears))
	}
	if score.SkillsScore >= 80 && len(matching) > 0 {
		out = append(out, fmt.Sprintf("strong skill match: %s", strings.Join(matching, ", ")))
	}
	if score.EducationScore >= 100 {
		out = append(out, "education matches the required level")
	}
	return out
}

func deriveWeaknesses(score *models.CVScore, missing []string) []string {
	var out []string
	if len(missing) > 0 {
		out = append(out, fmt.Sprintf("missing required skills: %s", strings.Join(missing, ", ")))
	}
	if score.ExperienceScore < 60 {
		out = append(out, "below the required experience level")
	}
	if score.EducationScore <= 50 {
		out = append(out, "education below the required level")
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
