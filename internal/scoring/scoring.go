// Package scoring implements the pure scoring, ranking and statistics
// engine. No I/O: everything here is a function of extracted CV data
// and the job offer, shared by the document pipeline and the session
// analyzer.
package scoring

import (
	"math"
	"strings"

	"cv-screening-workers/internal/models"
)

// normalizeSet lowercases and trims a skill list into a lookup set.
func normalizeSet(skills []string) map[string]struct{} {
	set := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	return set
}

// MatchingSkills returns the case-insensitive intersection of the
// candidate's skills with the required list, preserving the job
// offer's casing.
func MatchingSkills(candidate, required []string) []string {
	have := normalizeSet(candidate)
	var out []string
	for _, r := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(r))]; ok {
			out = append(out, r)
		}
	}
	return out
}

// MissingSkills returns the required skills the candidate lacks,
// preserving the job offer's casing.
func MissingSkills(candidate, required []string) []string {
	have := normalizeSet(candidate)
	var out []string
	for _, r := range required {
		if _, ok := have[strings.ToLower(strings.TrimSpace(r))]; !ok {
			out = append(out, r)
		}
	}
	return out
}

// ExperienceScore maps total experience years against the offer's
// required minimum:
//
//	T >= 1.5R -> 100, T >= R -> 80, T >= 0.7R -> 60,
//	else floor(40*T/R) clamped at 0.
func ExperienceScore(totalYears float64, requiredYears int) int {
	if requiredYears <= 0 {
		return 100
	}
	r := float64(requiredYears)
	switch {
	case totalYears >= 1.5*r:
		return 100
	case totalYears >= r:
		return 80
	case totalYears >= 0.7*r:
		return 60
	default:
		score := int(math.Floor(40 * totalYears / r))
		if score < 0 {
			score = 0
		}
		return score
	}
}

// SkillsScore weighs required coverage at 80 points and preferred
// coverage at 20. An unspecified list yields its full share.
func SkillsScore(candidate, required, preferred []string) int {
	requiredScore := 80.0
	if len(required) > 0 {
		requiredScore = 80 * float64(len(MatchingSkills(candidate, required))) / float64(len(required))
	}

	preferredScore := 20.0
	if len(preferred) > 0 {
		preferredScore = 20 * float64(len(MatchingSkills(candidate, preferred))) / float64(len(preferred))
	}

	score := int(math.Round(requiredScore + preferredScore))
	if score > 100 {
		score = 100
	}
	return score
}

// EducationScore is neutral (70) when the offer names no level, 100
// when any degree text contains the required level, else 50.
func EducationScore(education []models.Education, requiredLevel string) int {
	requiredLevel = strings.ToLower(strings.TrimSpace(requiredLevel))
	if requiredLevel == "" {
		return 70
	}
	for _, e := range education {
		if strings.Contains(strings.ToLower(e.Degree), requiredLevel) {
			return 100
		}
	}
	return 50
}

// JobMatchScore is a base 70 plus 5 points per matching required
// skill, capped at 100.
func JobMatchScore(matchingCount int) int {
	bonus := 5 * matchingCount
	if bonus > 30 {
		bonus = 30
	}
	return 70 + bonus
}

// OverallScore is the weighted blend of the four sub-scores.
func OverallScore(experience, skills, education, jobMatch int) int {
	return int(math.Round(
		0.3*float64(experience) +
			0.4*float64(skills) +
			0.2*float64(education) +
			0.1*float64(jobMatch)))
}

// ScoreCandidate computes the full CVScore for one extracted CV
// against a job offer.
func ScoreCandidate(cv *models.CVData, offer models.JobOffer) models.CVScore {
	totalYears := TotalExperienceYears(cv.Experiences)
	matching := len(MatchingSkills(cv.Skills, offer.RequiredSkills))

	experience := ExperienceScore(totalYears, offer.MinExperience)
	skills := SkillsScore(cv.Skills, offer.RequiredSkills, offer.PreferredSkills)
	education := EducationScore(cv.Education, offer.EducationLevel)
	jobMatch := JobMatchScore(matching)

	return models.CVScore{
		ExperienceScore: experience,
		SkillsScore:     skills,
		EducationScore:  education,
		JobMatchScore:   jobMatch,
		OverallScore:    OverallScore(experience, skills, education, jobMatch),
	}
}

// RelevantExperienceYears sums the years of entries judged relevant to
// the offer: the entry's technologies intersect the required skills,
// or its position text contains a required skill token.
func RelevantExperienceYears(entries []models.Experience, required []string) float64 {
	var total float64
	for _, e := range entries {
		if isRelevant(e, required) {
			total += ExperienceYears(e)
		}
	}
	return total
}

func isRelevant(e models.Experience, required []string) bool {
	if len(MatchingSkills(e.Technologies, required)) > 0 {
		return true
	}
	position := strings.ToLower(e.Position)
	for _, r := range required {
		r = strings.ToLower(strings.TrimSpace(r))
		if r != "" && strings.Contains(position, r) {
			return true
		}
	}
	return false
}

// Classify maps an overall score and required-skill match ratio to a
// hiring recommendation category.
func Classify(overall, matchingCount, requiredCount int) models.Recommendation {
	ratio := 1.0
	if requiredCount > 0 {
		ratio = float64(matchingCount) / float64(requiredCount)
	}

	switch {
	case overall >= 85 && ratio >= 0.8:
		return models.RecommendationHighlyRecommended
	case overall >= 70 && ratio >= 0.6:
		return models.RecommendationRecommended
	case overall >= 50:
		return models.RecommendationConsider
	default:
		return models.RecommendationNotRecommended
	}
}
