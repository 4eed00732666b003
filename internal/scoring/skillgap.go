// internal/scoring/skillgap.go
package scoring

import (
	"strings"

	"cv-screening-workers/internal/models"
)

// AnalyzeSkillGap measures how well the processed candidate pool
// covers the offer's required skills. A skill is scarce when under
// half the documents have it, abundant at 70% or more, and missing
// when no document has it at all.
func AnalyzeSkillGap(required []string, docs []*models.Document) *models.SkillGapAnalysis {
	analysis := &models.SkillGapAnalysis{}
	if len(required) == 0 {
		analysis.OverallCoverage = 100
		return analysis
	}

	var pools []map[string]struct{}
	for _, d := range docs {
		if d.Status == models.DocumentStatusProcessed && d.ExtractedData != nil {
			pools = append(pools, normalizeSet(d.ExtractedData.Skills))
		}
	}

	covered := 0
	for _, skill := range required {
		key := strings.ToLower(strings.TrimSpace(skill))
		count := 0
		for _, pool := range pools {
			if _, ok := pool[key]; ok {
				count++
			}
		}

		pct := 0.0
		if len(pools) > 0 {
			pct = round2(float64(count) / float64(len(pools)) * 100)
		}
		if count > 0 {
			covered++
		}

		analysis.Skills = append(analysis.Skills, models.SkillCoverage{
			Skill:      skill,
			Count:      count,
			Percentage: pct,
			Scarce:     pct < 50,
			Abundant:   pct >= 70,
			Missing:    count == 0,
		})
	}

	analysis.OverallCoverage = round2(float64(covered) / float64(len(required)) * 100)
	return analysis
}
