// internal/scoring/duration.go
package scoring

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"cv-screening-workers/internal/models"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"2006",
	"Jan 2006",
	"January 2006",
	"01/2006",
}

var (
	yearsPattern  = regexp.MustCompile(`(\d+(?:[.,]\d+)?)\s*(?:years?|yrs?)`)
	monthsPattern = regexp.MustCompile(`(\d+)\s*(?:months?|mos?)`)
)

// TotalExperienceYears sums the estimated years of every experience
// entry.
func TotalExperienceYears(entries []models.Experience) float64 {
	var total float64
	for _, e := range entries {
		total += ExperienceYears(e)
	}
	return total
}

// ExperienceYears estimates the years one experience entry covers.
// Explicit start/end dates win; otherwise the free-text duration is
// parsed for year/month tokens; an unparseable entry counts as one
// year.
func ExperienceYears(e models.Experience) float64 {
	if start, ok := parseDate(e.StartDate); ok {
		end := time.Now()
		if !e.IsCurrent {
			if parsed, ok := parseDate(e.EndDate); ok {
				end = parsed
			}
		}
		years := end.Sub(start).Hours() / (24 * 365.25)
		if years < 0 {
			return 0
		}
		return years
	}
	return parseTextualYears(e.Duration)
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	lower := strings.ToLower(s)
	if lower == "present" || lower == "current" || lower == "now" {
		return time.Now(), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseTextualYears(duration string) float64 {
	duration = strings.ToLower(strings.TrimSpace(duration))
	if duration == "" {
		return 1
	}

	var years float64
	found := false

	if m := yearsPattern.FindStringSubmatch(duration); m != nil {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64); err == nil {
			years += v
			found = true
		}
	}
	if m := monthsPattern.FindStringSubmatch(duration); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			years += v / 12
			found = true
		}
	}

	if !found {
		return 1
	}
	return years
}
