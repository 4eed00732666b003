// internal/models/cvdata.go
package models

// PersonalInfo holds the candidate identity block. Only Name is
// guaranteed by extraction.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Experience is one work-history entry.
type Experience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	StartDate        string   `json:"startDate,omitempty"`
	EndDate          string   `json:"endDate,omitempty"`
	Duration         string   `json:"duration,omitempty"`
	Responsibilities []string `json:"responsibilities,omitempty"`
	Technologies     []string `json:"technologies,omitempty"`
	IsCurrent        bool     `json:"isCurrent,omitempty"`
}

// Education is one degree or diploma entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	StartYear   int    `json:"startYear,omitempty"`
	EndYear     int    `json:"endYear,omitempty"`
}

// Certification is a professional certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Year   int    `json:"year,omitempty"`
}

// Language is a spoken-language entry.
type Language struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// CVScore holds the four sub-scores plus the weighted overall score,
// all in [0,100].
type CVScore struct {
	ExperienceScore int `json:"experienceScore"`
	SkillsScore     int `json:"skillsScore"`
	EducationScore  int `json:"educationScore"`
	JobMatchScore   int `json:"jobMatchScore"`
	OverallScore    int `json:"overallScore"`
}

// CVData is the structured result of LLM extraction for one document.
type CVData struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo"`
	Experiences    []Experience    `json:"experiences,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Languages      []Language      `json:"languages,omitempty"`
	Score          *CVScore        `json:"score,omitempty"`
}
