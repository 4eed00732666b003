// internal/extraction/client.go
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	commonhttp "cv-screening-workers/internal/common/http"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/models"

	"github.com/xeipuuv/gojsonschema"
)

var (
	ErrExtractionTimeout = errors.New("EXTRACTION_TIMEOUT")
	ErrExtractionFailed  = errors.New("EXTRACTION_FAILED")
)

// Client calls the GenAI extraction endpoint and validates the
// structured response before handing it to the pipeline.
type Client struct {
	config *Config
	client *commonhttp.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	return &Client{
		config: config,
		// Zero backstop: the per-call context carries the deadline.
		client: commonhttp.NewClient(0),
		logger: log.WithFields(map[string]interface{}{
			"component": "extraction",
		}),
	}
}

func (c *Client) Extract(ctx context.Context, rawText string, offer models.JobOffer) (*models.CVData, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	requestBody := map[string]interface{}{
		"text": rawText,
		"job_context": map[string]interface{}{
			"title":            offer.Title,
			"required_skills":  offer.RequiredSkills,
			"preferred_skills": offer.PreferredSkills,
			"min_experience":   offer.MinExperience,
			"education_level":  offer.EducationLevel,
		},
	}
	body, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ErrExtractionTimeout
			}
		}

		resp, lastErr = c.client.PostJSON(ctx, c.config.BaseURL+"/api/ai/extract-cv", body, c.config.APIKey)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return nil, ErrExtractionTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrExtractionTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, lastErr)
	}
	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrExtractionFailed)
	}
	defer resp.Body.Close()

	var cv models.CVData
	if err := json.NewDecoder(resp.Body).Decode(&cv); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrExtractionFailed, err)
	}

	if err := validateCVData(&cv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	c.logger.Info("CV extraction completed", map[string]interface{}{
		"candidate":   cv.PersonalInfo.Name,
		"skills":      len(cv.Skills),
		"experiences": len(cv.Experiences),
	})

	return &cv, nil
}

const cvDataSchema = `{
	"type": "object",
	"properties": {
		"personalInfo": {
			"type": "object",
			"properties": {
				"name": {"type": "string", "minLength": 1}
			},
			"required": ["name"]
		},
		"score": {
			"type": ["object", "null"],
			"properties": {
				"experienceScore": {"type": "integer", "minimum": 0, "maximum": 100},
				"skillsScore":     {"type": "integer", "minimum": 0, "maximum": 100},
				"educationScore":  {"type": "integer", "minimum": 0, "maximum": 100},
				"jobMatchScore":   {"type": "integer", "minimum": 0, "maximum": 100},
				"overallScore":    {"type": "integer", "minimum": 0, "maximum": 100}
			}
		}
	},
	"required": ["personalInfo"]
}`

func validateCVData(cv *models.CVData) error {
	schemaLoader := gojsonschema.NewStringLoader(cvDataSchema)
	documentLoader := gojsonschema.NewGoLoader(cv)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %v", err)
	}
	if !result.Valid() {
		var msgs []string
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("invalid extraction response: %s", strings.Join(msgs, "; "))
	}
	return nil
}
