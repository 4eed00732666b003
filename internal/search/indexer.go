// internal/search/indexer.go

// Package search mirrors finished comparison matrices into
// Elasticsearch so recruiters can query candidates across sessions.
// Indexing is best-effort: a search outage never fails an analysis.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cv-screening-workers/internal/common/database"
	"cv-screening-workers/internal/common/logger"
	"cv-screening-workers/internal/models"
)

type Indexer struct {
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

func NewIndexer(es *database.ElasticsearchClient, index string, log logger.Logger) *Indexer {
	return &Indexer{
		es:    es,
		index: index,
		logger: log.WithFields(map[string]interface{}{
			"component": "search",
			"index":     index,
		}),
	}
}

type candidateDocument struct {
	SessionID      string                `json:"sessionId"`
	MatrixID       string                `json:"matrixId"`
	DocumentID     string                `json:"documentId"`
	CandidateName  string                `json:"candidateName"`
	Email          string                `json:"email,omitempty"`
	OverallScore   int                   `json:"overallScore"`
	Ranking        int                   `json:"ranking"`
	MatchingSkills []string              `json:"matchingSkills,omitempty"`
	MissingSkills  []string              `json:"missingSkills,omitempty"`
	RelevantYears  float64               `json:"relevantYears"`
	Recommendation models.Recommendation `json:"recommendation"`
	JobTitle       string                `json:"jobTitle,omitempty"`
	IndexedAt      time.Time             `json:"indexedAt"`
}

// IndexMatrix writes one document per ranked candidate. Individual
// index failures are logged and counted, not returned.
func (i *Indexer) IndexMatrix(ctx context.Context, session *models.Session, matrix *models.ComparisonMatrix) {
	indexed, failed := 0, 0

	for _, candidate := range matrix.Candidates {
		doc := candidateDocument{
			SessionID:      session.ID,
			MatrixID:       matrix.ID,
			DocumentID:     candidate.DocumentID,
			CandidateName:  candidate.CandidateName,
			Email:          candidate.Email,
			OverallScore:   candidate.OverallScore,
			Ranking:        candidate.Ranking,
			MatchingSkills: candidate.MatchingSkills,
			MissingSkills:  candidate.MissingSkills,
			RelevantYears:  candidate.RelevantYears,
			Recommendation: candidate.Recommendation,
			JobTitle:       session.JobOffer.Title,
			IndexedAt:      time.Now().UTC(),
		}

		if err := i.indexOne(ctx, fmt.Sprintf("%s-%s", matrix.ID, candidate.DocumentID), doc); err != nil {
			failed++
			i.logger.WithError(err).Warn("failed to index candidate", map[string]interface{}{
				"sessionId":  session.ID,
				"documentId": candidate.DocumentID,
			})
			continue
		}
		indexed++
	}

	i.logger.Info("comparison matrix indexed", map[string]interface{}{
		"sessionId": session.ID,
		"matrixId":  matrix.ID,
		"indexed":   indexed,
		"failed":    failed,
	})
}

func (i *Indexer) indexOne(ctx context.Context, docID string, doc candidateDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal candidate document: %w", err)
	}

	res, err := i.es.Client.Index(
		i.index,
		bytes.NewReader(body),
		i.es.Client.Index.WithDocumentID(docID),
		i.es.Client.Index.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index response: %s", res.Status())
	}
	return nil
}
