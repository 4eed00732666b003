// Package store provides session persistence as a key-value JSON
// document store keyed by session id. No transactional guarantees:
// concurrent writers to the same session are last-writer-wins, and the
// pipeline is designed to tolerate the lost updates rather than
// prevent them.
package store

import (
	"context"
	"errors"

	"cv-screening-workers/internal/models"
)

// ErrSessionNotFound is returned by Get when no session exists for the
// given id.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore is the narrow persistence contract consumed by the
// scheduler and workers.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.Session, error)
	GetAll(ctx context.Context) ([]*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, sessionID string) error
}
