package database

import (
	"context"
	"errors"

	"github.com/yeremiapane/gobblego/models"
)

// ErrNotFound is returned when no record has been persisted yet.
var ErrNotFound = errors.New("record not found")

// Store is the client-side persistence for the session identity record and the
// denormalized cart snapshot. Both are advisory caches; the backend is the authority.
type Store interface {
	SaveSession(ctx context.Context, session models.Session) error
	LoadSession(ctx context.Context) (*models.Session, error)
	ClearSession(ctx context.Context) error

	SaveCartSnapshot(ctx context.Context, snapshot models.CartSnapshot) error
	LoadCartSnapshot(ctx context.Context) (*models.CartSnapshot, error)

	Close() error
}
