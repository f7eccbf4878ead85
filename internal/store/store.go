// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/abbasm/cashier-topup/internal/domain"
)

// Repository defines the interface for persisting conversation sessions.
type Repository interface {
	// GetSession retrieves a session by user ID. A missing session yields
	// (nil, nil); the engine creates sessions lazily.
	GetSession(ctx context.Context, userID int64) (*domain.Session, error)

	// UpsertSession creates or replaces a session record.
	UpsertSession(ctx context.Context, session *domain.Session) error

	// LoadSessions returns every persisted session, for warm-up at process
	// start.
	LoadSessions(ctx context.Context) ([]*domain.Session, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
