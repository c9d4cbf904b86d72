// Package store persists lead records behind a small interface with
// SQLite and Postgres backends. The intelligence engines are pure
// readers; the store is the only component that creates or mutates
// leads.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/clientry/leadintel/internal/model"
)

// ErrNotFound is returned when a lead id does not exist.
var ErrNotFound = eris.New("store: lead not found")

// Store defines the persistence interface for leads.
type Store interface {
	CreateLead(ctx context.Context, lead model.Lead) (*model.Lead, error)
	UpdateLead(ctx context.Context, lead model.Lead) error
	GetLead(ctx context.Context, id string) (*model.Lead, error)
	ListLeads(ctx context.Context) ([]model.Lead, error)
	DeleteLead(ctx context.Context, id string) error

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
