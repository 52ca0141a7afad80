package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/pigroup/internal/pigroup/domain"
)

var (
	ErrNotFound = errors.New("store: not found")

	// ErrConstraintViolation is returned when a write breaks a uniqueness or
	// foreign key constraint, e.g. inserting a membership that already exists.
	ErrConstraintViolation = errors.New("store: constraint violation")
)

// Store is the root data access interface over a Pi-hole gravity database.
// It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Groups() Groups
	Clients() Clients
	Memberships() Memberships

	// ApplyMigrations creates the subset of the gravity schema this package
	// relies on when it is missing. It never alters existing tables.
	ApplyMigrations() error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Groups interface {
	// GetGroupByName returns the group with exactly this name.
	GetGroupByName(ctx context.Context, name string) (domain.Group, error)

	// ListGroups returns all groups ordered by id.
	ListGroups(ctx context.Context) ([]domain.Group, error)
}

type Clients interface {
	// GetClientsByComment returns every client whose comment matches exactly,
	// ordered by id, with their group ids populated. An empty result is
	// ErrNotFound.
	GetClientsByComment(ctx context.Context, comment string) ([]domain.Client, error)

	// ListClients returns all clients ordered by id.
	ListClients(ctx context.Context) ([]domain.Client, error)
}

type Memberships interface {
	// AddMembership resolves the client by comment (lowest id on duplicates)
	// and the group by name, then inserts the pair. ErrNotFound when either
	// lookup fails, ErrConstraintViolation when the pair already exists.
	AddMembership(ctx context.Context, clientComment, groupName string) error

	// RemoveMembership resolves like AddMembership and deletes the pair. It
	// returns the number of rows deleted; zero is not an error.
	RemoveMembership(ctx context.Context, clientComment, groupName string) (int64, error)
}
