package relationship

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Transaction joins an ambient transaction from the context or starts a
	// new one. Every ledger mutation runs inside one.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// LockPet takes a row lock on the pet so ledger mutations for a single
	// pet serialize. Returns ErrPetNotFound for unknown pets.
	LockPet(ctx context.Context, petID uuid.UUID) error

	HasActive(ctx context.Context, petID, userID uuid.UUID, relType Type) (bool, error)
	GetActive(ctx context.Context, petID, userID uuid.UUID, relType Type) (*Relationship, error)
	CountActiveOwners(ctx context.Context, petID uuid.UUID) (int64, error)
	Create(ctx context.Context, rel *Relationship) error

	// End closes the active row for the tuple by setting end_at. Reports
	// whether a row was closed; false means another writer got there first.
	End(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	ListActiveByPet(ctx context.Context, petID uuid.UUID) ([]Relationship, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Relationship, error)
}
