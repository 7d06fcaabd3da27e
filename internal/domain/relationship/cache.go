package relationship

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Cache holds the active-by-pet projection used by permission checks. It is
// invalidated on every grant/revoke for the pet.
type Cache interface {
	GetActiveByPet(ctx context.Context, petID uuid.UUID) ([]Relationship, bool)
	SetActiveByPet(ctx context.Context, petID uuid.UUID, rels []Relationship, ttl time.Duration)
	DeleteByPet(ctx context.Context, petID uuid.UUID)
}

type noopCache struct{}

func (noopCache) GetActiveByPet(context.Context, uuid.UUID) ([]Relationship, bool) {
	return nil, false
}

func (noopCache) SetActiveByPet(context.Context, uuid.UUID, []Relationship, time.Duration) {}

func (noopCache) DeleteByPet(context.Context, uuid.UUID) {}
