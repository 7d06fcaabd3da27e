package pet

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, p *Pet) error
	GetByID(ctx context.Context, id uuid.UUID) (*Pet, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Pet, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)
}
