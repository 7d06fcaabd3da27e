package invitation

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, inv *Invitation) error
	GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error)
	GetByToken(ctx context.Context, token string) (*Invitation, error)
	ListByPet(ctx context.Context, petID uuid.UUID) ([]Invitation, error)

	// UpdateStatus moves the row from one status to another. Reports whether
	// the row was in the expected status; the guard is the optimistic check
	// against concurrent resolution.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error)

	// MarkAccepted resolves a pending invitation to accepted, recording who
	// redeemed it and when. Same rows-affected guard as UpdateStatus.
	MarkAccepted(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error)

	// ExpireOverdue flips pending rows whose deadline passed. Idempotent.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
