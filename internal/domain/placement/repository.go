package placement

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	ListByPet(ctx context.Context, petID uuid.UUID) ([]Request, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Request, error)

	// CancelIfOpen cancels the request only while it is still open. Reports
	// whether the row moved; false means a concurrent fulfillment, expiry or
	// cancel got there first.
	CancelIfOpen(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)

	// MarkFulfilled resolves the request to fulfilled, recording the
	// transfer request that did it. Open and expired-but-unswept rows both
	// qualify; cancelled rows do not.
	MarkFulfilled(ctx context.Context, id, transferRequestID uuid.UUID, at time.Time) (bool, error)

	// ExpireOverdue flips open rows whose deadline passed. Idempotent; rows
	// concurrently fulfilled are left alone.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
