package response

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	Create(ctx context.Context, resp *Response) error
	GetByID(ctx context.Context, id uuid.UUID) (*Response, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Response, error)

	// HasOutstanding reports whether the helper already has a responded row
	// on the request.
	HasOutstanding(ctx context.Context, requestID, helperID uuid.UUID) (bool, error)

	// HasAccepted reports whether any response on the request is accepted.
	// Re-checked inside the accept transaction, not just before it.
	HasAccepted(ctx context.Context, requestID uuid.UUID) (bool, error)

	// Resolve moves the row from one status to another, stamping the
	// matching timestamp column. Reports whether the row was still in the
	// expected status.
	Resolve(ctx context.Context, id uuid.UUID, from, to Status, at time.Time) (bool, error)
}
