package transfer

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	CreateRequest(ctx context.Context, req *Request) error
	GetRequest(ctx context.Context, id uuid.UUID) (*Request, error)

	// HasPendingRequest is the application-level guard behind the
	// one-pending-transfer-per-(from_user, placement_request) invariant.
	HasPendingRequest(ctx context.Context, fromUserID, placementRequestID uuid.UUID) (bool, error)

	// ResolveRequest moves the request between statuses with a
	// rows-affected guard against concurrent resolution.
	ResolveRequest(ctx context.Context, id uuid.UUID, from, to RequestStatus) (bool, error)

	ExpireOverdueRequests(ctx context.Context, now time.Time) (int64, error)

	CreateHandover(ctx context.Context, h *Handover) error
	GetHandover(ctx context.Context, id uuid.UUID) (*Handover, error)
	GetOpenHandoverByRequest(ctx context.Context, transferRequestID uuid.UUID) (*Handover, error)
	ListHandoversByRequest(ctx context.Context, transferRequestID uuid.UUID) ([]Handover, error)

	// Handover transitions, each guarded by the statuses it may leave from.
	RescheduleHandover(ctx context.Context, id uuid.UUID, scheduledAt *time.Time, location string) (bool, error)
	InitiateHandover(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	CompleteHandover(ctx context.Context, id uuid.UUID, from []HandoverStatus, at time.Time) (bool, error)
	DisputeHandover(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	CancelHandover(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}
