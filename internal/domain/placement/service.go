package placement

import (
	"context"
	"strings"
	"time"

	"pet-custody-go/internal/db"
	"pet-custody-go/internal/domain/relationship"
	"pet-custody-go/internal/events"

	"github.com/google/uuid"
)

const defaultRequestTTL = 30 * 24 * time.Hour

// Ledger is the capability check against the relationship ledger.
type Ledger interface {
	HasActive(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type) (bool, error)
}

type Service struct {
	repo   Repository
	ledger Ledger
	events events.Publisher
	now    func() time.Time
}

func NewService(repo Repository, ledger Ledger, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:   repo,
		ledger: ledger,
		events: publisher,
		now:    time.Now,
	}
}

type CreateInput struct {
	PetID       uuid.UUID
	OwnerID     uuid.UUID
	RequestType RequestType
	Notes       string
	ExpiresAt   time.Time
	StartDate   *time.Time
	EndDate     *time.Time
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Request, error) {
	if !in.RequestType.Valid() {
		return nil, ErrInvalidRequestType
	}

	isOwner, err := s.ledger.HasActive(ctx, in.PetID, in.OwnerID, relationship.TypeOwner)
	if err != nil {
		return nil, err
	}
	if !isOwner {
		return nil, ErrNotOwner
	}

	now := s.now().UTC()
	expiresAt := in.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(defaultRequestTTL)
	}

	req := &Request{
		ID:          uuid.New(),
		PetID:       in.PetID,
		UserID:      in.OwnerID,
		RequestType: in.RequestType,
		Status:      StatusOpen,
		Notes:       strings.TrimSpace(in.Notes),
		ExpiresAt:   expiresAt.UTC(),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

// GetOpen loads the request and validates it still accepts actions. Used by
// the response service before letting helpers in.
func (s *Service) GetOpen(ctx context.Context, id uuid.UUID) (*Request, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != StatusOpen {
		return nil, ErrRequestClosed
	}
	if s.now().UTC().After(req.ExpiresAt) {
		return nil, ErrRequestExpired
	}
	return req, nil
}

func (s *Service) ListByPet(ctx context.Context, petID uuid.UUID) ([]Request, error) {
	return s.repo.ListByPet(ctx, petID)
}

func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Request, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Cancel moves an open request to cancelled. If a concurrent transfer
// already fulfilled it, Cancel is a no-op success: fulfillment wins.
func (s *Service) Cancel(ctx context.Context, id, by uuid.UUID) error {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.UserID != by {
		return ErrNotOwner
	}

	switch req.Status {
	case StatusFulfilled:
		return nil
	case StatusCancelled, StatusExpired:
		return ErrRequestClosed
	}

	moved, err := s.repo.CancelIfOpen(ctx, id, s.now().UTC())
	if err != nil {
		return err
	}
	if moved {
		return nil
	}

	// Lost the race; only a concurrent fulfillment is a silent success.
	req, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if req.Status == StatusFulfilled {
		return nil
	}
	return ErrRequestClosed
}

// MarkFulfilled is the orchestrator-only hook invoked inside the handover
// completion transaction.
func (s *Service) MarkFulfilled(ctx context.Context, id, transferRequestID, actor uuid.UUID, at time.Time) error {
	moved, err := s.repo.MarkFulfilled(ctx, id, transferRequestID, at.UTC())
	if err != nil {
		return err
	}
	if !moved {
		req, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if req.Status == StatusFulfilled {
			return nil
		}
		return ErrRequestClosed
	}

	// Fired inside the handover completion unit; the event waits for its
	// commit so an aborted completion emits nothing.
	db.AfterCommit(ctx, func(ctx context.Context) {
		s.events.Publish(ctx, events.Event{
			Name:       events.PlacementRequestFulfilled,
			Actor:      actor,
			OccurredAt: at.UTC(),
			Fields: map[string]string{
				"placement_request_id": id.String(),
				"transfer_request_id":  transferRequestID.String(),
			},
		})
	})
	return nil
}

// ExpireOverdue is the sweep entry point.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.repo.ExpireOverdue(ctx, s.now().UTC())
}
