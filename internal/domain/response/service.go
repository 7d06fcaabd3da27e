package response

import (
	"context"
	"strings"
	"time"

	"pet-custody-go/internal/domain/placement"
	"pet-custody-go/internal/domain/relationship"
	"pet-custody-go/internal/events"

	"github.com/google/uuid"
)

// Placements is the slice of the placement service this package needs.
type Placements interface {
	Get(ctx context.Context, id uuid.UUID) (*placement.Request, error)
	GetOpen(ctx context.Context, id uuid.UUID) (*placement.Request, error)
}

// TransferStarter creates the pending transfer request when a response is
// accepted. Implemented by the transfer orchestrator; called inside the
// accept transaction.
type TransferStarter interface {
	Start(ctx context.Context, placementRequestID, responseID, fromUserID, toUserID uuid.UUID, relType relationship.Type) (uuid.UUID, error)
}

type Service struct {
	repo       Repository
	placements Placements
	transfers  TransferStarter
	events     events.Publisher
	now        func() time.Time
}

func NewService(repo Repository, placements Placements, transfers TransferStarter, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:       repo,
		placements: placements,
		transfers:  transfers,
		events:     publisher,
		now:        time.Now,
	}
}

// Respond records a helper's reply to an open placement request. A second
// call while a responded row is outstanding conflicts.
func (s *Service) Respond(ctx context.Context, requestID, helperID uuid.UUID, message string) (*Response, error) {
	req, err := s.placements.GetOpen(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID == helperID {
		return nil, ErrOwnRequest
	}

	resp := &Response{
		ID:                 uuid.New(),
		PlacementRequestID: requestID,
		HelperUserID:       helperID,
		Status:             StatusResponded,
		Message:            strings.TrimSpace(message),
		RespondedAt:        s.now().UTC(),
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		outstanding, err := s.repo.HasOutstanding(ctx, requestID, helperID)
		if err != nil {
			return err
		}
		if outstanding {
			return ErrResponseOutstanding
		}
		return s.repo.Create(ctx, resp)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Accept marks the response accepted and opens the pending transfer request
// in the same transaction. The single-accept invariant is re-checked inside
// the transaction, so a concurrently accepted sibling surfaces as
// ErrResponseAlreadyAccepted.
func (s *Service) Accept(ctx context.Context, responseID, ownerID uuid.UUID) (*Response, error) {
	var resp *Response
	now := s.now().UTC()

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		var err error
		resp, err = s.repo.GetByID(ctx, responseID)
		if err != nil {
			return err
		}

		req, err := s.placements.GetOpen(ctx, resp.PlacementRequestID)
		if err != nil {
			return err
		}
		if req.UserID != ownerID {
			return ErrNotRequestOwner
		}
		if resp.Status != StatusResponded {
			return ErrResponseResolved
		}

		accepted, err := s.repo.HasAccepted(ctx, resp.PlacementRequestID)
		if err != nil {
			return err
		}
		if accepted {
			return ErrResponseAlreadyAccepted
		}

		moved, err := s.repo.Resolve(ctx, responseID, StatusResponded, StatusAccepted, now)
		if err != nil {
			return err
		}
		if !moved {
			return ErrResponseResolved
		}

		_, err = s.transfers.Start(ctx, req.ID, resp.ID, req.UserID, resp.HelperUserID, req.RequestType.GrantedRelationship())
		return err
	})
	if err != nil {
		return nil, err
	}

	resp.Status = StatusAccepted
	resp.AcceptedAt = &now

	s.events.Publish(ctx, events.Event{
		Name:       events.ResponseAccepted,
		Actor:      ownerID,
		OccurredAt: now,
		Fields: map[string]string{
			"response_id":          resp.ID.String(),
			"placement_request_id": resp.PlacementRequestID.String(),
			"helper_user_id":       resp.HelperUserID.String(),
		},
	})
	return resp, nil
}

// Reject is the owner's terminal no.
func (s *Service) Reject(ctx context.Context, responseID, ownerID uuid.UUID) error {
	resp, err := s.repo.GetByID(ctx, responseID)
	if err != nil {
		return err
	}
	req, err := s.placements.Get(ctx, resp.PlacementRequestID)
	if err != nil {
		return err
	}
	if req.UserID != ownerID {
		return ErrNotRequestOwner
	}
	return s.resolve(ctx, resp, StatusRejected)
}

// Cancel is the helper withdrawing their own response.
func (s *Service) Cancel(ctx context.Context, responseID, helperID uuid.UUID) error {
	resp, err := s.repo.GetByID(ctx, responseID)
	if err != nil {
		return err
	}
	if resp.HelperUserID != helperID {
		return ErrNotHelper
	}
	return s.resolve(ctx, resp, StatusCancelled)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Response, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]Response, error) {
	return s.repo.ListByRequest(ctx, requestID)
}

func (s *Service) resolve(ctx context.Context, resp *Response, to Status) error {
	if resp.Status != StatusResponded {
		return ErrResponseResolved
	}
	moved, err := s.repo.Resolve(ctx, resp.ID, StatusResponded, to, s.now().UTC())
	if err != nil {
		return err
	}
	if !moved {
		return ErrResponseResolved
	}
	return nil
}
