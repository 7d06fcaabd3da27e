package transfer

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-custody-go/internal/domain/placement"
	"pet-custody-go/internal/domain/relationship"
	"pet-custody-go/internal/events"

	"github.com/google/uuid"
)

// Ledger is the only path custody changes may take into the relationship
// store. The orchestrator never writes relationship rows directly.
type Ledger interface {
	GrantAt(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type, grantedBy uuid.UUID, startAt time.Time) (*relationship.Relationship, error)
	Revoke(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type, at time.Time, revokedBy uuid.UUID) error
	HasActive(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type) (bool, error)
}

// Placements is the slice of the placement service used on completion.
type Placements interface {
	Get(ctx context.Context, id uuid.UUID) (*placement.Request, error)
	MarkFulfilled(ctx context.Context, id, transferRequestID, actor uuid.UUID, at time.Time) error
}

type Service struct {
	repo       Repository
	ledger     Ledger
	placements Placements
	events     events.Publisher
	requestTTL time.Duration
	now        func() time.Time
}

func NewService(repo Repository, ledger Ledger, placements Placements, publisher events.Publisher, requestTTL time.Duration) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if requestTTL <= 0 {
		requestTTL = 7 * 24 * time.Hour
	}
	return &Service{
		repo:       repo,
		ledger:     ledger,
		placements: placements,
		events:     publisher,
		requestTTL: requestTTL,
		now:        time.Now,
	}
}

// Start creates the pending transfer request for an accepted response. It
// runs inside the accept transaction of the response service and enforces
// the one-pending-per-(from_user, placement_request) invariant.
func (s *Service) Start(ctx context.Context, placementRequestID, responseID, fromUserID, toUserID uuid.UUID, relType relationship.Type) (uuid.UUID, error) {
	req := &Request{
		ID:                  uuid.New(),
		PlacementRequestID:  placementRequestID,
		PlacementResponseID: responseID,
		FromUserID:          fromUserID,
		ToUserID:            toUserID,
		RelationshipType:    relType,
		Status:              RequestPending,
		ExpiresAt:           s.now().UTC().Add(s.requestTTL),
	}

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		pending, err := s.repo.HasPendingRequest(ctx, fromUserID, placementRequestID)
		if err != nil {
			return err
		}
		if pending {
			return ErrTransferPendingExists
		}
		return s.repo.CreateRequest(ctx, req)
	})
	if err != nil {
		return uuid.Nil, err
	}
	return req.ID, nil
}

func (s *Service) GetRequest(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetRequest(ctx, id)
}

// Confirm is the owner approving the transfer. It moves the request to
// confirmed and opens the first pending handover in the same transaction.
func (s *Service) Confirm(ctx context.Context, requestID, by uuid.UUID) (*Handover, error) {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.FromUserID != by {
		return nil, ErrNotParticipant
	}
	if err := s.checkPendingRequest(ctx, req); err != nil {
		return nil, err
	}

	handover := &Handover{
		ID:                uuid.New(),
		TransferRequestID: req.ID,
		OwnerUserID:       req.FromUserID,
		HelperUserID:      req.ToUserID,
		Status:            HandoverPending,
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		moved, err := s.repo.ResolveRequest(ctx, req.ID, RequestPending, RequestConfirmed)
		if err != nil {
			return err
		}
		if !moved {
			return ErrTransferResolved
		}
		return s.repo.CreateHandover(ctx, handover)
	})
	if err != nil {
		return nil, err
	}
	return handover, nil
}

// RejectRequest is the owner declining a pending transfer.
func (s *Service) RejectRequest(ctx context.Context, requestID, by uuid.UUID) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.FromUserID != by {
		return ErrNotParticipant
	}
	return s.resolvePendingRequest(ctx, req, RequestRejected)
}

// CancelRequest is the helper backing out of a pending transfer.
func (s *Service) CancelRequest(ctx context.Context, requestID, by uuid.UUID) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req.ToUserID != by {
		return ErrNotParticipant
	}
	return s.resolvePendingRequest(ctx, req, RequestCanceled)
}

// ExpireOverdueRequests is the sweep entry point.
func (s *Service) ExpireOverdueRequests(ctx context.Context) (int64, error) {
	return s.repo.ExpireOverdueRequests(ctx, s.now().UTC())
}

// ScheduleHandover creates a new pending handover for a confirmed transfer
// whose previous handover was canceled. Acceptance is not re-run.
func (s *Service) ScheduleHandover(ctx context.Context, transferRequestID, by uuid.UUID, scheduledAt *time.Time, location string) (*Handover, error) {
	req, err := s.repo.GetRequest(ctx, transferRequestID)
	if err != nil {
		return nil, err
	}
	if req.FromUserID != by {
		return nil, ErrNotParticipant
	}
	if req.Status != RequestConfirmed {
		return nil, ErrTransferNotConfirmed
	}

	now := s.now().UTC()
	handover := &Handover{
		ID:                uuid.New(),
		TransferRequestID: req.ID,
		OwnerUserID:       req.FromUserID,
		HelperUserID:      req.ToUserID,
		Status:            HandoverPending,
		ScheduledAt:       scheduledAt,
		Location:          strings.TrimSpace(location),
		OwnerInitiatedAt:  &now,
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		open, err := s.repo.GetOpenHandoverByRequest(ctx, req.ID)
		if err != nil && !errors.Is(err, ErrHandoverNotFound) {
			return err
		}
		if open != nil {
			return ErrHandoverActive
		}
		return s.repo.CreateHandover(ctx, handover)
	})
	if err != nil {
		return nil, err
	}
	return handover, nil
}

// RescheduleHandover edits the meeting details. Scheduling is a mutation,
// not a transition: the handover stays pending (or confirmed).
func (s *Service) RescheduleHandover(ctx context.Context, handoverID, by uuid.UUID, scheduledAt *time.Time, location string) error {
	h, err := s.repo.GetHandover(ctx, handoverID)
	if err != nil {
		return err
	}
	if h.OwnerUserID != by {
		return ErrNotParticipant
	}
	moved, err := s.repo.RescheduleHandover(ctx, handoverID, scheduledAt, strings.TrimSpace(location))
	if err != nil {
		return err
	}
	if !moved {
		return ErrHandoverResolved
	}
	return nil
}

// InitiateHandover is the owner marking the meeting as agreed/underway.
func (s *Service) InitiateHandover(ctx context.Context, handoverID, by uuid.UUID) error {
	h, err := s.repo.GetHandover(ctx, handoverID)
	if err != nil {
		return err
	}
	if h.OwnerUserID != by {
		return ErrNotParticipant
	}
	moved, err := s.repo.InitiateHandover(ctx, handoverID, s.now().UTC())
	if err != nil {
		return err
	}
	if !moved {
		return ErrHandoverResolved
	}
	return nil
}

// ConfirmReceipt is the helper confirming the physical handover happened.
// condition_confirmed=true completes the transfer and moves custody in the
// ledger; false opens a dispute for manual owner resolution. On a disputed
// handover the owner may re-confirm, which completes it.
func (s *Service) ConfirmReceipt(ctx context.Context, handoverID, by uuid.UUID, conditionConfirmed bool) (*Handover, error) {
	h, err := s.repo.GetHandover(ctx, handoverID)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()

	switch h.Status {
	case HandoverPending, HandoverConfirmed:
		if h.HelperUserID != by {
			return nil, ErrNotParticipant
		}
		if !conditionConfirmed {
			return s.dispute(ctx, h, by, now)
		}
		return s.complete(ctx, h, by, []HandoverStatus{HandoverPending, HandoverConfirmed}, now)
	case HandoverDisputed:
		// Manual owner recovery path.
		if h.OwnerUserID != by {
			return nil, ErrNotParticipant
		}
		if !conditionConfirmed {
			return nil, ErrHandoverResolved
		}
		return s.complete(ctx, h, by, []HandoverStatus{HandoverDisputed}, now)
	default:
		return nil, ErrHandoverResolved
	}
}

// CancelHandover voids the meeting. Either party may cancel a pending or
// confirmed handover; a disputed one only the owner may cancel.
func (s *Service) CancelHandover(ctx context.Context, handoverID, by uuid.UUID) error {
	h, err := s.repo.GetHandover(ctx, handoverID)
	if err != nil {
		return err
	}

	switch h.Status {
	case HandoverPending, HandoverConfirmed:
		if by != h.OwnerUserID && by != h.HelperUserID {
			return ErrNotParticipant
		}
	case HandoverDisputed:
		if by != h.OwnerUserID {
			return ErrNotParticipant
		}
	default:
		return ErrHandoverResolved
	}

	moved, err := s.repo.CancelHandover(ctx, handoverID, s.now().UTC())
	if err != nil {
		return err
	}
	if !moved {
		return ErrHandoverResolved
	}
	return nil
}

func (s *Service) GetHandover(ctx context.Context, id uuid.UUID) (*Handover, error) {
	return s.repo.GetHandover(ctx, id)
}

func (s *Service) ListHandovers(ctx context.Context, transferRequestID uuid.UUID) ([]Handover, error) {
	return s.repo.ListHandoversByRequest(ctx, transferRequestID)
}

// complete finalizes the handover and, in the same transaction, moves
// custody through the ledger and fulfills the placement request. A failure
// anywhere rolls the whole unit back.
func (s *Service) complete(ctx context.Context, h *Handover, by uuid.UUID, from []HandoverStatus, now time.Time) (*Handover, error) {
	req, err := s.repo.GetRequest(ctx, h.TransferRequestID)
	if err != nil {
		return nil, err
	}
	preq, err := s.placements.Get(ctx, req.PlacementRequestID)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		moved, err := s.repo.CompleteHandover(ctx, h.ID, from, now)
		if err != nil {
			return err
		}
		if !moved {
			return ErrHandoverResolved
		}

		if err := s.moveCustody(ctx, preq.PetID, req, now); err != nil {
			return err
		}

		return s.placements.MarkFulfilled(ctx, preq.ID, req.ID, req.FromUserID, now)
	})
	if err != nil {
		return nil, err
	}

	h.Status = HandoverCompleted
	h.ConditionConfirmed = true
	h.CompletedAt = &now

	s.events.Publish(ctx, events.Event{
		Name:       events.HandoverCompleted,
		Actor:      by,
		OccurredAt: now,
		Fields: map[string]string{
			"handover_id":          h.ID.String(),
			"transfer_request_id":  req.ID.String(),
			"placement_request_id": preq.ID.String(),
			"pet_id":               preq.PetID.String(),
		},
	})
	return h, nil
}

// moveCustody closes the outgoing interval and opens the incoming one. For
// ownership transfers the new owner is granted before the old one is
// revoked so the at-least-one-owner invariant holds at every instant inside
// the transaction. Foster and sitter transfers leave the owner row alone:
// only the previous holder of the same custody type, if any, is closed out.
func (s *Service) moveCustody(ctx context.Context, petID uuid.UUID, req *Request, at time.Time) error {
	relType := req.RelationshipType

	if _, err := s.ledger.GrantAt(ctx, petID, req.ToUserID, relType, req.FromUserID, at); err != nil {
		if !errors.Is(err, relationship.ErrRelationshipExists) {
			return err
		}
	}

	holds, err := s.ledger.HasActive(ctx, petID, req.FromUserID, relType)
	if err != nil {
		return err
	}
	if holds {
		return s.ledger.Revoke(ctx, petID, req.FromUserID, relType, at, req.FromUserID)
	}
	return nil
}

func (s *Service) dispute(ctx context.Context, h *Handover, by uuid.UUID, now time.Time) (*Handover, error) {
	moved, err := s.repo.DisputeHandover(ctx, h.ID, now)
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, ErrHandoverResolved
	}

	h.Status = HandoverDisputed
	h.ConditionConfirmed = false
	h.HelperConfirmedAt = &now

	s.events.Publish(ctx, events.Event{
		Name:       events.HandoverDisputed,
		Actor:      by,
		OccurredAt: now,
		Fields: map[string]string{
			"handover_id":         h.ID.String(),
			"transfer_request_id": h.TransferRequestID.String(),
		},
	})
	return h, nil
}

func (s *Service) checkPendingRequest(ctx context.Context, req *Request) error {
	switch req.Status {
	case RequestPending:
	case RequestExpired:
		return ErrTransferExpired
	default:
		return ErrTransferResolved
	}
	if s.now().UTC().After(req.ExpiresAt) {
		// Past deadline but not yet swept: equivalent to expired.
		if _, err := s.repo.ResolveRequest(ctx, req.ID, RequestPending, RequestExpired); err != nil {
			return err
		}
		return ErrTransferExpired
	}
	return nil
}

func (s *Service) resolvePendingRequest(ctx context.Context, req *Request, to RequestStatus) error {
	if err := s.checkPendingRequest(ctx, req); err != nil {
		return err
	}
	moved, err := s.repo.ResolveRequest(ctx, req.ID, RequestPending, to)
	if err != nil {
		return err
	}
	if !moved {
		return ErrTransferResolved
	}
	return nil
}
