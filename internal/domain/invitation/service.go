package invitation

import (
	"context"
	"errors"
	"time"

	"pet-custody-go/internal/domain/relationship"
	"pet-custody-go/internal/events"

	"github.com/google/uuid"
)

// Ledger is the slice of the relationship service this package needs.
type Ledger interface {
	Grant(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type, grantedBy uuid.UUID) (*relationship.Relationship, error)
	HasActive(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type) (bool, error)
}

type Service struct {
	repo       Repository
	ledger     Ledger
	tokens     *TokenSigner
	events     events.Publisher
	defaultTTL time.Duration
	maxTTL     time.Duration
	now        func() time.Time
}

func NewService(repo Repository, ledger Ledger, tokens *TokenSigner, publisher events.Publisher, defaultTTL, maxTTL time.Duration) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:       repo,
		ledger:     ledger,
		tokens:     tokens,
		events:     publisher,
		defaultTTL: defaultTTL,
		maxTTL:     maxTTL,
		now:        time.Now,
	}
}

// Create issues a pending invitation. Owners may invite owners, editors and
// viewers; editors may invite editors and viewers only.
func (s *Service) Create(ctx context.Context, petID, invitedBy uuid.UUID, relType relationship.Type, ttl time.Duration) (*Invitation, error) {
	if !Invitable(relType) {
		return nil, ErrTypeNotInvitable
	}

	allowed, err := s.canInvite(ctx, petID, invitedBy, relType)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrInviteForbidden
	}

	if ttl <= 0 {
		ttl = s.defaultTTL
	}
	if s.maxTTL > 0 && ttl > s.maxTTL {
		ttl = s.maxTTL
	}

	now := s.now().UTC()
	inv := &Invitation{
		ID:               uuid.New(),
		PetID:            petID,
		InvitedByUserID:  invitedBy,
		RelationshipType: relType,
		Status:           StatusPending,
		ExpiresAt:        now.Add(ttl),
	}

	token, err := s.tokens.Sign(inv.ID, now, inv.ExpiresAt)
	if err != nil {
		return nil, err
	}
	inv.Token = token

	if err := s.repo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, events.Event{
		Name:       events.InvitationCreated,
		Actor:      invitedBy,
		OccurredAt: now,
		Fields: map[string]string{
			"invitation_id":     inv.ID.String(),
			"pet_id":            petID.String(),
			"relationship_type": string(relType),
		},
	})
	return inv, nil
}

// Redeem resolves a pending invitation and grants the relationship in one
// transaction: the token is never marked accepted without the relationship
// existing, and vice versa. Redeeming a type the user already actively holds
// is an idempotent success.
func (s *Service) Redeem(ctx context.Context, token string, userID uuid.UUID) (*Invitation, error) {
	if err := s.tokens.Verify(token); err != nil {
		return nil, ErrInvitationNotFound
	}

	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if inv.Terminal() {
		if inv.Status == StatusExpired {
			return nil, ErrInvitationExpired
		}
		return nil, ErrInvitationResolved
	}

	now := s.now().UTC()
	if now.After(inv.ExpiresAt) {
		// Opportunistic flip so the sweep does not have to catch it.
		if _, err := s.repo.UpdateStatus(ctx, inv.ID, StatusPending, StatusExpired); err != nil {
			return nil, err
		}
		return nil, ErrInvitationExpired
	}

	err = s.repo.Transaction(ctx, func(ctx context.Context) error {
		_, err := s.ledger.Grant(ctx, inv.PetID, userID, inv.RelationshipType, inv.InvitedByUserID)
		if err != nil && !errors.Is(err, relationship.ErrRelationshipExists) {
			return err
		}
		accepted, err := s.repo.MarkAccepted(ctx, inv.ID, userID, now)
		if err != nil {
			return err
		}
		if !accepted {
			return ErrInvitationResolved
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	inv.Status = StatusAccepted
	inv.AcceptedByUserID = &userID
	inv.AcceptedAt = &now

	s.events.Publish(ctx, events.Event{
		Name:       events.InvitationRedeemed,
		Actor:      userID,
		OccurredAt: now,
		Fields: map[string]string{
			"invitation_id":     inv.ID.String(),
			"pet_id":            inv.PetID.String(),
			"relationship_type": string(inv.RelationshipType),
		},
	})
	return inv, nil
}

// Decline resolves a pending invitation without granting anything.
func (s *Service) Decline(ctx context.Context, token string) error {
	if err := s.tokens.Verify(token); err != nil {
		return ErrInvitationNotFound
	}
	inv, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		return err
	}
	return s.resolvePending(ctx, inv, StatusDeclined)
}

// Revoke withdraws a pending invitation. Allowed for the inviter and for any
// current owner of the pet.
func (s *Service) Revoke(ctx context.Context, id, by uuid.UUID) error {
	inv, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if inv.InvitedByUserID != by {
		isOwner, err := s.ledger.HasActive(ctx, inv.PetID, by, relationship.TypeOwner)
		if err != nil {
			return err
		}
		if !isOwner {
			return ErrInviteForbidden
		}
	}

	return s.resolvePending(ctx, inv, StatusRevoked)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Invitation, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByPet(ctx context.Context, petID uuid.UUID) ([]Invitation, error) {
	return s.repo.ListByPet(ctx, petID)
}

// ExpireOverdue is the sweep entry point: pending rows past their deadline
// become expired.
func (s *Service) ExpireOverdue(ctx context.Context) (int64, error) {
	return s.repo.ExpireOverdue(ctx, s.now().UTC())
}

func (s *Service) resolvePending(ctx context.Context, inv *Invitation, to Status) error {
	if inv.Terminal() {
		if inv.Status == StatusExpired {
			return ErrInvitationExpired
		}
		return ErrInvitationResolved
	}
	if s.now().UTC().After(inv.ExpiresAt) {
		if _, err := s.repo.UpdateStatus(ctx, inv.ID, StatusPending, StatusExpired); err != nil {
			return err
		}
		return ErrInvitationExpired
	}

	moved, err := s.repo.UpdateStatus(ctx, inv.ID, StatusPending, to)
	if err != nil {
		return err
	}
	if !moved {
		return ErrInvitationResolved
	}
	return nil
}

func (s *Service) canInvite(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type) (bool, error) {
	isOwner, err := s.ledger.HasActive(ctx, petID, userID, relationship.TypeOwner)
	if err != nil {
		return false, err
	}
	if isOwner {
		return true, nil
	}
	if relType == relationship.TypeOwner {
		return false, nil
	}
	return s.ledger.HasActive(ctx, petID, userID, relationship.TypeEditor)
}
