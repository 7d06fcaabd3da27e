package relationship

import (
	"context"
	"time"

	"pet-custody-go/internal/db"
	"pet-custody-go/internal/events"

	"github.com/google/uuid"
)

type Service struct {
	repo     Repository
	cache    Cache
	cacheTTL time.Duration
	events   events.Publisher
	now      func() time.Time
}

func NewService(repo Repository, cache Cache, cacheTTL time.Duration, publisher events.Publisher) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		events:   publisher,
		now:      time.Now,
	}
}

// Grant opens an active relationship starting now. Fails with
// ErrRelationshipExists when the tuple already has an active row.
func (s *Service) Grant(ctx context.Context, petID, userID uuid.UUID, relType Type, grantedBy uuid.UUID) (*Relationship, error) {
	return s.GrantAt(ctx, petID, userID, relType, grantedBy, s.now().UTC())
}

// GrantAt is Grant with an explicit interval start. Used by the handover
// orchestrator so the new custody interval opens exactly at completion time.
func (s *Service) GrantAt(ctx context.Context, petID, userID uuid.UUID, relType Type, grantedBy uuid.UUID, startAt time.Time) (*Relationship, error) {
	if !relType.Valid() {
		return nil, ErrInvalidType
	}

	rel := &Relationship{
		ID:               uuid.New(),
		PetID:            petID,
		UserID:           userID,
		RelationshipType: relType,
		StartAt:          startAt.UTC(),
		CreatedBy:        grantedBy,
	}

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockPet(ctx, petID); err != nil {
			return err
		}
		exists, err := s.repo.HasActive(ctx, petID, userID, relType)
		if err != nil {
			return err
		}
		if exists {
			return ErrRelationshipExists
		}
		return s.repo.Create(ctx, rel)
	})
	if err != nil {
		return nil, err
	}

	// Grant may run inside a larger unit (invitation redeem, handover
	// completion); the cache flush and the event wait for its commit.
	db.AfterCommit(ctx, func(ctx context.Context) {
		s.cache.DeleteByPet(ctx, petID)
		s.events.Publish(ctx, events.Event{
			Name:       events.RelationshipGranted,
			Actor:      grantedBy,
			OccurredAt: rel.StartAt,
			Fields: map[string]string{
				"pet_id":            petID.String(),
				"user_id":           userID.String(),
				"relationship_type": string(relType),
			},
		})
	})
	return rel, nil
}

// Revoke closes the active relationship for the tuple at the given instant.
// Revoking the pet's only owner fails with ErrLastOwner. Two concurrent
// revokes of the same row: the second sees ErrRelationshipNotFound.
func (s *Service) Revoke(ctx context.Context, petID, userID uuid.UUID, relType Type, at time.Time, revokedBy uuid.UUID) error {
	if !relType.Valid() {
		return ErrInvalidType
	}

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.LockPet(ctx, petID); err != nil {
			return err
		}
		rel, err := s.repo.GetActive(ctx, petID, userID, relType)
		if err != nil {
			return err
		}
		if relType == TypeOwner {
			owners, err := s.repo.CountActiveOwners(ctx, petID)
			if err != nil {
				return err
			}
			if owners <= 1 {
				return ErrLastOwner
			}
		}
		closed, err := s.repo.End(ctx, rel.ID, at.UTC())
		if err != nil {
			return err
		}
		if !closed {
			return ErrRelationshipNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	db.AfterCommit(ctx, func(ctx context.Context) {
		s.cache.DeleteByPet(ctx, petID)
		s.events.Publish(ctx, events.Event{
			Name:       events.RelationshipRevoked,
			Actor:      revokedBy,
			OccurredAt: at.UTC(),
			Fields: map[string]string{
				"pet_id":            petID.String(),
				"user_id":           userID.String(),
				"relationship_type": string(relType),
			},
		})
	})
	return nil
}

func (s *Service) ListActiveByPet(ctx context.Context, petID uuid.UUID) ([]Relationship, error) {
	if rels, ok := s.cache.GetActiveByPet(ctx, petID); ok {
		return rels, nil
	}
	rels, err := s.repo.ListActiveByPet(ctx, petID)
	if err != nil {
		return nil, err
	}
	s.cache.SetActiveByPet(ctx, petID, rels, s.cacheTTL)
	return rels, nil
}

func (s *Service) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Relationship, error) {
	return s.repo.ListActiveByUser(ctx, userID)
}

// HasActive is the capability check used by the other services.
func (s *Service) HasActive(ctx context.Context, petID, userID uuid.UUID, relType Type) (bool, error) {
	return s.repo.HasActive(ctx, petID, userID, relType)
}
