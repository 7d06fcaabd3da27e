package pet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pet-custody-go/internal/domain/relationship"

	"github.com/google/uuid"
)

// Ledger grants the creator's initial owner relationship and answers
// ownership checks.
type Ledger interface {
	Grant(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type, grantedBy uuid.UUID) (*relationship.Relationship, error)
	HasActive(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type) (bool, error)
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]relationship.Relationship, error)
}

type Service struct {
	repo   Repository
	ledger Ledger
	now    func() time.Time
}

func NewService(repo Repository, ledger Ledger) *Service {
	return &Service{repo: repo, ledger: ledger, now: time.Now}
}

// Create registers a pet and grants the creator the initial owner
// relationship in the same transaction.
func (s *Service) Create(ctx context.Context, createdBy uuid.UUID, name, species string) (*Pet, error) {
	name = strings.TrimSpace(name)
	species = strings.TrimSpace(species)
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if species == "" {
		return nil, fmt.Errorf("species is required")
	}

	p := &Pet{
		ID:        uuid.New(),
		Name:      name,
		Species:   species,
		Status:    StatusActive,
		CreatedBy: createdBy,
	}

	err := s.repo.Transaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
		_, err := s.ledger.Grant(ctx, p.ID, createdBy, relationship.TypeOwner, createdBy)
		return err
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Pet, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByUser returns the pets the user holds any active relationship to.
func (s *Service) ListByUser(ctx context.Context, userID uuid.UUID) ([]Pet, error) {
	rels, err := s.ledger.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(rels))
	ids := make([]uuid.UUID, 0, len(rels))
	for _, rel := range rels {
		if _, ok := seen[rel.PetID]; ok {
			continue
		}
		seen[rel.PetID] = struct{}{}
		ids = append(ids, rel.PetID)
	}
	if len(ids) == 0 {
		return []Pet{}, nil
	}
	return s.repo.GetByIDs(ctx, ids)
}

// Archive retires an active pet. Owner only.
func (s *Service) Archive(ctx context.Context, id, by uuid.UUID) error {
	isOwner, err := s.ledger.HasActive(ctx, id, by, relationship.TypeOwner)
	if err != nil {
		return err
	}
	if !isOwner {
		return ErrNotOwner
	}

	moved, err := s.repo.UpdateStatus(ctx, id, StatusActive, StatusArchived)
	if err != nil {
		return err
	}
	if !moved {
		return ErrPetArchived
	}
	return nil
}
