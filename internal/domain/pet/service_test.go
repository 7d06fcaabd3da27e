package pet

import (
	"context"
	"errors"
	"testing"

	"pet-custody-go/internal/db"
	"pet-custody-go/internal/domain/relationship"

	"github.com/google/uuid"
)

type fakePetRepo struct {
	rows map[uuid.UUID]*Pet
}

func newFakePetRepo() *fakePetRepo {
	return &fakePetRepo{rows: make(map[uuid.UUID]*Pet)}
}

func (r *fakePetRepo) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithCommitHooks(ctx, fn)
}

func (r *fakePetRepo) Create(ctx context.Context, p *Pet) error {
	r.rows[p.ID] = p
	return nil
}

func (r *fakePetRepo) GetByID(ctx context.Context, id uuid.UUID) (*Pet, error) {
	p, ok := r.rows[id]
	if !ok {
		return nil, ErrPetNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePetRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]Pet, error) {
	result := make([]Pet, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.rows[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *fakePetRepo) UpdateStatus(ctx context.Context, id uuid.UUID, from, to Status) (bool, error) {
	p, ok := r.rows[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	return true, nil
}

type fakePetLedger struct {
	rels []relationship.Relationship
}

func (l *fakePetLedger) Grant(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type, grantedBy uuid.UUID) (*relationship.Relationship, error) {
	rel := relationship.Relationship{
		ID:               uuid.New(),
		PetID:            petID,
		UserID:           userID,
		RelationshipType: relType,
		CreatedBy:        grantedBy,
	}
	l.rels = append(l.rels, rel)
	return &rel, nil
}

func (l *fakePetLedger) HasActive(ctx context.Context, petID, userID uuid.UUID, relType relationship.Type) (bool, error) {
	for _, rel := range l.rels {
		if rel.PetID == petID && rel.UserID == userID && rel.RelationshipType == relType {
			return true, nil
		}
	}
	return false, nil
}

func (l *fakePetLedger) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]relationship.Relationship, error) {
	result := make([]relationship.Relationship, 0)
	for _, rel := range l.rels {
		if rel.UserID == userID {
			result = append(result, rel)
		}
	}
	return result, nil
}

func TestCreatePetGrantsOwnership(t *testing.T) {
	repo := newFakePetRepo()
	ledger := &fakePetLedger{}
	svc := NewService(repo, ledger)
	creator := uuid.New()

	p, err := svc.Create(context.Background(), creator, "  Biscuit ", "dog")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if p.Name != "Biscuit" {
		t.Fatalf("expected trimmed name, got %q", p.Name)
	}
	if p.Status != StatusActive {
		t.Fatalf("expected active, got %q", p.Status)
	}
	ok, _ := ledger.HasActive(context.Background(), p.ID, creator, relationship.TypeOwner)
	if !ok {
		t.Fatalf("creator should hold the owner relationship")
	}
}

func TestCreatePetRequiresName(t *testing.T) {
	svc := NewService(newFakePetRepo(), &fakePetLedger{})
	if _, err := svc.Create(context.Background(), uuid.New(), "  ", "cat"); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestListByUserDeduplicates(t *testing.T) {
	repo := newFakePetRepo()
	ledger := &fakePetLedger{}
	svc := NewService(repo, ledger)
	user := uuid.New()

	p, err := svc.Create(context.Background(), user, "Mochi", "cat")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	// Same pet through a second relationship type.
	if _, err := ledger.Grant(context.Background(), p.ID, user, relationship.TypeSitter, user); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	pets, err := svc.ListByUser(context.Background(), user)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pets) != 1 {
		t.Fatalf("expected 1 pet, got %d", len(pets))
	}
}

func TestListByUserEmpty(t *testing.T) {
	svc := NewService(newFakePetRepo(), &fakePetLedger{})
	pets, err := svc.ListByUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(pets) != 0 {
		t.Fatalf("expected empty list, got %d", len(pets))
	}
}

func TestArchivePet(t *testing.T) {
	repo := newFakePetRepo()
	ledger := &fakePetLedger{}
	svc := NewService(repo, ledger)
	owner := uuid.New()

	p, _ := svc.Create(context.Background(), owner, "Rex", "dog")

	if err := svc.Archive(context.Background(), p.ID, uuid.New()); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner for stranger, got %v", err)
	}
	if err := svc.Archive(context.Background(), p.ID, owner); err != nil {
		t.Fatalf("archive failed: %v", err)
	}
	if repo.rows[p.ID].Status != StatusArchived {
		t.Fatalf("expected archived, got %q", repo.rows[p.ID].Status)
	}
	if err := svc.Archive(context.Background(), p.ID, owner); !errors.Is(err, ErrPetArchived) {
		t.Fatalf("expected ErrPetArchived on repeat, got %v", err)
	}
}
