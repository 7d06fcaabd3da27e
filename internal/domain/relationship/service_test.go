package relationship

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"pet-custody-go/internal/db"
	"pet-custody-go/internal/events"

	"github.com/google/uuid"
)

type fakeLedgerRepo struct {
	mu   sync.Mutex
	pets map[uuid.UUID]struct{}
	rows map[uuid.UUID]*Relationship
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		pets: make(map[uuid.UUID]struct{}),
		rows: make(map[uuid.UUID]*Relationship),
	}
}

func (r *fakeLedgerRepo) addPet() uuid.UUID {
	id := uuid.New()
	r.pets[id] = struct{}{}
	return id
}

func (r *fakeLedgerRepo) addActive(petID, userID uuid.UUID, relType Type) *Relationship {
	rel := &Relationship{
		ID:               uuid.New(),
		PetID:            petID,
		UserID:           userID,
		RelationshipType: relType,
		StartAt:          time.Now().UTC().Add(-time.Hour),
		CreatedBy:        userID,
	}
	r.rows[rel.ID] = rel
	return rel
}

// Transaction serializes units the way the pet row lock does in postgres,
// and withholds AfterCommit side effects until the unit succeeds.
func (r *fakeLedgerRepo) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return db.WithCommitHooks(ctx, func(ctx context.Context) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		return fn(ctx)
	})
}

func (r *fakeLedgerRepo) LockPet(ctx context.Context, petID uuid.UUID) error {
	if _, ok := r.pets[petID]; !ok {
		return ErrPetNotFound
	}
	return nil
}

func (r *fakeLedgerRepo) HasActive(ctx context.Context, petID, userID uuid.UUID, relType Type) (bool, error) {
	for _, rel := range r.rows {
		if rel.PetID == petID && rel.UserID == userID && rel.RelationshipType == relType && rel.Active() {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeLedgerRepo) GetActive(ctx context.Context, petID, userID uuid.UUID, relType Type) (*Relationship, error) {
	for _, rel := range r.rows {
		if rel.PetID == petID && rel.UserID == userID && rel.RelationshipType == relType && rel.Active() {
			return rel, nil
		}
	}
	return nil, ErrRelationshipNotFound
}

func (r *fakeLedgerRepo) CountActiveOwners(ctx context.Context, petID uuid.UUID) (int64, error) {
	var count int64
	for _, rel := range r.rows {
		if rel.PetID == petID && rel.RelationshipType == TypeOwner && rel.Active() {
			count++
		}
	}
	return count, nil
}

func (r *fakeLedgerRepo) Create(ctx context.Context, rel *Relationship) error {
	r.rows[rel.ID] = rel
	return nil
}

func (r *fakeLedgerRepo) End(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	rel, ok := r.rows[id]
	if !ok || !rel.Active() {
		return false, nil
	}
	endAt := at
	rel.EndAt = &endAt
	return true, nil
}

func (r *fakeLedgerRepo) ListActiveByPet(ctx context.Context, petID uuid.UUID) ([]Relationship, error) {
	result := make([]Relationship, 0)
	for _, rel := range r.rows {
		if rel.PetID == petID && rel.Active() {
			result = append(result, *rel)
		}
	}
	return result, nil
}

func (r *fakeLedgerRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]Relationship, error) {
	result := make([]Relationship, 0)
	for _, rel := range r.rows {
		if rel.UserID == userID && rel.Active() {
			result = append(result, *rel)
		}
	}
	return result, nil
}

func TestGrantSuccess(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	userID := uuid.New()

	recorder := events.NewRecorder()
	svc := NewService(repo, nil, 0, recorder)

	rel, err := svc.Grant(context.Background(), petID, userID, TypeFoster, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !rel.Active() {
		t.Fatalf("expected active relationship")
	}
	if rel.RelationshipType != TypeFoster {
		t.Fatalf("expected foster, got %q", rel.RelationshipType)
	}
	if got := recorder.Names(); len(got) != 1 || got[0] != events.RelationshipGranted {
		t.Fatalf("expected granted event, got %v", got)
	}
}

func TestGrantUnknownPet(t *testing.T) {
	repo := newFakeLedgerRepo()
	svc := NewService(repo, nil, 0, nil)

	_, err := svc.Grant(context.Background(), uuid.New(), uuid.New(), TypeOwner, uuid.New())
	if !errors.Is(err, ErrPetNotFound) {
		t.Fatalf("expected ErrPetNotFound, got %v", err)
	}
}

func TestGrantDuplicateActive(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	userID := uuid.New()
	repo.addActive(petID, userID, TypeSitter)

	svc := NewService(repo, nil, 0, nil)
	_, err := svc.Grant(context.Background(), petID, userID, TypeSitter, userID)
	if !errors.Is(err, ErrRelationshipExists) {
		t.Fatalf("expected ErrRelationshipExists, got %v", err)
	}
}

func TestGrantInvalidType(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()

	svc := NewService(repo, nil, 0, nil)
	_, err := svc.Grant(context.Background(), petID, uuid.New(), Type("guardian"), uuid.New())
	if !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestGrantAfterRevokeReopens(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	userID := uuid.New()
	other := uuid.New()
	repo.addActive(petID, userID, TypeOwner)
	repo.addActive(petID, other, TypeOwner)

	svc := NewService(repo, nil, 0, nil)
	ctx := context.Background()

	if err := svc.Revoke(ctx, petID, userID, TypeOwner, time.Now(), other); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	if _, err := svc.Grant(ctx, petID, userID, TypeOwner, other); err != nil {
		t.Fatalf("regrant failed: %v", err)
	}

	active, _ := repo.ListActiveByPet(ctx, petID)
	if len(active) != 2 {
		t.Fatalf("expected 2 active rows, got %d", len(active))
	}
}

func TestRevokeLastOwner(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	userID := uuid.New()
	repo.addActive(petID, userID, TypeOwner)

	svc := NewService(repo, nil, 0, nil)
	err := svc.Revoke(context.Background(), petID, userID, TypeOwner, time.Now(), userID)
	if !errors.Is(err, ErrLastOwner) {
		t.Fatalf("expected ErrLastOwner, got %v", err)
	}
}

func TestRevokeSecondOwnerAllowed(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	first := uuid.New()
	second := uuid.New()
	repo.addActive(petID, first, TypeOwner)
	repo.addActive(petID, second, TypeOwner)

	recorder := events.NewRecorder()
	svc := NewService(repo, nil, 0, recorder)
	if err := svc.Revoke(context.Background(), petID, second, TypeOwner, time.Now(), first); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	owners, _ := repo.CountActiveOwners(context.Background(), petID)
	if owners != 1 {
		t.Fatalf("expected 1 owner left, got %d", owners)
	}
	if got := recorder.Names(); len(got) != 1 || got[0] != events.RelationshipRevoked {
		t.Fatalf("expected revoked event, got %v", got)
	}
}

func TestRevokeMissingRelationship(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()

	svc := NewService(repo, nil, 0, nil)
	err := svc.Revoke(context.Background(), petID, uuid.New(), TypeSitter, time.Now(), uuid.New())
	if !errors.Is(err, ErrRelationshipNotFound) {
		t.Fatalf("expected ErrRelationshipNotFound, got %v", err)
	}
}

func TestRevokeNonOwnerIgnoresOwnerCount(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	owner := uuid.New()
	repo.addActive(petID, owner, TypeOwner)
	repo.addActive(petID, owner, TypeFoster)

	svc := NewService(repo, nil, 0, nil)
	if err := svc.Revoke(context.Background(), petID, owner, TypeFoster, time.Now(), owner); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	owners, _ := repo.CountActiveOwners(context.Background(), petID)
	if owners != 1 {
		t.Fatalf("owner row should survive, got %d", owners)
	}
}

type countingCache struct {
	stored map[uuid.UUID][]Relationship
	hits   int
	sets   int
	dels   int
}

func (c *countingCache) GetActiveByPet(_ context.Context, petID uuid.UUID) ([]Relationship, bool) {
	rels, ok := c.stored[petID]
	if ok {
		c.hits++
	}
	return rels, ok
}

func (c *countingCache) SetActiveByPet(_ context.Context, petID uuid.UUID, rels []Relationship, _ time.Duration) {
	c.stored[petID] = rels
	c.sets++
}

func (c *countingCache) DeleteByPet(_ context.Context, petID uuid.UUID) {
	delete(c.stored, petID)
	c.dels++
}

func TestListActiveByPetCaches(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	repo.addActive(petID, uuid.New(), TypeOwner)

	cache := &countingCache{stored: make(map[uuid.UUID][]Relationship)}
	svc := NewService(repo, cache, time.Minute, nil)
	ctx := context.Background()

	if _, err := svc.ListActiveByPet(ctx, petID); err != nil {
		t.Fatalf("first list failed: %v", err)
	}
	if _, err := svc.ListActiveByPet(ctx, petID); err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if cache.sets != 1 || cache.hits != 1 {
		t.Fatalf("expected 1 set and 1 hit, got %d/%d", cache.sets, cache.hits)
	}

	if _, err := svc.Grant(ctx, petID, uuid.New(), TypeViewer, uuid.New()); err != nil {
		t.Fatalf("grant failed: %v", err)
	}
	if cache.dels != 1 {
		t.Fatalf("grant should invalidate cache, dels=%d", cache.dels)
	}
}

func TestGrantConcurrentSingleWinner(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	userID := uuid.New()

	recorder := events.NewRecorder()
	svc := NewService(repo, nil, 0, recorder)

	const attempts = 8
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Grant(context.Background(), petID, userID, TypeSitter, userID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, ErrRelationshipExists):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if won != 1 || lost != attempts-1 {
		t.Fatalf("expected 1 winner and %d conflicts, got %d winners / %d conflicts", attempts-1, won, lost)
	}

	rels, err := repo.ListActiveByPet(context.Background(), petID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	var active int
	for _, rel := range rels {
		if rel.UserID == userID && rel.RelationshipType == TypeSitter {
			active++
		}
	}
	if active != 1 {
		t.Fatalf("expected exactly one active row, got %d", active)
	}
	if got := recorder.Names(); len(got) != 1 || got[0] != events.RelationshipGranted {
		t.Fatalf("expected a single granted event, got %v", got)
	}
}

func TestGrantEventWaitsForEnclosingUnit(t *testing.T) {
	repo := newFakeLedgerRepo()
	petID := repo.addPet()
	userID := uuid.New()

	recorder := events.NewRecorder()
	svc := NewService(repo, nil, 0, recorder)

	failure := errors.New("unit aborted")
	err := db.WithCommitHooks(context.Background(), func(ctx context.Context) error {
		if _, err := svc.Grant(ctx, petID, userID, TypeEditor, userID); err != nil {
			t.Fatalf("grant failed: %v", err)
		}
		return failure
	})
	if !errors.Is(err, failure) {
		t.Fatalf("expected abort error, got %v", err)
	}
	if got := recorder.Names(); len(got) != 0 {
		t.Fatalf("aborted unit must publish nothing, got %v", got)
	}

	other := uuid.New()
	err = db.WithCommitHooks(context.Background(), func(ctx context.Context) error {
		_, err := svc.Grant(ctx, petID, other, TypeEditor, userID)
		return err
	})
	if err != nil {
		t.Fatalf("committed unit failed: %v", err)
	}
	if got := recorder.Names(); len(got) != 1 || got[0] != events.RelationshipGranted {
		t.Fatalf("expected granted event after commit, got %v", got)
	}
}
