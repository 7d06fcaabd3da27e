package relationship

import (
	"context"
	"errors"
	"time"

	dbpkg "pet-custody-go/internal/db"
	reldomain "pet-custody-go/internal/domain/relationship"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) conn(ctx context.Context) *gorm.DB {
	return dbpkg.Conn(ctx, r.db)
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return dbpkg.RunInTx(ctx, r.db, fn)
}

// LockPet serializes ledger mutations per pet with a row lock. Two
// concurrent transfer completions for the same pet queue up here.
func (r *PostgresRepository) LockPet(ctx context.Context, petID uuid.UUID) error {
	var id uuid.UUID
	result := r.conn(ctx).Raw("SELECT id FROM pets WHERE id = ? FOR UPDATE", petID).Scan(&id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return reldomain.ErrPetNotFound
	}
	return nil
}

func (r *PostgresRepository) HasActive(ctx context.Context, petID, userID uuid.UUID, relType reldomain.Type) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&reldomain.Relationship{}).
		Where("pet_id = ? AND user_id = ? AND relationship_type = ? AND end_at IS NULL", petID, userID, relType).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) GetActive(ctx context.Context, petID, userID uuid.UUID, relType reldomain.Type) (*reldomain.Relationship, error) {
	var rel reldomain.Relationship
	err := r.conn(ctx).
		Where("pet_id = ? AND user_id = ? AND relationship_type = ? AND end_at IS NULL", petID, userID, relType).
		First(&rel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, reldomain.ErrRelationshipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *PostgresRepository) CountActiveOwners(ctx context.Context, petID uuid.UUID) (int64, error) {
	var count int64
	err := r.conn(ctx).Model(&reldomain.Relationship{}).
		Where("pet_id = ? AND relationship_type = ? AND end_at IS NULL", petID, reldomain.TypeOwner).
		Count(&count).Error
	return count, err
}

func (r *PostgresRepository) Create(ctx context.Context, rel *reldomain.Relationship) error {
	return r.conn(ctx).Create(rel).Error
}

func (r *PostgresRepository) End(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&reldomain.Relationship{}).
		Where("id = ? AND end_at IS NULL", id).
		Update("end_at", at)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ListActiveByPet(ctx context.Context, petID uuid.UUID) ([]reldomain.Relationship, error) {
	var rels []reldomain.Relationship
	err := r.conn(ctx).
		Where("pet_id = ? AND end_at IS NULL", petID).
		Order("start_at asc").
		Find(&rels).Error
	if err != nil {
		return nil, err
	}
	return rels, nil
}

func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]reldomain.Relationship, error) {
	var rels []reldomain.Relationship
	err := r.conn(ctx).
		Where("user_id = ? AND end_at IS NULL", userID).
		Order("start_at asc").
		Find(&rels).Error
	if err != nil {
		return nil, err
	}
	return rels, nil
}
