package pet

import (
	"context"
	"errors"

	dbpkg "pet-custody-go/internal/db"
	petdomain "pet-custody-go/internal/domain/pet"

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

func (r *PostgresRepository) Create(ctx context.Context, p *petdomain.Pet) error {
	return r.conn(ctx).Create(p).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*petdomain.Pet, error) {
	var p petdomain.Pet
	err := r.conn(ctx).
		Where("id = ? AND status <> ?", id, petdomain.StatusDeleted).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, petdomain.ErrPetNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]petdomain.Pet, error) {
	var pets []petdomain.Pet
	err := r.conn(ctx).
		Where("id IN ? AND status <> ?", ids, petdomain.StatusDeleted).
		Order("created_at asc").
		Find(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to petdomain.Status) (bool, error) {
	result := r.conn(ctx).Model(&petdomain.Pet{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
