package placement

import (
	"context"
	"errors"
	"time"

	dbpkg "pet-custody-go/internal/db"
	placementdomain "pet-custody-go/internal/domain/placement"

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

func (r *PostgresRepository) Create(ctx context.Context, req *placementdomain.Request) error {
	return r.conn(ctx).Create(req).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*placementdomain.Request, error) {
	var req placementdomain.Request
	err := r.conn(ctx).Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, placementdomain.ErrRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) ListByPet(ctx context.Context, petID uuid.UUID) ([]placementdomain.Request, error) {
	var reqs []placementdomain.Request
	err := r.conn(ctx).
		Where("pet_id = ?", petID).
		Order("created_at desc").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]placementdomain.Request, error) {
	var reqs []placementdomain.Request
	err := r.conn(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *PostgresRepository) CancelIfOpen(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&placementdomain.Request{}).
		Where("id = ? AND status = ?", id, placementdomain.StatusOpen).
		Updates(map[string]interface{}{
			"status":     placementdomain.StatusCancelled,
			"updated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) MarkFulfilled(ctx context.Context, id, transferRequestID uuid.UUID, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&placementdomain.Request{}).
		Where("id = ? AND status IN ?", id, []placementdomain.Status{placementdomain.StatusOpen, placementdomain.StatusExpired}).
		Updates(map[string]interface{}{
			"status":                           placementdomain.StatusFulfilled,
			"fulfilled_at":                     at,
			"fulfilled_by_transfer_request_id": transferRequestID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.conn(ctx).Model(&placementdomain.Request{}).
		Where("status = ? AND expires_at < ?", placementdomain.StatusOpen, now).
		Update("status", placementdomain.StatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
