package transfer

import (
	"context"
	"errors"
	"time"

	dbpkg "pet-custody-go/internal/db"
	transferdomain "pet-custody-go/internal/domain/transfer"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var openHandoverStatuses = []transferdomain.HandoverStatus{
	transferdomain.HandoverPending,
	transferdomain.HandoverConfirmed,
	transferdomain.HandoverDisputed,
}

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

func (r *PostgresRepository) CreateRequest(ctx context.Context, req *transferdomain.Request) error {
	return r.conn(ctx).Create(req).Error
}

func (r *PostgresRepository) GetRequest(ctx context.Context, id uuid.UUID) (*transferdomain.Request, error) {
	var req transferdomain.Request
	err := r.conn(ctx).Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, transferdomain.ErrTransferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *PostgresRepository) HasPendingRequest(ctx context.Context, fromUserID, placementRequestID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&transferdomain.Request{}).
		Where("from_user_id = ? AND placement_request_id = ? AND status = ?", fromUserID, placementRequestID, transferdomain.RequestPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) ResolveRequest(ctx context.Context, id uuid.UUID, from, to transferdomain.RequestStatus) (bool, error) {
	result := r.conn(ctx).Model(&transferdomain.Request{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ExpireOverdueRequests(ctx context.Context, now time.Time) (int64, error) {
	result := r.conn(ctx).Model(&transferdomain.Request{}).
		Where("status = ? AND expires_at < ?", transferdomain.RequestPending, now).
		Update("status", transferdomain.RequestExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *PostgresRepository) CreateHandover(ctx context.Context, h *transferdomain.Handover) error {
	return r.conn(ctx).Create(h).Error
}

func (r *PostgresRepository) GetHandover(ctx context.Context, id uuid.UUID) (*transferdomain.Handover, error) {
	var h transferdomain.Handover
	err := r.conn(ctx).Where("id = ?", id).First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, transferdomain.ErrHandoverNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) GetOpenHandoverByRequest(ctx context.Context, transferRequestID uuid.UUID) (*transferdomain.Handover, error) {
	var h transferdomain.Handover
	err := r.conn(ctx).
		Where("transfer_request_id = ? AND status IN ?", transferRequestID, openHandoverStatuses).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, transferdomain.ErrHandoverNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *PostgresRepository) ListHandoversByRequest(ctx context.Context, transferRequestID uuid.UUID) ([]transferdomain.Handover, error) {
	var hs []transferdomain.Handover
	err := r.conn(ctx).
		Where("transfer_request_id = ?", transferRequestID).
		Order("created_at asc").
		Find(&hs).Error
	if err != nil {
		return nil, err
	}
	return hs, nil
}

func (r *PostgresRepository) RescheduleHandover(ctx context.Context, id uuid.UUID, scheduledAt *time.Time, location string) (bool, error) {
	result := r.conn(ctx).Model(&transferdomain.Handover{}).
		Where("id = ? AND status IN ?", id, []transferdomain.HandoverStatus{transferdomain.HandoverPending, transferdomain.HandoverConfirmed}).
		Updates(map[string]interface{}{
			"scheduled_at": scheduledAt,
			"location":     location,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) InitiateHandover(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&transferdomain.Handover{}).
		Where("id = ? AND status = ?", id, transferdomain.HandoverPending).
		Updates(map[string]interface{}{
			"status":             transferdomain.HandoverConfirmed,
			"owner_initiated_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) CompleteHandover(ctx context.Context, id uuid.UUID, from []transferdomain.HandoverStatus, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&transferdomain.Handover{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(map[string]interface{}{
			"status":              transferdomain.HandoverCompleted,
			"condition_confirmed": true,
			"helper_confirmed_at": gorm.Expr("COALESCE(helper_confirmed_at, ?)", at),
			"completed_at":        at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) DisputeHandover(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&transferdomain.Handover{}).
		Where("id = ? AND status IN ?", id, []transferdomain.HandoverStatus{transferdomain.HandoverPending, transferdomain.HandoverConfirmed}).
		Updates(map[string]interface{}{
			"status":              transferdomain.HandoverDisputed,
			"condition_confirmed": false,
			"helper_confirmed_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) CancelHandover(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&transferdomain.Handover{}).
		Where("id = ? AND status IN ?", id, openHandoverStatuses).
		Updates(map[string]interface{}{
			"status":      transferdomain.HandoverCanceled,
			"canceled_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
