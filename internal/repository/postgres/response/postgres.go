package response

import (
	"context"
	"errors"
	"time"

	dbpkg "pet-custody-go/internal/db"
	responsedomain "pet-custody-go/internal/domain/response"

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

func (r *PostgresRepository) Create(ctx context.Context, resp *responsedomain.Response) error {
	return r.conn(ctx).Create(resp).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*responsedomain.Response, error) {
	var resp responsedomain.Response
	err := r.conn(ctx).Where("id = ?", id).First(&resp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, responsedomain.ErrResponseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *PostgresRepository) ListByRequest(ctx context.Context, requestID uuid.UUID) ([]responsedomain.Response, error) {
	var resps []responsedomain.Response
	err := r.conn(ctx).
		Where("placement_request_id = ?", requestID).
		Order("responded_at asc").
		Find(&resps).Error
	if err != nil {
		return nil, err
	}
	return resps, nil
}

func (r *PostgresRepository) HasOutstanding(ctx context.Context, requestID, helperID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&responsedomain.Response{}).
		Where("placement_request_id = ? AND helper_user_id = ? AND status = ?", requestID, helperID, responsedomain.StatusResponded).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) HasAccepted(ctx context.Context, requestID uuid.UUID) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&responsedomain.Response{}).
		Where("placement_request_id = ? AND status = ?", requestID, responsedomain.StatusAccepted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Resolve(ctx context.Context, id uuid.UUID, from, to responsedomain.Status, at time.Time) (bool, error) {
	updates := map[string]interface{}{"status": to}
	switch to {
	case responsedomain.StatusAccepted:
		updates["accepted_at"] = at
	case responsedomain.StatusRejected:
		updates["rejected_at"] = at
	case responsedomain.StatusCancelled:
		updates["cancelled_at"] = at
	}

	result := r.conn(ctx).Model(&responsedomain.Response{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
