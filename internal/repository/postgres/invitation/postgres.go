package invitation

import (
	"context"
	"errors"
	"time"

	dbpkg "pet-custody-go/internal/db"
	invdomain "pet-custody-go/internal/domain/invitation"

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

func (r *PostgresRepository) Create(ctx context.Context, inv *invdomain.Invitation) error {
	return r.conn(ctx).Create(inv).Error
}

func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*invdomain.Invitation, error) {
	var inv invdomain.Invitation
	err := r.conn(ctx).Where("id = ?", id).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invdomain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*invdomain.Invitation, error) {
	var inv invdomain.Invitation
	err := r.conn(ctx).Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invdomain.ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *PostgresRepository) ListByPet(ctx context.Context, petID uuid.UUID) ([]invdomain.Invitation, error) {
	var invs []invdomain.Invitation
	err := r.conn(ctx).
		Where("pet_id = ?", petID).
		Order("created_at desc").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to invdomain.Status) (bool, error) {
	result := r.conn(ctx).Model(&invdomain.Invitation{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) MarkAccepted(ctx context.Context, id, userID uuid.UUID, at time.Time) (bool, error) {
	result := r.conn(ctx).Model(&invdomain.Invitation{}).
		Where("id = ? AND status = ?", id, invdomain.StatusPending).
		Updates(map[string]interface{}{
			"status":              invdomain.StatusAccepted,
			"accepted_by_user_id": userID,
			"accepted_at":         at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PostgresRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	result := r.conn(ctx).Model(&invdomain.Invitation{}).
		Where("status = ? AND expires_at < ?", invdomain.StatusPending, now).
		Update("status", invdomain.StatusExpired)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
