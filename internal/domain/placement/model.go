package placement

import (
	"time"

	"pet-custody-go/internal/domain/relationship"

	"github.com/google/uuid"
)

type RequestType string

const (
	RequestTypeAdoption  RequestType = "adoption"
	RequestTypeFostering RequestType = "fostering"
	RequestTypeSitting   RequestType = "sitting"
)

func (t RequestType) Valid() bool {
	switch t {
	case RequestTypeAdoption, RequestTypeFostering, RequestTypeSitting:
		return true
	}
	return false
}

// GrantedRelationship is the relationship type a completed transfer of this
// request type opens for the helper.
func (t RequestType) GrantedRelationship() relationship.Type {
	switch t {
	case RequestTypeAdoption:
		return relationship.TypeOwner
	case RequestTypeFostering:
		return relationship.TypeFoster
	default:
		return relationship.TypeSitter
	}
}

type Status string

const (
	StatusOpen      Status = "open"
	StatusFulfilled Status = "fulfilled"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Request is an owner's public post seeking a care transfer. It leaves open
// only through cancellation, natural expiry, or a completed transfer; the
// completed transfer always wins over the other two.
type Request struct {
	ID                           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	PetID                        uuid.UUID   `gorm:"type:uuid;not null;index" json:"pet_id"`
	UserID                       uuid.UUID   `gorm:"type:uuid;not null;index" json:"user_id"`
	RequestType                  RequestType `gorm:"type:varchar(16);not null" json:"request_type"`
	Status                       Status      `gorm:"type:varchar(16);not null" json:"status"`
	Notes                        string      `gorm:"type:text" json:"notes"`
	ExpiresAt                    time.Time   `gorm:"not null" json:"expires_at"`
	StartDate                    *time.Time  `json:"start_date,omitempty"`
	EndDate                      *time.Time  `json:"end_date,omitempty"`
	FulfilledAt                  *time.Time  `json:"fulfilled_at,omitempty"`
	FulfilledByTransferRequestID *uuid.UUID  `gorm:"type:uuid" json:"fulfilled_by_transfer_request_id,omitempty"`
	CreatedAt                    time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Request) TableName() string {
	return "placement_requests"
}

// OpenAt reports whether the request accepts actions at the given instant.
// An open row past its deadline counts as expired even before the sweep
// catches it.
func (r *Request) OpenAt(now time.Time) bool {
	return r.Status == StatusOpen && !now.After(r.ExpiresAt)
}
