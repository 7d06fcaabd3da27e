package transfer

import (
	"time"

	"pet-custody-go/internal/domain/relationship"

	"github.com/google/uuid"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestConfirmed RequestStatus = "confirmed"
	RequestRejected  RequestStatus = "rejected"
	RequestExpired   RequestStatus = "expired"
	RequestCanceled  RequestStatus = "canceled"
)

// Request tracks custody handoff approval for an accepted response. At most
// one pending request may exist per (from_user, placement_request); the
// check runs inside the creating transaction and the partial unique index
// backs it up on Postgres.
type Request struct {
	ID                  uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PlacementRequestID  uuid.UUID         `gorm:"type:uuid;not null;index" json:"placement_request_id"`
	PlacementResponseID uuid.UUID         `gorm:"type:uuid;not null" json:"placement_request_response_id"`
	FromUserID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"from_user_id"`
	ToUserID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"to_user_id"`
	RelationshipType    relationship.Type `gorm:"type:varchar(16);not null" json:"relationship_type"`
	Status              RequestStatus     `gorm:"type:varchar(16);not null" json:"status"`
	ExpiresAt           time.Time         `gorm:"not null" json:"expires_at"`
	CreatedAt           time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Request) TableName() string {
	return "transfer_requests"
}

type HandoverStatus string

const (
	HandoverPending   HandoverStatus = "pending"
	HandoverConfirmed HandoverStatus = "confirmed"
	HandoverCompleted HandoverStatus = "completed"
	HandoverCanceled  HandoverStatus = "canceled"
	HandoverDisputed  HandoverStatus = "disputed"
)

// Handover is the scheduled, physically-confirmed meeting that finalizes a
// transfer. Completion is the only trigger that moves custody in the
// relationship ledger. A canceled handover leaves the transfer request
// confirmed, so a new handover can be scheduled without re-running
// acceptance.
type Handover struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TransferRequestID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"transfer_request_id"`
	OwnerUserID        uuid.UUID      `gorm:"type:uuid;not null" json:"owner_user_id"`
	HelperUserID       uuid.UUID      `gorm:"type:uuid;not null" json:"helper_user_id"`
	Status             HandoverStatus `gorm:"type:varchar(16);not null" json:"status"`
	ScheduledAt        *time.Time     `json:"scheduled_at,omitempty"`
	Location           string         `gorm:"type:text" json:"location,omitempty"`
	OwnerInitiatedAt   *time.Time     `json:"owner_initiated_at,omitempty"`
	HelperConfirmedAt  *time.Time     `json:"helper_confirmed_at,omitempty"`
	ConditionConfirmed bool           `gorm:"not null;default:false" json:"condition_confirmed"`
	CompletedAt        *time.Time     `json:"completed_at,omitempty"`
	CanceledAt         *time.Time     `json:"canceled_at,omitempty"`
	CreatedAt          time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Handover) TableName() string {
	return "transfer_handovers"
}

// Open reports whether the handover still occupies its transfer request:
// only one non-terminal handover may exist per request at a time.
func (h *Handover) Open() bool {
	switch h.Status {
	case HandoverPending, HandoverConfirmed, HandoverDisputed:
		return true
	}
	return false
}
