package response

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusResponded Status = "responded"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Response is a helper's reply to a placement request. A helper may respond
// again after a terminal outcome, but only one outstanding (responded) row
// per (request, helper) is allowed, and only one response per request may
// ever be accepted at a time.
type Response struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PlacementRequestID uuid.UUID  `gorm:"type:uuid;not null;index" json:"placement_request_id"`
	HelperUserID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"helper_user_id"`
	Status             Status     `gorm:"type:varchar(16);not null" json:"status"`
	Message            string     `gorm:"type:text" json:"message,omitempty"`
	RespondedAt        time.Time  `gorm:"not null" json:"responded_at"`
	AcceptedAt         *time.Time `json:"accepted_at,omitempty"`
	RejectedAt         *time.Time `json:"rejected_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty"`
}

func (Response) TableName() string {
	return "placement_responses"
}
