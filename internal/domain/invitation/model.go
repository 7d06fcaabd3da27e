package invitation

import (
	"time"

	"pet-custody-go/internal/domain/relationship"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
	StatusRevoked  Status = "revoked"
	StatusExpired  Status = "expired"
)

// Invitation is a single-use, expiring offer to grant a relationship on a
// pet. The token column stores the full signed token; the row's status is
// authoritative, the signature only makes tokens unguessable and tamper
// proof.
type Invitation struct {
	ID               uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	PetID            uuid.UUID         `gorm:"type:uuid;not null;index" json:"pet_id"`
	InvitedByUserID  uuid.UUID         `gorm:"type:uuid;not null" json:"invited_by_user_id"`
	Token            string            `gorm:"uniqueIndex;not null" json:"-"`
	RelationshipType relationship.Type `gorm:"type:varchar(16);not null" json:"relationship_type"`
	Status           Status            `gorm:"type:varchar(16);not null" json:"status"`
	ExpiresAt        time.Time         `gorm:"not null" json:"expires_at"`
	AcceptedByUserID *uuid.UUID        `gorm:"type:uuid" json:"accepted_by_user_id,omitempty"`
	AcceptedAt       *time.Time        `json:"accepted_at,omitempty"`
	CreatedAt        time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Invitation) TableName() string {
	return "relationship_invitations"
}

func (i *Invitation) Terminal() bool {
	return i.Status != StatusPending
}

// Invitable reports whether a relationship type may be offered through an
// invitation. Foster and sitter custody only moves through the handover
// protocol.
func Invitable(t relationship.Type) bool {
	switch t {
	case relationship.TypeOwner, relationship.TypeEditor, relationship.TypeViewer:
		return true
	}
	return false
}
