package relationship

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeOwner  Type = "owner"
	TypeFoster Type = "foster"
	TypeSitter Type = "sitter"
	TypeEditor Type = "editor"
	TypeViewer Type = "viewer"
)

func (t Type) Valid() bool {
	switch t {
	case TypeOwner, TypeFoster, TypeSitter, TypeEditor, TypeViewer:
		return true
	}
	return false
}

// Relationship is a time-bounded link between a user and a pet. A nil EndAt
// means the relationship is active. At most one active row may exist per
// (pet, user, type) tuple; the partial unique index in the schema is the
// engine-level backstop for that invariant.
type Relationship struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	PetID            uuid.UUID  `gorm:"type:uuid;not null;index" json:"pet_id"`
	UserID           uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	RelationshipType Type       `gorm:"type:varchar(16);not null" json:"relationship_type"`
	StartAt          time.Time  `gorm:"not null" json:"start_at"`
	EndAt            *time.Time `json:"end_at,omitempty"`
	CreatedBy        uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (Relationship) TableName() string {
	return "pet_relationships"
}

func (r *Relationship) Active() bool {
	return r.EndAt == nil
}
