package entities

import (
	"github.com/google/uuid"
)

// AuditLog records an administrative action. Written fire-and-forget; a
// failed insert never blocks the action it describes.
type AuditLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	ActorID    string    `gorm:"index;not null" json:"actor_id"`
	Action     string    `gorm:"not null" json:"action"`
	TargetType string    `gorm:"not null" json:"target_type"`
	TargetID   string    `gorm:"index;not null" json:"target_id"`
	Details    string    `json:"details,omitempty"`

	Timestamp
}
