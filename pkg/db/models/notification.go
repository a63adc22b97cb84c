package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
)

// Notification stores in-app alert payloads scoped to a user. Rows are never
// deleted by the core; reading flips ReadAt.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID              `gorm:"type:uuid;not null;index" json:"user_id"`
	Type      enums.NotificationType `gorm:"type:text;not null" json:"type"`
	Message   string                 `gorm:"type:text;not null" json:"message"`
	RelatedID *uuid.UUID             `gorm:"type:uuid" json:"related_id,omitempty"`
	ReadAt    *time.Time             `gorm:"type:timestamptz" json:"read_at,omitempty"`
	CreatedAt time.Time              `gorm:"type:timestamptz;default:now()" json:"created_at"`
}

// IsRead reports whether the notification has been acknowledged.
func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}
