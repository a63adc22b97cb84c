package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
)

// Profile is the canonical identity entity. The core mutates only the points
// accumulator; everything else is owned by the auth flows.
type Profile struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Email        string          `gorm:"type:text;not null;uniqueIndex" json:"email"`
	PasswordHash string          `gorm:"column:password_hash;not null" json:"-"`
	Role         enums.UserRole  `gorm:"type:text;not null" json:"role"`
	Name         string          `gorm:"type:text;not null" json:"name"`
	Phone        *string         `gorm:"type:text" json:"phone,omitempty"`
	Location     *types.Location `gorm:"type:jsonb" json:"location,omitempty"`
	Points       int             `gorm:"not null;default:0" json:"points"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
