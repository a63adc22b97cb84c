package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
)

// FoodRequest is a receiver-posted ask that triggers donor-side matching.
type FoodRequest struct {
	ID             uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ReceiverID     uuid.UUID           `gorm:"type:uuid;not null;index" json:"receiver_id"`
	FoodTypeNeeded string              `gorm:"type:text;not null" json:"food_type_needed"`
	QuantityNeeded string              `gorm:"type:text;not null" json:"quantity_needed"`
	Location       types.Location      `gorm:"type:jsonb;not null" json:"location"`
	Status         enums.RequestStatus `gorm:"type:text;not null;index" json:"status"`
	CreatedAt      time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
