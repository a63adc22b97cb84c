package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
)

// Donation is a donor-posted offer of surplus food tracked through the
// delivery lifecycle. ReceiverID is set iff the donation has been claimed;
// VolunteerID is set iff a volunteer accepted a delivery leg.
type Donation struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	DonorID        uuid.UUID            `gorm:"type:uuid;not null;index" json:"donor_id"`
	ReceiverID     *uuid.UUID           `gorm:"type:uuid;index" json:"receiver_id,omitempty"`
	VolunteerID    *uuid.UUID           `gorm:"type:uuid;index" json:"volunteer_id,omitempty"`
	FoodType       string               `gorm:"type:text;not null" json:"food_type"`
	Quantity       string               `gorm:"type:text;not null" json:"quantity"`
	ExpiryTime     time.Time            `gorm:"type:timestamptz;not null" json:"expiry_time"`
	Location       types.Location       `gorm:"type:jsonb;not null" json:"location"`
	Description    string               `gorm:"type:text" json:"description"`
	DeliveryNeeded bool                 `gorm:"not null;default:false" json:"delivery_needed"`
	Status         enums.DonationStatus `gorm:"type:text;not null;index" json:"status"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time            `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
