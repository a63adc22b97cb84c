package donations

import (
	"time"

	"github.com/google/uuid"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
)

// CreateDonationInput is what a donor submits when posting surplus food.
type CreateDonationInput struct {
	DonorID     uuid.UUID
	FoodType    string
	Quantity    string
	ExpiryTime  time.Time
	Location    types.Location
	Description string
}

// ClaimInput captures a receiver claiming an available donation.
type ClaimInput struct {
	DonationID     uuid.UUID
	ReceiverID     uuid.UUID
	DeliveryNeeded bool
}

// AcceptTaskInput captures a volunteer taking a delivery leg.
type AcceptTaskInput struct {
	DonationID  uuid.UUID
	VolunteerID uuid.UUID
}

// UpdateStatusInput is the admin/debug free-form status overwrite.
type UpdateStatusInput struct {
	DonationID uuid.UUID
	Status     enums.DonationStatus
}

// DonationWithDonor joins donor contact fields onto a donation row so feeds
// can render pickup details without a second query.
type DonationWithDonor struct {
	models.Donation
	DonorName  string  `gorm:"column:donor_name" json:"donor_name"`
	DonorPhone *string `gorm:"column:donor_phone" json:"donor_phone,omitempty"`
}
