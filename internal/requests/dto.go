package requests

import (
	"github.com/google/uuid"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
)

// CreateRequestInput is what a receiver submits when asking for food.
type CreateRequestInput struct {
	ReceiverID     uuid.UUID
	FoodTypeNeeded string
	QuantityNeeded string
	Location       types.Location
}

// RequestWithReceiver joins receiver contact fields onto a request row.
type RequestWithReceiver struct {
	models.FoodRequest
	ReceiverName  string  `gorm:"column:receiver_name" json:"receiver_name"`
	ReceiverPhone *string `gorm:"column:receiver_phone" json:"receiver_phone,omitempty"`
}
