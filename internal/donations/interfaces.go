package donations

import (
	"context"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for the donation lifecycle. The
// state-changing methods are single conditional updates; RowsAffected
// discriminates a lost race from a missing row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, donation *models.Donation) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error)
	FindDetailByID(ctx context.Context, id uuid.UUID) (*DonationWithDonor, error)
	ListAvailable(ctx context.Context) ([]DonationWithDonor, error)
	ListRecent(ctx context.Context, limit int) ([]DonationWithDonor, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error)
	ListClaimsByReceiver(ctx context.Context, receiverID uuid.UUID) ([]DonationWithDonor, error)
	ListVolunteerTasks(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error)
	Claim(ctx context.Context, donationID, receiverID uuid.UUID, deliveryNeeded bool) (transitionResult, error)
	AcceptTask(ctx context.Context, donationID, volunteerID uuid.UUID) (transitionResult, error)
	Complete(ctx context.Context, donationID uuid.UUID) (transitionResult, error)
	UpdateStatus(ctx context.Context, donationID uuid.UUID, status enums.DonationStatus) (transitionResult, error)
}

// transitionResult reports whether a conditional update changed a row and
// whether the row exists at all.
type transitionResult struct {
	Updated bool
	Found   bool
}
