package donations

import (
	"context"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const donorJoinSelect = "donations.*, profiles.name AS donor_name, profiles.phone AS donor_phone"

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository builds a donations repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, donation *models.Donation) error {
	return r.db.WithContext(ctx).Create(donation).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	var donation models.Donation
	if err := r.db.WithContext(ctx).First(&donation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &donation, nil
}

func (r *repositoryImpl) FindDetailByID(ctx context.Context, id uuid.UUID) (*DonationWithDonor, error) {
	var row DonationWithDonor
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select(donorJoinSelect).
		Joins("JOIN profiles ON profiles.id = donations.donor_id").
		Where("donations.id = ?", id).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &row, nil
}

func (r *repositoryImpl) ListAvailable(ctx context.Context) ([]DonationWithDonor, error) {
	var rows []DonationWithDonor
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select(donorJoinSelect).
		Joins("JOIN profiles ON profiles.id = donations.donor_id").
		Where("donations.status = ?", enums.DonationStatusAvailable).
		Order("donations.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListRecent(ctx context.Context, limit int) ([]DonationWithDonor, error) {
	var rows []DonationWithDonor
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select(donorJoinSelect).
		Joins("JOIN profiles ON profiles.id = donations.donor_id").
		Order("donations.created_at DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error) {
	var rows []models.Donation
	err := r.db.WithContext(ctx).
		Where("donor_id = ?", donorID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListClaimsByReceiver(ctx context.Context, receiverID uuid.UUID) ([]DonationWithDonor, error) {
	var rows []DonationWithDonor
	err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Select(donorJoinSelect).
		Joins("JOIN profiles ON profiles.id = donations.donor_id").
		Where("donations.receiver_id = ?", receiverID).
		Order("donations.created_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// ListVolunteerTasks returns the open delivery pool plus the volunteer's own
// in-flight and finished runs, newest first.
func (r *repositoryImpl) ListVolunteerTasks(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error) {
	var rows []models.Donation
	err := r.db.WithContext(ctx).
		Where("(status = ? AND delivery_needed = ?) OR (status IN ? AND volunteer_id = ?)",
			enums.DonationStatusClaimed, true,
			[]enums.DonationStatus{enums.DonationStatusInTransit, enums.DonationStatusDelivered}, volunteerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) Claim(ctx context.Context, donationID, receiverID uuid.UUID, deliveryNeeded bool) (transitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ? AND status = ?", donationID, enums.DonationStatusAvailable).
		Updates(map[string]any{
			"status":          enums.DonationStatusClaimed,
			"receiver_id":     receiverID,
			"delivery_needed": deliveryNeeded,
		})
	return r.resolveTransition(ctx, donationID, result)
}

func (r *repositoryImpl) AcceptTask(ctx context.Context, donationID, volunteerID uuid.UUID) (transitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ? AND status = ? AND delivery_needed = ?", donationID, enums.DonationStatusClaimed, true).
		Updates(map[string]any{
			"status":       enums.DonationStatusInTransit,
			"volunteer_id": volunteerID,
		})
	return r.resolveTransition(ctx, donationID, result)
}

func (r *repositoryImpl) Complete(ctx context.Context, donationID uuid.UUID) (transitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ? AND (status = ? OR (status = ? AND delivery_needed = ?))",
			donationID, enums.DonationStatusInTransit, enums.DonationStatusClaimed, false).
		Update("status", enums.DonationStatusDelivered)
	return r.resolveTransition(ctx, donationID, result)
}

func (r *repositoryImpl) UpdateStatus(ctx context.Context, donationID uuid.UUID, status enums.DonationStatus) (transitionResult, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ?", donationID).
		Update("status", status)
	return r.resolveTransition(ctx, donationID, result)
}

func (r *repositoryImpl) resolveTransition(ctx context.Context, donationID uuid.UUID, result *gorm.DB) (transitionResult, error) {
	if result.Error != nil {
		return transitionResult{}, result.Error
	}
	if result.RowsAffected > 0 {
		return transitionResult{Updated: true, Found: true}, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Donation{}).
		Where("id = ?", donationID).
		Count(&count).Error; err != nil {
		return transitionResult{}, err
	}
	return transitionResult{Found: count > 0}, nil
}
