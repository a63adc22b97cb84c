package gamification

import (
	"context"

	"github.com/avelezcruz/mealbridge-backend/pkg/config"
	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	pkgerrors "github.com/avelezcruz/mealbridge-backend/pkg/errors"
	"github.com/google/uuid"
)

// PointsStore applies atomic point increments to profiles.
type PointsStore interface {
	IncrementPoints(ctx context.Context, id uuid.UUID, delta int) error
}

// Service awards points for completed deliveries.
type Service interface {
	Award(ctx context.Context, userID uuid.UUID, delta int) error
	AwardDeliveryPoints(ctx context.Context, donation *models.Donation) error
}

type service struct {
	store           PointsStore
	volunteerPoints int
	donorPoints     int
}

// NewService wires the award engine with the configured point values.
func NewService(store PointsStore, cfg config.MatchingConfig) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "points store required")
	}
	if cfg.VolunteerPoints < 0 || cfg.DonorPoints < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "award points must not be negative")
	}
	return &service{
		store:           store,
		volunteerPoints: cfg.VolunteerPoints,
		donorPoints:     cfg.DonorPoints,
	}, nil
}

// Award applies a single atomic point increment. Deltas never go negative;
// points only accumulate.
func (s *service) Award(ctx context.Context, userID uuid.UUID, delta int) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	if delta < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "award delta must not be negative")
	}
	if delta == 0 {
		return nil
	}
	if err := s.store.IncrementPoints(ctx, userID, delta); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "award points")
	}
	return nil
}

// AwardDeliveryPoints credits the volunteer (when one carried the delivery)
// and the donor for a donation that just reached delivered. Callers invoke
// this exactly once per donation; the status guard upstream prevents repeat
// completion so awards cannot double.
func (s *service) AwardDeliveryPoints(ctx context.Context, donation *models.Donation) error {
	if donation == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "donation required")
	}

	if donation.VolunteerID != nil && *donation.VolunteerID != uuid.Nil {
		if err := s.Award(ctx, *donation.VolunteerID, s.volunteerPoints); err != nil {
			return err
		}
	}

	if donation.DonorID != uuid.Nil {
		if err := s.Award(ctx, donation.DonorID, s.donorPoints); err != nil {
			return err
		}
	}
	return nil
}
