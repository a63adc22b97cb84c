package matching

import (
	"context"
	"fmt"

	"github.com/avelezcruz/mealbridge-backend/internal/notifications"
	"github.com/avelezcruz/mealbridge-backend/pkg/config"
	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/avelezcruz/mealbridge-backend/pkg/errors"
	"github.com/avelezcruz/mealbridge-backend/pkg/metrics"
)

// ProfileSource supplies the candidate pool for proximity fan-out.
type ProfileSource interface {
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.Profile, error)
}

// Deliverer persists match notifications to user inboxes.
type Deliverer interface {
	Deliver(ctx context.Context, inputs []notifications.DeliverInput) error
}

// Service computes proximity matches and fans out inbox alerts.
type Service interface {
	NotifyDonationMatches(ctx context.Context, donation *models.Donation) (int, error)
	NotifyRequestMatches(ctx context.Context, request *models.FoodRequest) (int, error)
}

type service struct {
	profiles ProfileSource
	notifier Deliverer
	metrics  *metrics.MatchingMetrics
	radiusKm float64
}

// NewService wires the matcher. Metrics may be nil.
func NewService(profiles ProfileSource, notifier Deliverer, m *metrics.MatchingMetrics, cfg config.MatchingConfig) (Service, error) {
	if profiles == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "profile source required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification deliverer required")
	}
	radius := cfg.RadiusKm
	if radius <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "match radius must be positive")
	}
	return &service{
		profiles: profiles,
		notifier: notifier,
		metrics:  m,
		radiusKm: radius,
	}, nil
}

// NotifyDonationMatches alerts every receiver within the configured radius of
// a freshly posted donation. Returns the number of alerts written.
func (s *service) NotifyDonationMatches(ctx context.Context, donation *models.Donation) (int, error) {
	if donation == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "donation required")
	}
	if !donation.Location.Valid() {
		return 0, nil
	}

	receivers, err := s.profiles.ListByRole(ctx, enums.UserRoleReceiver)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list receivers for matching")
	}

	matches := FindNearby(donation.Location, toCandidates(receivers), s.radiusKm)
	if len(matches) == 0 {
		return 0, nil
	}

	donationID := donation.ID
	message := fmt.Sprintf("New donation available near you: %s of %s", donation.Quantity, donation.FoodType)
	inputs := make([]notifications.DeliverInput, 0, len(matches))
	for _, match := range matches {
		inputs = append(inputs, notifications.DeliverInput{
			UserID:    match.ID,
			Type:      enums.NotificationTypeMatchAlert,
			Message:   message,
			RelatedID: &donationID,
		})
	}

	if err := s.notifier.Deliver(ctx, inputs); err != nil {
		return 0, err
	}
	s.metrics.AddMatches("donation", len(inputs))
	return len(inputs), nil
}

// NotifyRequestMatches alerts every donor within the configured radius of a
// new food request.
func (s *service) NotifyRequestMatches(ctx context.Context, request *models.FoodRequest) (int, error) {
	if request == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "food request required")
	}
	if !request.Location.Valid() {
		return 0, nil
	}

	donors, err := s.profiles.ListByRole(ctx, enums.UserRoleDonor)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donors for matching")
	}

	matches := FindNearby(request.Location, toCandidates(donors), s.radiusKm)
	if len(matches) == 0 {
		return 0, nil
	}

	requestID := request.ID
	message := fmt.Sprintf("New food request near you: %s of %s", request.QuantityNeeded, request.FoodTypeNeeded)
	inputs := make([]notifications.DeliverInput, 0, len(matches))
	for _, match := range matches {
		inputs = append(inputs, notifications.DeliverInput{
			UserID:    match.ID,
			Type:      enums.NotificationTypeMatchAlert,
			Message:   message,
			RelatedID: &requestID,
		})
	}

	if err := s.notifier.Deliver(ctx, inputs); err != nil {
		return 0, err
	}
	s.metrics.AddMatches("request", len(inputs))
	return len(inputs), nil
}

func toCandidates(profiles []models.Profile) []Candidate {
	candidates := make([]Candidate, 0, len(profiles))
	for _, profile := range profiles {
		candidates = append(candidates, Candidate{ID: profile.ID, Location: profile.Location})
	}
	return candidates
}
