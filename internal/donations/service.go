package donations

import (
	"context"
	"errors"
	"fmt"

	"github.com/avelezcruz/mealbridge-backend/internal/notifications"
	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/avelezcruz/mealbridge-backend/pkg/errors"
	"github.com/avelezcruz/mealbridge-backend/pkg/logger"
	"github.com/avelezcruz/mealbridge-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const recentFeedLimit = 20

// Matcher fans out proximity alerts after a donation is posted.
type Matcher interface {
	NotifyDonationMatches(ctx context.Context, donation *models.Donation) (int, error)
}

// Deliverer persists inbox notifications.
type Deliverer interface {
	Deliver(ctx context.Context, inputs []notifications.DeliverInput) error
}

// Awarder credits points when a delivery completes.
type Awarder interface {
	AwardDeliveryPoints(ctx context.Context, donation *models.Donation) error
}

// VolunteerSource lists the volunteer pool for the delivery broadcast.
type VolunteerSource interface {
	ListByRole(ctx context.Context, role enums.UserRole) ([]models.Profile, error)
}

// Service drives the donation lifecycle and its post-commit effects.
type Service interface {
	Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error)
	Get(ctx context.Context, id uuid.UUID) (*DonationWithDonor, error)
	ListAvailable(ctx context.Context) ([]DonationWithDonor, error)
	ListRecent(ctx context.Context) ([]DonationWithDonor, error)
	ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error)
	ListClaimsByReceiver(ctx context.Context, receiverID uuid.UUID) ([]DonationWithDonor, error)
	VolunteerTasks(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error)
	Claim(ctx context.Context, input ClaimInput) (*models.Donation, error)
	AcceptTask(ctx context.Context, input AcceptTaskInput) (*models.Donation, error)
	CompleteDelivery(ctx context.Context, donationID uuid.UUID) (*models.Donation, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Donation, error)
}

type service struct {
	repo       Repository
	matcher    Matcher
	notifier   Deliverer
	awards     Awarder
	volunteers VolunteerSource
	logg       *logger.Logger
	metrics    *metrics.MatchingMetrics
}

// NewService wires the donation lifecycle with its side-effect dependencies.
// Metrics may be nil.
func NewService(
	repo Repository,
	matcher Matcher,
	notifier Deliverer,
	awards Awarder,
	volunteers VolunteerSource,
	logg *logger.Logger,
	m *metrics.MatchingMetrics,
) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "donations repository required")
	}
	if matcher == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "matcher required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification deliverer required")
	}
	if awards == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "award service required")
	}
	if volunteers == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "volunteer source required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{
		repo:       repo,
		matcher:    matcher,
		notifier:   notifier,
		awards:     awards,
		volunteers: volunteers,
		logg:       logg,
		metrics:    m,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateDonationInput) (*models.Donation, error) {
	if input.DonorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "donor identity missing")
	}
	if input.FoodType == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "food type required")
	}
	if input.Quantity == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity required")
	}
	if input.ExpiryTime.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "expiry time required")
	}

	donation := &models.Donation{
		ID:          uuid.New(),
		DonorID:     input.DonorID,
		FoodType:    input.FoodType,
		Quantity:    input.Quantity,
		ExpiryTime:  input.ExpiryTime,
		Location:    input.Location,
		Description: input.Description,
		Status:      enums.DonationStatusAvailable,
	}
	if err := s.repo.Create(ctx, donation); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create donation")
	}

	// post-commit fan-out; never fails the request
	if _, err := s.matcher.NotifyDonationMatches(ctx, donation); err != nil {
		s.swallowEffect(ctx, donation.ID, "match_fanout", err)
	}
	return donation, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*DonationWithDonor, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation id required")
	}
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donation")
	}
	return detail, nil
}

func (s *service) ListAvailable(ctx context.Context) ([]DonationWithDonor, error) {
	rows, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available donations")
	}
	return rows, nil
}

func (s *service) ListRecent(ctx context.Context) ([]DonationWithDonor, error) {
	rows, err := s.repo.ListRecent(ctx, recentFeedLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent donations")
	}
	return rows, nil
}

func (s *service) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error) {
	if donorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donor id required")
	}
	rows, err := s.repo.ListByDonor(ctx, donorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list donor donations")
	}
	return rows, nil
}

func (s *service) ListClaimsByReceiver(ctx context.Context, receiverID uuid.UUID) ([]DonationWithDonor, error) {
	if receiverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "receiver id required")
	}
	rows, err := s.repo.ListClaimsByReceiver(ctx, receiverID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list receiver claims")
	}
	return rows, nil
}

func (s *service) VolunteerTasks(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error) {
	if volunteerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "volunteer id required")
	}
	rows, err := s.repo.ListVolunteerTasks(ctx, volunteerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list volunteer tasks")
	}
	return rows, nil
}

// Claim moves a donation from available to claimed in one conditional
// update; losing the race surfaces as Conflict, never a double claim.
func (s *service) Claim(ctx context.Context, input ClaimInput) (*models.Donation, error) {
	if input.DonationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation id required")
	}
	if input.ReceiverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "receiver identity missing")
	}

	result, err := s.repo.Claim(ctx, input.DonationID, input.ReceiverID, input.DeliveryNeeded)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim donation")
	}
	if !result.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
	}
	if !result.Updated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "donation is no longer available")
	}

	donation, err := s.repo.FindByID(ctx, input.DonationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load claimed donation")
	}

	s.notifyClaim(ctx, donation)
	return donation, nil
}

func (s *service) AcceptTask(ctx context.Context, input AcceptTaskInput) (*models.Donation, error) {
	if input.DonationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation id required")
	}
	if input.VolunteerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "volunteer identity missing")
	}

	result, err := s.repo.AcceptTask(ctx, input.DonationID, input.VolunteerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept delivery task")
	}
	if !result.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
	}
	if !result.Updated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "task is not open for pickup")
	}

	donation, err := s.repo.FindByID(ctx, input.DonationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load accepted donation")
	}
	return donation, nil
}

// CompleteDelivery marks a donation delivered and credits points once. A
// repeat call on an already delivered donation is a no-op success so clients
// can retry safely; points are only awarded on the transition itself.
func (s *service) CompleteDelivery(ctx context.Context, donationID uuid.UUID) (*models.Donation, error) {
	if donationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation id required")
	}

	result, err := s.repo.Complete(ctx, donationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete delivery")
	}
	if !result.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
	}

	donation, err := s.repo.FindByID(ctx, donationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load completed donation")
	}

	if !result.Updated {
		if donation.Status == enums.DonationStatusDelivered {
			return donation, nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "donation cannot be completed from its current state")
	}

	if err := s.awards.AwardDeliveryPoints(ctx, donation); err != nil {
		s.swallowEffect(ctx, donation.ID, "points_award", err)
	}
	s.notifyDelivered(ctx, donation)
	return donation, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.Donation, error) {
	if input.DonationID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "donation id required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid donation status")
	}

	result, err := s.repo.UpdateStatus(ctx, input.DonationID, input.Status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update donation status")
	}
	if !result.Found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "donation not found")
	}

	donation, err := s.repo.FindByID(ctx, input.DonationID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load donation")
	}
	return donation, nil
}

// notifyClaim tells the donor their donation was taken and, when a delivery
// leg is needed, broadcasts to the whole volunteer pool. The broadcast stays
// unfiltered: volunteers self-select from the task board.
func (s *service) notifyClaim(ctx context.Context, donation *models.Donation) {
	donationID := donation.ID

	var donorMessage string
	if donation.DeliveryNeeded {
		donorMessage = fmt.Sprintf("Action Required: Receiver %s needs delivery for %s.", receiverRef(donation), donation.FoodType)
	} else {
		donorMessage = fmt.Sprintf("Update: Receiver %s will pick up %s.", receiverRef(donation), donation.FoodType)
	}

	err := s.notifier.Deliver(ctx, []notifications.DeliverInput{{
		UserID:    donation.DonorID,
		Type:      enums.NotificationTypeClaimUpdate,
		Message:   donorMessage,
		RelatedID: &donationID,
	}})
	if err != nil {
		s.swallowEffect(ctx, donation.ID, "claim_notify_donor", err)
	}

	if !donation.DeliveryNeeded {
		return
	}

	volunteers, err := s.volunteers.ListByRole(ctx, enums.UserRoleVolunteer)
	if err != nil {
		s.swallowEffect(ctx, donation.ID, "claim_list_volunteers", err)
		return
	}
	if len(volunteers) == 0 {
		return
	}

	message := fmt.Sprintf("New Delivery Request: %s needs transport!", donation.FoodType)
	inputs := make([]notifications.DeliverInput, 0, len(volunteers))
	for _, volunteer := range volunteers {
		inputs = append(inputs, notifications.DeliverInput{
			UserID:    volunteer.ID,
			Type:      enums.NotificationTypeDeliveryRequest,
			Message:   message,
			RelatedID: &donationID,
		})
	}
	if err := s.notifier.Deliver(ctx, inputs); err != nil {
		s.swallowEffect(ctx, donation.ID, "claim_notify_volunteers", err)
	}
}

func (s *service) notifyDelivered(ctx context.Context, donation *models.Donation) {
	donationID := donation.ID
	err := s.notifier.Deliver(ctx, []notifications.DeliverInput{{
		UserID:    donation.DonorID,
		Type:      enums.NotificationTypeDeliveryComplete,
		Message:   fmt.Sprintf("Delivered: your donation of %s reached its receiver.", donation.FoodType),
		RelatedID: &donationID,
	}})
	if err != nil {
		s.swallowEffect(ctx, donation.ID, "complete_notify_donor", err)
	}
}

func (s *service) swallowEffect(ctx context.Context, donationID uuid.UUID, effect string, err error) {
	ctx = s.logg.WithDonationID(ctx, donationID.String())
	s.logg.Error(ctx, "post-commit effect failed: "+effect, err)
	s.metrics.IncEffectFailure(effect)
}

func receiverRef(donation *models.Donation) string {
	if donation.ReceiverID == nil {
		return "unknown"
	}
	return donation.ReceiverID.String()
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
