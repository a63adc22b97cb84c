package donations

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/avelezcruz/mealbridge-backend/internal/notifications"
	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/avelezcruz/mealbridge-backend/pkg/errors"
	"github.com/avelezcruz/mealbridge-backend/pkg/logger"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepo struct {
	byID map[uuid.UUID]*models.Donation

	createFn     func(ctx context.Context, donation *models.Donation) error
	claimFn      func(ctx context.Context, donationID, receiverID uuid.UUID, deliveryNeeded bool) (transitionResult, error)
	acceptFn     func(ctx context.Context, donationID, volunteerID uuid.UUID) (transitionResult, error)
	completeFn   func(ctx context.Context, donationID uuid.UUID) (transitionResult, error)
	volunteersFn func(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[uuid.UUID]*models.Donation)}
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, donation *models.Donation) error {
	if f.createFn != nil {
		return f.createFn(ctx, donation)
	}
	f.byID[donation.ID] = donation
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Donation, error) {
	donation, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return donation, nil
}

func (f *fakeRepo) FindDetailByID(ctx context.Context, id uuid.UUID) (*DonationWithDonor, error) {
	donation, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &DonationWithDonor{Donation: *donation, DonorName: "Donor"}, nil
}

func (f *fakeRepo) ListAvailable(ctx context.Context) ([]DonationWithDonor, error) {
	return nil, nil
}

func (f *fakeRepo) ListRecent(ctx context.Context, limit int) ([]DonationWithDonor, error) {
	return nil, nil
}

func (f *fakeRepo) ListByDonor(ctx context.Context, donorID uuid.UUID) ([]models.Donation, error) {
	return nil, nil
}

func (f *fakeRepo) ListClaimsByReceiver(ctx context.Context, receiverID uuid.UUID) ([]DonationWithDonor, error) {
	return nil, nil
}

func (f *fakeRepo) ListVolunteerTasks(ctx context.Context, volunteerID uuid.UUID) ([]models.Donation, error) {
	if f.volunteersFn != nil {
		return f.volunteersFn(ctx, volunteerID)
	}
	return nil, nil
}

func (f *fakeRepo) Claim(ctx context.Context, donationID, receiverID uuid.UUID, deliveryNeeded bool) (transitionResult, error) {
	if f.claimFn != nil {
		return f.claimFn(ctx, donationID, receiverID, deliveryNeeded)
	}
	return transitionResult{}, nil
}

func (f *fakeRepo) AcceptTask(ctx context.Context, donationID, volunteerID uuid.UUID) (transitionResult, error) {
	if f.acceptFn != nil {
		return f.acceptFn(ctx, donationID, volunteerID)
	}
	return transitionResult{}, nil
}

func (f *fakeRepo) Complete(ctx context.Context, donationID uuid.UUID) (transitionResult, error) {
	if f.completeFn != nil {
		return f.completeFn(ctx, donationID)
	}
	return transitionResult{}, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, donationID uuid.UUID, status enums.DonationStatus) (transitionResult, error) {
	donation, ok := f.byID[donationID]
	if !ok {
		return transitionResult{}, nil
	}
	donation.Status = status
	return transitionResult{Updated: true, Found: true}, nil
}

type fakeMatcher struct {
	calls int
	err   error
}

func (f *fakeMatcher) NotifyDonationMatches(ctx context.Context, donation *models.Donation) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

type fakeDeliverer struct {
	delivered []notifications.DeliverInput
	err       error
}

func (f *fakeDeliverer) Deliver(ctx context.Context, inputs []notifications.DeliverInput) error {
	if f.err != nil {
		return f.err
	}
	f.delivered = append(f.delivered, inputs...)
	return nil
}

type fakeAwarder struct {
	awarded []uuid.UUID
	err     error
}

func (f *fakeAwarder) AwardDeliveryPoints(ctx context.Context, donation *models.Donation) error {
	if f.err != nil {
		return f.err
	}
	f.awarded = append(f.awarded, donation.ID)
	return nil
}

type fakeVolunteerSource struct {
	volunteers []models.Profile
	err        error
}

func (f *fakeVolunteerSource) ListByRole(ctx context.Context, role enums.UserRole) ([]models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.volunteers, nil
}

type serviceDeps struct {
	repo       *fakeRepo
	matcher    *fakeMatcher
	notifier   *fakeDeliverer
	awards     *fakeAwarder
	volunteers *fakeVolunteerSource
}

func newTestService(t *testing.T) (Service, *serviceDeps) {
	t.Helper()

	deps := &serviceDeps{
		repo:       newFakeRepo(),
		matcher:    &fakeMatcher{},
		notifier:   &fakeDeliverer{},
		awards:     &fakeAwarder{},
		volunteers: &fakeVolunteerSource{},
	}
	logg := logger.New(logger.Options{ServiceName: "donations-test", Output: io.Discard})
	svc, err := NewService(deps.repo, deps.matcher, deps.notifier, deps.awards, deps.volunteers, logg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, deps
}

func validCreateInput() CreateDonationInput {
	return CreateDonationInput{
		DonorID:    uuid.New(),
		FoodType:   "rice",
		Quantity:   "5 kg",
		ExpiryTime: time.Now().Add(6 * time.Hour),
		Location:   types.Location{Lat: 12.97, Lng: 77.59},
	}
}

func TestCreateDonationTriggersMatchFanout(t *testing.T) {
	svc, deps := newTestService(t)

	donation, err := svc.Create(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if donation.Status != enums.DonationStatusAvailable {
		t.Fatalf("status = %s, want available", donation.Status)
	}
	if donation.ReceiverID != nil || donation.VolunteerID != nil {
		t.Fatal("fresh donation must have no receiver or volunteer")
	}
	if deps.matcher.calls != 1 {
		t.Fatalf("match fan-out calls = %d, want 1", deps.matcher.calls)
	}
}

func TestCreateDonationSurvivesFanoutFailure(t *testing.T) {
	svc, deps := newTestService(t)
	deps.matcher.err = errors.New("notification store down")

	if _, err := svc.Create(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("fan-out failure must not fail the create: %v", err)
	}
}

func TestCreateDonationValidation(t *testing.T) {
	svc, _ := newTestService(t)

	input := validCreateInput()
	input.FoodType = ""
	if _, err := svc.Create(context.Background(), input); pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestClaimConflictWhenAlreadyClaimed(t *testing.T) {
	svc, deps := newTestService(t)
	deps.repo.claimFn = func(ctx context.Context, donationID, receiverID uuid.UUID, deliveryNeeded bool) (transitionResult, error) {
		return transitionResult{Found: true, Updated: false}, nil
	}

	_, err := svc.Claim(context.Background(), ClaimInput{DonationID: uuid.New(), ReceiverID: uuid.New()})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestClaimNotFound(t *testing.T) {
	svc, deps := newTestService(t)
	deps.repo.claimFn = func(ctx context.Context, donationID, receiverID uuid.UUID, deliveryNeeded bool) (transitionResult, error) {
		return transitionResult{Found: false}, nil
	}

	_, err := svc.Claim(context.Background(), ClaimInput{DonationID: uuid.New(), ReceiverID: uuid.New()})
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClaimWithDeliveryBroadcastsToVolunteers(t *testing.T) {
	svc, deps := newTestService(t)

	receiverID := uuid.New()
	donation := &models.Donation{
		ID:             uuid.New(),
		DonorID:        uuid.New(),
		ReceiverID:     &receiverID,
		FoodType:       "bread",
		DeliveryNeeded: true,
		Status:         enums.DonationStatusClaimed,
	}
	deps.repo.byID[donation.ID] = donation
	deps.repo.claimFn = func(ctx context.Context, donationID, rID uuid.UUID, deliveryNeeded bool) (transitionResult, error) {
		return transitionResult{Found: true, Updated: true}, nil
	}
	deps.volunteers.volunteers = []models.Profile{
		{ID: uuid.New(), Role: enums.UserRoleVolunteer},
		{ID: uuid.New(), Role: enums.UserRoleVolunteer},
	}

	if _, err := svc.Claim(context.Background(), ClaimInput{DonationID: donation.ID, ReceiverID: receiverID, DeliveryNeeded: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// one donor alert plus two volunteer broadcasts
	if len(deps.notifier.delivered) != 3 {
		t.Fatalf("deliveries = %d, want 3", len(deps.notifier.delivered))
	}
	donorAlert := deps.notifier.delivered[0]
	if donorAlert.Type != enums.NotificationTypeClaimUpdate {
		t.Fatalf("donor alert type = %s", donorAlert.Type)
	}
	if !strings.Contains(donorAlert.Message, "Action Required") {
		t.Fatalf("unexpected donor message %q", donorAlert.Message)
	}
	for _, broadcast := range deps.notifier.delivered[1:] {
		if broadcast.Type != enums.NotificationTypeDeliveryRequest {
			t.Fatalf("broadcast type = %s", broadcast.Type)
		}
		if broadcast.Message != "New Delivery Request: bread needs transport!" {
			t.Fatalf("unexpected broadcast message %q", broadcast.Message)
		}
	}
}

func TestClaimPickupOnlyNotifiesDonorOnly(t *testing.T) {
	svc, deps := newTestService(t)

	receiverID := uuid.New()
	donation := &models.Donation{
		ID:         uuid.New(),
		DonorID:    uuid.New(),
		ReceiverID: &receiverID,
		FoodType:   "soup",
		Status:     enums.DonationStatusClaimed,
	}
	deps.repo.byID[donation.ID] = donation
	deps.repo.claimFn = func(ctx context.Context, donationID, rID uuid.UUID, deliveryNeeded bool) (transitionResult, error) {
		return transitionResult{Found: true, Updated: true}, nil
	}
	deps.volunteers.volunteers = []models.Profile{{ID: uuid.New()}}

	if _, err := svc.Claim(context.Background(), ClaimInput{DonationID: donation.ID, ReceiverID: receiverID}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(deps.notifier.delivered) != 1 {
		t.Fatalf("deliveries = %d, want donor alert only", len(deps.notifier.delivered))
	}
	if !strings.Contains(deps.notifier.delivered[0].Message, "will pick up") {
		t.Fatalf("unexpected message %q", deps.notifier.delivered[0].Message)
	}
}

func TestAcceptTaskGuard(t *testing.T) {
	svc, deps := newTestService(t)
	deps.repo.acceptFn = func(ctx context.Context, donationID, volunteerID uuid.UUID) (transitionResult, error) {
		return transitionResult{Found: true, Updated: false}, nil
	}

	_, err := svc.AcceptTask(context.Background(), AcceptTaskInput{DonationID: uuid.New(), VolunteerID: uuid.New()})
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCompleteDeliveryAwardsOnce(t *testing.T) {
	svc, deps := newTestService(t)

	volunteerID := uuid.New()
	donation := &models.Donation{
		ID:          uuid.New(),
		DonorID:     uuid.New(),
		VolunteerID: &volunteerID,
		FoodType:    "rice",
		Status:      enums.DonationStatusDelivered,
	}
	deps.repo.byID[donation.ID] = donation

	first := true
	deps.repo.completeFn = func(ctx context.Context, donationID uuid.UUID) (transitionResult, error) {
		if first {
			first = false
			return transitionResult{Found: true, Updated: true}, nil
		}
		return transitionResult{Found: true, Updated: false}, nil
	}

	if _, err := svc.CompleteDelivery(context.Background(), donation.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// retry: already delivered, succeeds without a second award
	if _, err := svc.CompleteDelivery(context.Background(), donation.ID); err != nil {
		t.Fatalf("repeat completion must be a no-op: %v", err)
	}
	if len(deps.awards.awarded) != 1 {
		t.Fatalf("awards = %d, want exactly 1", len(deps.awards.awarded))
	}
}

func TestCompleteDeliveryConflictFromAvailable(t *testing.T) {
	svc, deps := newTestService(t)

	donation := &models.Donation{ID: uuid.New(), DonorID: uuid.New(), Status: enums.DonationStatusAvailable}
	deps.repo.byID[donation.ID] = donation
	deps.repo.completeFn = func(ctx context.Context, donationID uuid.UUID) (transitionResult, error) {
		return transitionResult{Found: true, Updated: false}, nil
	}

	_, err := svc.CompleteDelivery(context.Background(), donation.ID)
	if pkgerrors.As(err).Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(deps.awards.awarded) != 0 {
		t.Fatal("no award expected on rejected completion")
	}
}

func TestCompleteDeliverySurvivesAwardFailure(t *testing.T) {
	svc, deps := newTestService(t)

	donation := &models.Donation{ID: uuid.New(), DonorID: uuid.New(), Status: enums.DonationStatusDelivered}
	deps.repo.byID[donation.ID] = donation
	deps.repo.completeFn = func(ctx context.Context, donationID uuid.UUID) (transitionResult, error) {
		return transitionResult{Found: true, Updated: true}, nil
	}
	deps.awards.err = errors.New("points store down")

	if _, err := svc.CompleteDelivery(context.Background(), donation.ID); err != nil {
		t.Fatalf("award failure must not fail the completion: %v", err)
	}
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateStatus(context.Background(), UpdateStatusInput{DonationID: uuid.New(), Status: enums.DonationStatus("reserved")})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Get(context.Background(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
