package requests

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	pkgerrors "github.com/avelezcruz/mealbridge-backend/pkg/errors"
	"github.com/avelezcruz/mealbridge-backend/pkg/logger"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fakeRepo struct {
	created        []*models.FoodRequest
	createErr      error
	findByIDFn     func(ctx context.Context, id uuid.UUID) (*models.FoodRequest, error)
	updateStatusFn func(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (bool, error)
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, request *models.FoodRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, request)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) ListActive(ctx context.Context) ([]RequestWithReceiver, error) {
	return nil, nil
}

func (f *fakeRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (bool, error) {
	if f.updateStatusFn != nil {
		return f.updateStatusFn(ctx, id, status)
	}
	return false, nil
}

type fakeMatcher struct {
	calls int
	err   error
}

func (f *fakeMatcher) NotifyRequestMatches(ctx context.Context, request *models.FoodRequest) (int, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func newTestService(t *testing.T) (Service, *fakeRepo, *fakeMatcher) {
	t.Helper()

	repo := &fakeRepo{}
	matcher := &fakeMatcher{}
	logg := logger.New(logger.Options{ServiceName: "requests-test", Output: io.Discard})
	svc, err := NewService(repo, matcher, logg, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo, matcher
}

func TestCreateRequestTriggersDonorFanout(t *testing.T) {
	svc, repo, matcher := newTestService(t)

	request, err := svc.Create(context.Background(), CreateRequestInput{
		ReceiverID:     uuid.New(),
		FoodTypeNeeded: "vegetables",
		QuantityNeeded: "10 kg",
		Location:       types.Location{Lat: 12.97, Lng: 77.59},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if request.Status != enums.RequestStatusActive {
		t.Fatalf("status = %s, want active", request.Status)
	}
	if len(repo.created) != 1 {
		t.Fatalf("persisted requests = %d, want 1", len(repo.created))
	}
	if matcher.calls != 1 {
		t.Fatalf("fan-out calls = %d, want 1", matcher.calls)
	}
}

func TestCreateRequestSurvivesFanoutFailure(t *testing.T) {
	svc, _, matcher := newTestService(t)
	matcher.err = errors.New("notifications down")

	_, err := svc.Create(context.Background(), CreateRequestInput{
		ReceiverID:     uuid.New(),
		FoodTypeNeeded: "rice",
		QuantityNeeded: "2 kg",
	})
	if err != nil {
		t.Fatalf("fan-out failure must not fail the create: %v", err)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), CreateRequestInput{ReceiverID: uuid.New(), QuantityNeeded: "2 kg"})
	if pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestMarkFulfilledNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.MarkFulfilled(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMarkFulfilledWrongReceiver(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.FoodRequest, error) {
		return &models.FoodRequest{ID: id, ReceiverID: uuid.New(), Status: enums.RequestStatusActive}, nil
	}

	err := svc.MarkFulfilled(context.Background(), uuid.New(), uuid.New())
	if pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestMarkFulfilled(t *testing.T) {
	svc, repo, _ := newTestService(t)
	receiverID := uuid.New()
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.FoodRequest, error) {
		return &models.FoodRequest{ID: id, ReceiverID: receiverID, Status: enums.RequestStatusActive}, nil
	}
	repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (bool, error) {
		if status != enums.RequestStatusFulfilled {
			t.Fatalf("status = %s, want fulfilled", status)
		}
		return true, nil
	}

	if err := svc.MarkFulfilled(context.Background(), receiverID, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMarkFulfilledIdempotent(t *testing.T) {
	svc, repo, _ := newTestService(t)
	receiverID := uuid.New()
	repo.findByIDFn = func(ctx context.Context, id uuid.UUID) (*models.FoodRequest, error) {
		return &models.FoodRequest{ID: id, ReceiverID: receiverID, Status: enums.RequestStatusFulfilled}, nil
	}
	repo.updateStatusFn = func(ctx context.Context, id uuid.UUID, status enums.RequestStatus) (bool, error) {
		t.Fatal("already fulfilled request must not be updated again")
		return false, nil
	}

	if err := svc.MarkFulfilled(context.Background(), receiverID, uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
