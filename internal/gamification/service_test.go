package gamification

import (
	"context"
	"errors"
	"testing"

	"github.com/avelezcruz/mealbridge-backend/pkg/config"
	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/google/uuid"
)

type fakePointsStore struct {
	increments map[uuid.UUID]int
	err        error
}

func newFakePointsStore() *fakePointsStore {
	return &fakePointsStore{increments: make(map[uuid.UUID]int)}
}

func (f *fakePointsStore) IncrementPoints(ctx context.Context, id uuid.UUID, delta int) error {
	if f.err != nil {
		return f.err
	}
	f.increments[id] += delta
	return nil
}

func newAwardService(t *testing.T, store PointsStore) Service {
	t.Helper()

	svc, err := NewService(store, config.MatchingConfig{VolunteerPoints: 50, DonorPoints: 20})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestAwardDeliveryPointsVolunteerAndDonor(t *testing.T) {
	store := newFakePointsStore()
	svc := newAwardService(t, store)

	volunteerID := uuid.New()
	donorID := uuid.New()
	donation := &models.Donation{
		ID:          uuid.New(),
		DonorID:     donorID,
		VolunteerID: &volunteerID,
	}
	if err := svc.AwardDeliveryPoints(context.Background(), donation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.increments[volunteerID] != 50 {
		t.Fatalf("volunteer points = %d, want 50", store.increments[volunteerID])
	}
	if store.increments[donorID] != 20 {
		t.Fatalf("donor points = %d, want 20", store.increments[donorID])
	}
}

func TestAwardDeliveryPointsPickupOnly(t *testing.T) {
	store := newFakePointsStore()
	svc := newAwardService(t, store)

	donorID := uuid.New()
	donation := &models.Donation{ID: uuid.New(), DonorID: donorID}
	if err := svc.AwardDeliveryPoints(context.Background(), donation); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.increments) != 1 {
		t.Fatalf("expected only the donor to be credited, got %d increments", len(store.increments))
	}
	if store.increments[donorID] != 20 {
		t.Fatalf("donor points = %d, want 20", store.increments[donorID])
	}
}

func TestAwardRejectsNegativeDelta(t *testing.T) {
	svc := newAwardService(t, newFakePointsStore())
	if err := svc.Award(context.Background(), uuid.New(), -5); err == nil {
		t.Fatal("expected error for negative delta")
	}
}

func TestAwardZeroDeltaIsNoop(t *testing.T) {
	store := newFakePointsStore()
	svc := newAwardService(t, store)
	if err := svc.Award(context.Background(), uuid.New(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.increments) != 0 {
		t.Fatal("expected no increments for zero delta")
	}
}

func TestAwardDeliveryPointsStoreFailure(t *testing.T) {
	store := newFakePointsStore()
	store.err = errors.New("db down")
	svc := newAwardService(t, store)

	if err := svc.AwardDeliveryPoints(context.Background(), &models.Donation{ID: uuid.New(), DonorID: uuid.New()}); err == nil {
		t.Fatal("expected error")
	}
}
