package matching

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/avelezcruz/mealbridge-backend/internal/notifications"
	"github.com/avelezcruz/mealbridge-backend/pkg/config"
	"github.com/avelezcruz/mealbridge-backend/pkg/db/models"
	"github.com/avelezcruz/mealbridge-backend/pkg/enums"
	"github.com/avelezcruz/mealbridge-backend/pkg/types"
	"github.com/google/uuid"
)

type fakeProfileSource struct {
	byRole map[enums.UserRole][]models.Profile
	err    error
}

func (f *fakeProfileSource) ListByRole(ctx context.Context, role enums.UserRole) ([]models.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byRole[role], nil
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

func receiverAt(lat, lng float64) models.Profile {
	return models.Profile{
		ID:       uuid.New(),
		Role:     enums.UserRoleReceiver,
		Location: &types.Location{Lat: lat, Lng: lng},
	}
}

func newMatcher(t *testing.T, profiles ProfileSource, notifier Deliverer) Service {
	t.Helper()

	svc, err := NewService(profiles, notifier, nil, config.MatchingConfig{RadiusKm: 10})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNotifyDonationMatchesWithinRadius(t *testing.T) {
	near := receiverAt(12.98, 77.60)  // ~1.5km from origin
	far := receiverAt(40.71, -74.00)  // other side of the planet
	noLoc := models.Profile{ID: uuid.New(), Role: enums.UserRoleReceiver}

	source := &fakeProfileSource{byRole: map[enums.UserRole][]models.Profile{
		enums.UserRoleReceiver: {near, far, noLoc},
	}}
	sink := &fakeDeliverer{}
	svc := newMatcher(t, source, sink)

	donation := &models.Donation{
		ID:       uuid.New(),
		FoodType: "rice",
		Quantity: "5 kg",
		Location: types.Location{Lat: 12.97, Lng: 77.59},
	}
	count, err := svc.NotifyDonationMatches(context.Background(), donation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 match, got %d", count)
	}
	if len(sink.delivered) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(sink.delivered))
	}
	got := sink.delivered[0]
	if got.UserID != near.ID {
		t.Fatalf("expected nearby receiver %s, got %s", near.ID, got.UserID)
	}
	if got.Type != enums.NotificationTypeMatchAlert {
		t.Fatalf("expected match_alert, got %s", got.Type)
	}
	if got.Message != "New donation available near you: 5 kg of rice" {
		t.Fatalf("unexpected message %q", got.Message)
	}
	if got.RelatedID == nil || *got.RelatedID != donation.ID {
		t.Fatal("expected related id to reference the donation")
	}
}

func TestNotifyDonationMatchesSkipsInvalidOrigin(t *testing.T) {
	source := &fakeProfileSource{byRole: map[enums.UserRole][]models.Profile{
		enums.UserRoleReceiver: {receiverAt(12.98, 77.60)},
	}}
	sink := &fakeDeliverer{}
	svc := newMatcher(t, source, sink)

	count, err := svc.NotifyDonationMatches(context.Background(), &models.Donation{
		ID:       uuid.New(),
		FoodType: "bread",
		Quantity: "2 loaves",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 || len(sink.delivered) != 0 {
		t.Fatal("expected no fan-out for donation without coordinates")
	}
}

func TestNotifyDonationMatchesPropagatesListError(t *testing.T) {
	source := &fakeProfileSource{err: errors.New("db down")}
	svc := newMatcher(t, source, &fakeDeliverer{})

	_, err := svc.NotifyDonationMatches(context.Background(), &models.Donation{
		ID:       uuid.New(),
		Location: types.Location{Lat: 12.97, Lng: 77.59},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestNotifyRequestMatchesTargetsDonors(t *testing.T) {
	donor := models.Profile{
		ID:       uuid.New(),
		Role:     enums.UserRoleDonor,
		Location: &types.Location{Lat: 12.975, Lng: 77.595},
	}
	source := &fakeProfileSource{byRole: map[enums.UserRole][]models.Profile{
		enums.UserRoleDonor: {donor},
	}}
	sink := &fakeDeliverer{}
	svc := newMatcher(t, source, sink)

	request := &models.FoodRequest{
		ID:             uuid.New(),
		FoodTypeNeeded: "vegetables",
		QuantityNeeded: "10 kg",
		Location:       types.Location{Lat: 12.97, Lng: 77.59},
	}
	count, err := svc.NotifyRequestMatches(context.Background(), request)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 match, got %d", count)
	}
	if !strings.Contains(sink.delivered[0].Message, "New food request near you") {
		t.Fatalf("unexpected message %q", sink.delivered[0].Message)
	}
}

func TestNotifyRequestMatchesDeliverFailure(t *testing.T) {
	source := &fakeProfileSource{byRole: map[enums.UserRole][]models.Profile{
		enums.UserRoleDonor: {receiverAt(12.98, 77.60)},
	}}
	sink := &fakeDeliverer{err: errors.New("insert failed")}
	svc := newMatcher(t, source, sink)

	_, err := svc.NotifyRequestMatches(context.Background(), &models.FoodRequest{
		ID:       uuid.New(),
		Location: types.Location{Lat: 12.97, Lng: 77.59},
	})
	if err == nil {
		t.Fatal("expected delivery error to surface")
	}
}
