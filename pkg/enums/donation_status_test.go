package enums

import "testing"

func TestDonationStatusTransitions(t *testing.T) {
	cases := []struct {
		name           string
		from, to       DonationStatus
		deliveryNeeded bool
		want           bool
	}{
		{"available to claimed", DonationStatusAvailable, DonationStatusClaimed, true, true},
		{"available skips to in_transit", DonationStatusAvailable, DonationStatusInTransit, true, false},
		{"available skips to delivered", DonationStatusAvailable, DonationStatusDelivered, false, false},
		{"claimed to in_transit with delivery", DonationStatusClaimed, DonationStatusInTransit, true, true},
		{"claimed to in_transit without delivery", DonationStatusClaimed, DonationStatusInTransit, false, false},
		{"claimed to delivered without delivery", DonationStatusClaimed, DonationStatusDelivered, false, true},
		{"claimed to delivered with delivery", DonationStatusClaimed, DonationStatusDelivered, true, false},
		{"in_transit to delivered", DonationStatusInTransit, DonationStatusDelivered, true, true},
		{"no reverse from delivered", DonationStatusDelivered, DonationStatusClaimed, true, false},
		{"no reverse from claimed", DonationStatusClaimed, DonationStatusAvailable, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.from.CanTransitionTo(tc.to, tc.deliveryNeeded); got != tc.want {
				t.Fatalf("%s -> %s (delivery=%v): got %v, want %v", tc.from, tc.to, tc.deliveryNeeded, got, tc.want)
			}
		})
	}
}

func TestDonationStatusTerminal(t *testing.T) {
	if !DonationStatusDelivered.Terminal() {
		t.Fatal("delivered should be terminal")
	}
	if DonationStatusClaimed.Terminal() {
		t.Fatal("claimed should not be terminal")
	}
}

func TestParseDonationStatus(t *testing.T) {
	status, err := ParseDonationStatus("in_transit")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != DonationStatusInTransit {
		t.Fatalf("unexpected status %s", status)
	}
	if _, err := ParseDonationStatus("reserved"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("volunteer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if role != UserRoleVolunteer {
		t.Fatalf("unexpected role %s", role)
	}
	if _, err := ParseUserRole("admin"); err == nil {
		t.Fatal("expected error for unknown role")
	}
}
