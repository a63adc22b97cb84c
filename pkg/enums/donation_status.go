package enums

import "fmt"

// DonationStatus tracks a donation through its delivery lifecycle.
type DonationStatus string

const (
	DonationStatusAvailable DonationStatus = "available"
	DonationStatusClaimed   DonationStatus = "claimed"
	DonationStatusInTransit DonationStatus = "in_transit"
	DonationStatusDelivered DonationStatus = "delivered"
)

var validDonationStatuses = []DonationStatus{
	DonationStatusAvailable,
	DonationStatusClaimed,
	DonationStatusInTransit,
	DonationStatusDelivered,
}

// String implements fmt.Stringer.
func (s DonationStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known DonationStatus.
func (s DonationStatus) IsValid() bool {
	for _, candidate := range validDonationStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// Terminal reports whether the status permits no further transitions.
func (s DonationStatus) Terminal() bool {
	return s == DonationStatusDelivered
}

// CanTransitionTo reports whether moving to next is legal. The lifecycle is
// monotonic: available → claimed → in_transit → delivered, with in_transit
// skipped when no delivery leg exists.
func (s DonationStatus) CanTransitionTo(next DonationStatus, deliveryNeeded bool) bool {
	switch s {
	case DonationStatusAvailable:
		return next == DonationStatusClaimed
	case DonationStatusClaimed:
		if deliveryNeeded {
			return next == DonationStatusInTransit
		}
		return next == DonationStatusDelivered
	case DonationStatusInTransit:
		return next == DonationStatusDelivered
	default:
		return false
	}
}

// ParseDonationStatus converts raw input into a DonationStatus.
func ParseDonationStatus(value string) (DonationStatus, error) {
	for _, candidate := range validDonationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid donation status %q", value)
}
