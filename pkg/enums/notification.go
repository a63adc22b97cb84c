package enums

import "fmt"

// NotificationType labels the alerts the platform generates.
type NotificationType string

const (
	NotificationTypeMatchAlert       NotificationType = "match_alert"
	NotificationTypeClaimUpdate      NotificationType = "claim_update"
	NotificationTypeDeliveryRequest  NotificationType = "delivery_request"
	NotificationTypeDeliveryComplete NotificationType = "delivery_complete"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeMatchAlert,
	NotificationTypeClaimUpdate,
	NotificationTypeDeliveryRequest,
	NotificationTypeDeliveryComplete,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
