package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeAppointmentRequest  NotificationType = "appointment_request"
	NotificationTypeAppointmentAssigned NotificationType = "appointment_assigned"
	NotificationTypeAppointmentStatus   NotificationType = "appointment_status"
	NotificationTypeAppointmentReminder NotificationType = "appointment_reminder"
	NotificationTypeUnassignedWarning   NotificationType = "unassigned_warning"
	NotificationTypeCommissionCredited  NotificationType = "commission_credited"
	NotificationTypePayoutProcessed     NotificationType = "payout_processed"
	NotificationTypeAgentApproval       NotificationType = "agent_approval"
	NotificationTypeVisitAmountUpdated  NotificationType = "visit_amount_updated"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeAppointmentRequest,
	NotificationTypeAppointmentAssigned,
	NotificationTypeAppointmentStatus,
	NotificationTypeAppointmentReminder,
	NotificationTypeUnassignedWarning,
	NotificationTypeCommissionCredited,
	NotificationTypePayoutProcessed,
	NotificationTypeAgentApproval,
	NotificationTypeVisitAmountUpdated,
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

// NotificationChannel is the delivery surface for a notification.
type NotificationChannel string

const (
	NotificationChannelInApp NotificationChannel = "in_app"
	NotificationChannelPush  NotificationChannel = "push"
)

var validNotificationChannels = []NotificationChannel{
	NotificationChannelInApp,
	NotificationChannelPush,
}

// IsValid checks whether the given channel matches the canonical enum.
func (n NotificationChannel) IsValid() bool {
	for _, candidate := range validNotificationChannels {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationChannel converts raw strings into NotificationChannel.
func ParseNotificationChannel(value string) (NotificationChannel, error) {
	for _, candidate := range validNotificationChannels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification channel %q", value)
}
