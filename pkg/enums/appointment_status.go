package enums

import "fmt"

// AppointmentStatus maps to the appointment_status enum in Postgres. The
// same set is used for appointment rows and for per-agent appointment
// requests, since a request follows its appointment into the terminal
// states.
type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusAccepted  AppointmentStatus = "accepted"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusExpired   AppointmentStatus = "expired"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusRejected  AppointmentStatus = "rejected"
)

var validAppointmentStatuses = []AppointmentStatus{
	AppointmentStatusPending,
	AppointmentStatusAccepted,
	AppointmentStatusConfirmed,
	AppointmentStatusCompleted,
	AppointmentStatusExpired,
	AppointmentStatusCancelled,
	AppointmentStatusRejected,
}

// String implements fmt.Stringer.
func (a AppointmentStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AppointmentStatus.
func (a AppointmentStatus) IsValid() bool {
	for _, candidate := range validAppointmentStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status permits no further transitions.
func (a AppointmentStatus) IsTerminal() bool {
	switch a {
	case AppointmentStatusCompleted, AppointmentStatusExpired, AppointmentStatusCancelled, AppointmentStatusRejected:
		return true
	}
	return false
}

// ParseAppointmentStatus converts raw input into an AppointmentStatus.
func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	for _, candidate := range validAppointmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid appointment status %q", value)
}
