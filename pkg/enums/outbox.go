package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateAppointment OutboxAggregateType = "appointment"
	AggregateAgent       OutboxAggregateType = "agent"
	AggregatePayment     OutboxAggregateType = "payment"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateAppointment,
	AggregateAgent,
	AggregatePayment,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventAppointmentCreated      OutboxEventType = "appointment.created"
	EventAppointmentAssigned     OutboxEventType = "appointment.assigned"
	EventAppointmentFinalized    OutboxEventType = "appointment.finalized"
	EventAppointmentReminderDue  OutboxEventType = "appointment.reminder_due"
	EventAppointmentUnassigned   OutboxEventType = "appointment.unassigned_warning"
	EventCommissionCredited      OutboxEventType = "wallet.commission_credited"
	EventPayoutProcessed         OutboxEventType = "wallet.payout_processed"
	EventAgentApprovalDecided    OutboxEventType = "agent.approval_decided"
	EventAgentVisitAmountUpdated OutboxEventType = "agent.visit_amount_updated"
)

var validOutboxEventTypes = []OutboxEventType{
	EventAppointmentCreated,
	EventAppointmentAssigned,
	EventAppointmentFinalized,
	EventAppointmentReminderDue,
	EventAppointmentUnassigned,
	EventCommissionCredited,
	EventPayoutProcessed,
	EventAgentApprovalDecided,
	EventAgentVisitAmountUpdated,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
