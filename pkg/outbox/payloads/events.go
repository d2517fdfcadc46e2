package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// AppointmentCreatedEvent fans out to every eligible agent plus the customer.
type AppointmentCreatedEvent struct {
	AppointmentID uuid.UUID   `json:"appointment_id"`
	PropertyID    uuid.UUID   `json:"property_id"`
	CustomerID    uuid.UUID   `json:"customer_id"`
	AgentUserIDs  []uuid.UUID `json:"agent_user_ids"`
	RequestIDs    []uuid.UUID `json:"request_ids"`
	Date          string      `json:"date"`
	StartTime     string      `json:"start_time"`
	EndTime       string      `json:"end_time"`
}

// AppointmentAssignedEvent is emitted when the winning agent accepts.
type AppointmentAssignedEvent struct {
	AppointmentID      uuid.UUID               `json:"appointment_id"`
	RequestID          uuid.UUID               `json:"request_id"`
	AgentUserID        uuid.UUID               `json:"agent_user_id"`
	CustomerID         uuid.UUID               `json:"customer_id"`
	Status             enums.AppointmentStatus `json:"status"`
	RejectedRequestIDs []uuid.UUID             `json:"rejected_request_ids"`
}

// AppointmentFinalizedEvent reports the terminal transition of a request.
type AppointmentFinalizedEvent struct {
	AppointmentID uuid.UUID               `json:"appointment_id"`
	RequestID     uuid.UUID               `json:"request_id"`
	AgentUserID   uuid.UUID               `json:"agent_user_id"`
	CustomerID    uuid.UUID               `json:"customer_id"`
	Status        enums.AppointmentStatus `json:"status"`
	Notes         string                  `json:"notes,omitempty"`
}

// CommissionCreditedEvent is emitted after a completed visit settles.
type CommissionCreditedEvent struct {
	AgentUserID   uuid.UUID       `json:"agent_user_id"`
	AppointmentID uuid.UUID       `json:"appointment_id"`
	RequestID     uuid.UUID       `json:"request_id"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// PayoutProcessedEvent is emitted after an admin debits an agent wallet.
type PayoutProcessedEvent struct {
	AgentUserID  uuid.UUID           `json:"agent_user_id"`
	PaymentID    uuid.UUID           `json:"payment_id"`
	Amount       decimal.Decimal     `json:"amount"`
	BalanceAfter decimal.Decimal     `json:"balance_after"`
	Method       enums.PaymentMethod `json:"method"`
	ProcessedBy  uuid.UUID           `json:"processed_by"`
}

// AppointmentReminderEvent is queued by the reminder job the day before a visit.
type AppointmentReminderEvent struct {
	AppointmentID uuid.UUID  `json:"appointment_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	AgentUserID   *uuid.UUID `json:"agent_user_id,omitempty"`
	Date          string     `json:"date"`
	StartTime     string     `json:"start_time"`
}

// UnassignedWarningEvent alerts admins about stale unassigned appointments.
type UnassignedWarningEvent struct {
	AppointmentID uuid.UUID   `json:"appointment_id"`
	PropertyID    uuid.UUID   `json:"property_id"`
	Date          string      `json:"date"`
	AdminUserIDs  []uuid.UUID `json:"admin_user_ids"`
}

// AgentApprovalDecidedEvent reports an admin decision on an agent application.
type AgentApprovalDecidedEvent struct {
	AgentUserID uuid.UUID         `json:"agent_user_id"`
	Status      enums.AgentStatus `json:"status"`
	DecidedBy   uuid.UUID         `json:"decided_by"`
	DecidedAt   time.Time         `json:"decided_at"`
}

// VisitAmountUpdatedEvent reports a change to an agent's per-visit commission.
type VisitAmountUpdatedEvent struct {
	AgentUserID uuid.UUID       `json:"agent_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	UpdatedBy   uuid.UUID       `json:"updated_by"`
}
