package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AgentEarning is a denormalized commission record tied to a completed
// appointment request, kept for reporting.
type AgentEarning struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AgentUserID   uuid.UUID       `gorm:"column:agent_user_id;type:uuid;not null;index"`
	AppointmentID uuid.UUID       `gorm:"column:appointment_id;type:uuid;not null"`
	RequestID     uuid.UUID       `gorm:"column:request_id;type:uuid;not null;uniqueIndex"`
	Amount        decimal.Decimal `gorm:"column:amount;type:numeric(12,2);not null"`
	EarnedAt      time.Time       `gorm:"column:earned_at;not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
