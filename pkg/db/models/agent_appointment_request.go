package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// AgentAppointmentRequest is one row per (appointment, candidate agent),
// created in bulk when the appointment fans out. IsCommissionAdded guards
// settlement: once true, no further commission may be credited for this
// request.
type AgentAppointmentRequest struct {
	ID                uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AppointmentID     uuid.UUID               `gorm:"column:appointment_id;type:uuid;not null;index"`
	AgentUserID       uuid.UUID               `gorm:"column:agent_user_id;type:uuid;not null;index"`
	Status            enums.AppointmentStatus `gorm:"column:status;type:appointment_status;not null;default:'pending'"`
	RespondedAt       *time.Time              `gorm:"column:responded_at"`
	IsCommissionAdded bool                    `gorm:"column:is_commission_added;not null;default:false"`
	CommissionAmount  *decimal.Decimal        `gorm:"column:commission_amount;type:numeric(12,2)"`
	CommissionAddedAt *time.Time              `gorm:"column:commission_added_at"`
	CreatedAt         time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}
