package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// Appointment is a property visit booked by a customer. AgentID stays nil
// until one agent request is accepted, then holds that agent's user id.
// StartTime/EndTime are zero-padded HH:MM strings, so lexical comparison
// matches chronological comparison inside overlap queries.
type Appointment struct {
	ID              uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID      uuid.UUID               `gorm:"column:property_id;type:uuid;not null;index"`
	CustomerID      uuid.UUID               `gorm:"column:customer_id;type:uuid;not null;index"`
	AgentID         *uuid.UUID              `gorm:"column:agent_id;type:uuid;index"`
	AppointmentDate time.Time               `gorm:"column:appointment_date;type:date;not null;index"`
	StartTime       string                  `gorm:"column:start_time;type:text;not null"`
	EndTime         string                  `gorm:"column:end_time;type:text;not null"`
	Status          enums.AppointmentStatus `gorm:"column:status;type:appointment_status;not null;default:'pending'"`
	Notes           *string                 `gorm:"type:text"`
	CreatedAt       time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// AppointmentStatusHistory is an append-only log of status transitions.
type AppointmentStatusHistory struct {
	ID            uuid.UUID                `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AppointmentID uuid.UUID                `gorm:"column:appointment_id;type:uuid;not null;index"`
	FromStatus    *enums.AppointmentStatus `gorm:"column:from_status;type:appointment_status"`
	ToStatus      enums.AppointmentStatus  `gorm:"column:to_status;type:appointment_status;not null"`
	ChangedBy     *uuid.UUID               `gorm:"column:changed_by;type:uuid"`
	Note          *string                  `gorm:"type:text"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
}
