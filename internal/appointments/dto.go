package appointments

import (
	"time"

	"github.com/google/uuid"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// CreateParams carries a customer booking for a property visit.
type CreateParams struct {
	CustomerID uuid.UUID
	PropertyID uuid.UUID
	Date       time.Time
	StartTime  string
	EndTime    string
	Notes      *string
}

// RespondParams carries an agent decision on a fan-out request.
type RespondParams struct {
	RequestID   uuid.UUID
	AgentUserID uuid.UUID
	Accept      bool
	Note        *string
}

// RespondResult reports the request outcome and, on accept, the claimed
// appointment and the sibling requests that were closed.
type RespondResult struct {
	Request            *models.AgentAppointmentRequest `json:"request"`
	Appointment        *models.Appointment             `json:"appointment,omitempty"`
	RejectedRequestIDs []uuid.UUID                     `json:"rejected_request_ids,omitempty"`
}

// FinalizeParams carries the terminal transition applied by an admin.
type FinalizeParams struct {
	AppointmentID uuid.UUID
	Target        enums.AppointmentStatus
	ActorID       uuid.UUID
	Notes         *string
}

// OverrideParams carries an admin-forced status change outside the
// settlement path.
type OverrideParams struct {
	AppointmentID uuid.UUID
	Target        enums.AppointmentStatus
	ActorID       uuid.UUID
	Notes         *string
}

// Actor identifies the authenticated caller for access checks.
type Actor struct {
	UserID uuid.UUID
	Role   enums.UserRole
}

// ListParams configures the paginated appointment listings.
type ListParams struct {
	OwnerID uuid.UUID
	Status  enums.AppointmentStatus
	Limit   int
	Cursor  string
}

// ListResult wraps returned appointments and the cursor for the next page.
type ListResult struct {
	Items  []models.Appointment `json:"items"`
	Cursor string               `json:"cursor"`
}
