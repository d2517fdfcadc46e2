package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	"github.com/aqarlink/aqarlink-backend/pkg/pagination"
)

// activeStatuses are the appointment states that still occupy a time slot.
var activeStatuses = []enums.AppointmentStatus{
	enums.AppointmentStatusPending,
	enums.AppointmentStatusAccepted,
	enums.AppointmentStatusConfirmed,
}

// Repository persists appointments, the fan-out requests, and the status
// history trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateAppointment(ctx context.Context, appointment *models.Appointment) error
	FindAppointmentByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error)
	CustomerHasOverlap(ctx context.Context, customerID, propertyID uuid.UUID, startTime, endTime string) (bool, error)
	AgentHasOverlap(ctx context.Context, agentUserID uuid.UUID, date time.Time, startTime, endTime string, excludeAppointmentID uuid.UUID) (bool, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) error
	ClaimAppointment(ctx context.Context, appointmentID, agentUserID uuid.UUID) (int64, error)
	CreateRequests(ctx context.Context, requests []models.AgentAppointmentRequest) error
	FindRequestByID(ctx context.Context, id uuid.UUID) (*models.AgentAppointmentRequest, error)
	FindAcceptedRequest(ctx context.Context, appointmentID uuid.UUID) (*models.AgentAppointmentRequest, error)
	UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status enums.AppointmentStatus, respondedAt time.Time) error
	RejectSiblingRequests(ctx context.Context, appointmentID, winnerRequestID uuid.UUID) ([]uuid.UUID, error)
	AppendStatusHistory(ctx context.Context, entry *models.AppointmentStatusHistory) error
	ListForCustomer(ctx context.Context, params listAppointmentsParams) ([]models.Appointment, *pagination.Cursor, error)
	ListForAgent(ctx context.Context, params listAppointmentsParams) ([]models.Appointment, *pagination.Cursor, error)
	ListPendingRequestsForAgent(ctx context.Context, agentUserID uuid.UUID) ([]models.AgentAppointmentRequest, error)
	FindByDateAndStatuses(ctx context.Context, date time.Time, statuses []enums.AppointmentStatus) ([]models.Appointment, error)
	FindUnassignedOn(ctx context.Context, date time.Time) ([]models.Appointment, error)
}

type listAppointmentsParams struct {
	OwnerID uuid.UUID
	Status  enums.AppointmentStatus
	Limit   int
	Cursor  *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an appointments repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) CreateAppointment(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

func (r *repositoryImpl) FindAppointmentByID(ctx context.Context, id uuid.UUID) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// CustomerHasOverlap reports whether the customer already holds an active
// appointment for the same property overlapping the half-open window
// [start, end). The comparison binds only the wall-clock times, not the date.
// Times are zero-padded HH:MM strings, so lexical comparison is chronological.
func (r *repositoryImpl) CustomerHasOverlap(ctx context.Context, customerID, propertyID uuid.UUID, startTime, endTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("customer_id = ? AND property_id = ? AND status IN ?", customerID, propertyID, activeStatuses).
		Where("start_time < ? AND end_time > ?", endTime, startTime).
		Count(&count).Error
	return count > 0, err
}

// AgentHasOverlap reports whether the agent is already booked on an
// overlapping window. Only assigned, still-live appointments block.
func (r *repositoryImpl) AgentHasOverlap(ctx context.Context, agentUserID uuid.UUID, date time.Time, startTime, endTime string, excludeAppointmentID uuid.UUID) (bool, error) {
	blocking := []enums.AppointmentStatus{
		enums.AppointmentStatusAccepted,
		enums.AppointmentStatusConfirmed,
	}
	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("agent_id = ? AND appointment_date = ? AND status IN ?", agentUserID, date, blocking).
		Where("start_time < ? AND end_time > ?", endTime, startTime)
	if excludeAppointmentID != uuid.Nil {
		query = query.Where("id <> ?", excludeAppointmentID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, status enums.AppointmentStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

// ClaimAppointment assigns the agent with a conditional update. The
// pending-and-unassigned predicate is what decides the first-accept race:
// exactly one concurrent accept sees RowsAffected == 1.
func (r *repositoryImpl) ClaimAppointment(ctx context.Context, appointmentID, agentUserID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ? AND agent_id IS NULL", appointmentID, enums.AppointmentStatusPending).
		Updates(map[string]any{
			"agent_id":   agentUserID,
			"status":     enums.AppointmentStatusConfirmed,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) CreateRequests(ctx context.Context, requests []models.AgentAppointmentRequest) error {
	if len(requests) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&requests).Error
}

func (r *repositoryImpl) FindRequestByID(ctx context.Context, id uuid.UUID) (*models.AgentAppointmentRequest, error) {
	var request models.AgentAppointmentRequest
	err := r.db.WithContext(ctx).First(&request, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) FindAcceptedRequest(ctx context.Context, appointmentID uuid.UUID) (*models.AgentAppointmentRequest, error) {
	var request models.AgentAppointmentRequest
	err := r.db.WithContext(ctx).
		First(&request, "appointment_id = ? AND status = ?", appointmentID, enums.AppointmentStatusAccepted).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repositoryImpl) UpdateRequestStatus(ctx context.Context, requestID uuid.UUID, status enums.AppointmentStatus, respondedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AgentAppointmentRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]any{
			"status":       status,
			"responded_at": respondedAt,
			"updated_at":   respondedAt,
		}).Error
}

// RejectSiblingRequests closes the losing requests once a winner claimed the
// appointment and returns their ids.
func (r *repositoryImpl) RejectSiblingRequests(ctx context.Context, appointmentID, winnerRequestID uuid.UUID) ([]uuid.UUID, error) {
	var siblings []models.AgentAppointmentRequest
	err := r.db.WithContext(ctx).
		Select("id").
		Where("appointment_id = ? AND status = ? AND id <> ?",
			appointmentID, enums.AppointmentStatusPending, winnerRequestID).
		Find(&siblings).Error
	if err != nil {
		return nil, err
	}
	if len(siblings) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, len(siblings))
	for i, sibling := range siblings {
		ids[i] = sibling.ID
	}
	err = r.db.WithContext(ctx).
		Model(&models.AgentAppointmentRequest{}).
		Where("id IN ?", ids).
		Updates(map[string]any{
			"status":     enums.AppointmentStatusRejected,
			"updated_at": time.Now().UTC(),
		}).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *repositoryImpl) AppendStatusHistory(ctx context.Context, entry *models.AppointmentStatusHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repositoryImpl) ListForCustomer(ctx context.Context, params listAppointmentsParams) ([]models.Appointment, *pagination.Cursor, error) {
	return r.listAppointments(ctx, "customer_id = ?", params)
}

func (r *repositoryImpl) ListForAgent(ctx context.Context, params listAppointmentsParams) ([]models.Appointment, *pagination.Cursor, error) {
	return r.listAppointments(ctx, "agent_id = ?", params)
}

func (r *repositoryImpl) listAppointments(ctx context.Context, ownerClause string, params listAppointmentsParams) ([]models.Appointment, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(ownerClause, params.OwnerID).
		Order("created_at DESC, id DESC").
		Limit(params.Limit)

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Appointment
	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	pageSize := params.Limit - 1
	if len(rows) <= pageSize {
		return rows, nil, nil
	}
	rows = rows[:pageSize]
	last := rows[len(rows)-1]
	return rows, &pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}, nil
}

func (r *repositoryImpl) ListPendingRequestsForAgent(ctx context.Context, agentUserID uuid.UUID) ([]models.AgentAppointmentRequest, error) {
	var rows []models.AgentAppointmentRequest
	err := r.db.WithContext(ctx).
		Where("agent_user_id = ? AND status = ?", agentUserID, enums.AppointmentStatusPending).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) FindByDateAndStatuses(ctx context.Context, date time.Time, statuses []enums.AppointmentStatus) ([]models.Appointment, error) {
	var rows []models.Appointment
	err := r.db.WithContext(ctx).
		Where("appointment_date = ? AND status IN ?", date, statuses).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) FindUnassignedOn(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	var rows []models.Appointment
	err := r.db.WithContext(ctx).
		Where("appointment_date = ? AND status = ? AND agent_id IS NULL", date, enums.AppointmentStatusPending).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}
