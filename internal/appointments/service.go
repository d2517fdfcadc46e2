package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/internal/wallet"
	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/payloads"
	"github.com/aqarlink/aqarlink-backend/pkg/pagination"
)

const dateLayout = "2006-01-02"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type propertyLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

type eligibilityFinder interface {
	EligibleForProperty(ctx context.Context, property *models.Property) ([]models.Agent, error)
}

type walletSettler interface {
	CreditCommission(ctx context.Context, tx *gorm.DB, params wallet.CreditCommissionParams) (*models.WalletTransaction, error)
	RecordExpiredVisit(ctx context.Context, tx *gorm.DB, agentUserID uuid.UUID) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service orchestrates the booking lifecycle: creation with fan-out to
// eligible agents, the first-accept race, and terminal settlement.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.Appointment, error)
	Respond(ctx context.Context, params RespondParams) (*RespondResult, error)
	FinalizeStatus(ctx context.Context, params FinalizeParams) (*models.Appointment, error)
	OverrideStatus(ctx context.Context, params OverrideParams) (*models.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID, actor Actor) (*models.Appointment, error)
	ListForCustomer(ctx context.Context, params ListParams) (*ListResult, error)
	ListForAgent(ctx context.Context, params ListParams) (*ListResult, error)
	PendingRequests(ctx context.Context, agentUserID uuid.UUID) ([]models.AgentAppointmentRequest, error)
	RemindersDue(ctx context.Context, date time.Time) ([]models.Appointment, error)
	UnassignedOn(ctx context.Context, date time.Time) ([]models.Appointment, error)
}

type service struct {
	tx         txRunner
	repo       Repository
	properties propertyLoader
	agents     eligibilityFinder
	wallet     walletSettler
	outbox     outboxPublisher
}

// NewService wires appointment dependencies.
func NewService(
	tx txRunner,
	repo Repository,
	properties propertyLoader,
	agents eligibilityFinder,
	wallet walletSettler,
	publisher outboxPublisher,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("appointments repository required")
	}
	if properties == nil {
		return nil, fmt.Errorf("property loader required")
	}
	if agents == nil {
		return nil, fmt.Errorf("eligibility finder required")
	}
	if wallet == nil {
		return nil, fmt.Errorf("wallet settler required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:         tx,
		repo:       repo,
		properties: properties,
		agents:     agents,
		wallet:     wallet,
		outbox:     publisher,
	}, nil
}

// normalizeClock validates an HH:MM wall clock value and returns it
// zero-padded.
func normalizeClock(value string) (string, error) {
	parsed, err := time.Parse("15:04", value)
	if err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", value)
	}
	return parsed.Format("15:04"), nil
}

func dateOnly(value time.Time) time.Time {
	return time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.Appointment, error) {
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if params.PropertyID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property id required")
	}

	startTime, err := normalizeClock(params.StartTime)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid start time")
	}
	endTime, err := normalizeClock(params.EndTime)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid end time")
	}
	if startTime >= endTime {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "start time must be before end time")
	}

	date := dateOnly(params.Date)
	if date.Before(dateOnly(time.Now().UTC())) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment date cannot be in the past")
	}

	property, err := s.properties.FindByID(ctx, params.PropertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load property")
	}
	if property == nil || !property.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
	}

	overlap, err := s.repo.CustomerHasOverlap(ctx, params.CustomerID, params.PropertyID, startTime, endTime)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check customer schedule")
	}
	if overlap {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already have an appointment in this time window")
	}

	eligible, err := s.agents.EligibleForProperty(ctx, property)
	if err != nil {
		return nil, err
	}

	appointment := &models.Appointment{
		ID:              uuid.New(),
		PropertyID:      params.PropertyID,
		CustomerID:      params.CustomerID,
		AppointmentDate: date,
		StartTime:       startTime,
		EndTime:         endTime,
		Status:          enums.AppointmentStatusPending,
		Notes:           params.Notes,
	}

	noAgents := len(eligible) == 0
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if err := repo.CreateAppointment(ctx, appointment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create appointment")
		}

		customerID := params.CustomerID
		if err := repo.AppendStatusHistory(ctx, &models.AppointmentStatusHistory{
			AppointmentID: appointment.ID,
			ToStatus:      enums.AppointmentStatusPending,
			ChangedBy:     &customerID,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}

		if noAgents {
			if err := repo.UpdateAppointmentStatus(ctx, appointment.ID, enums.AppointmentStatusRejected); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject appointment")
			}
			from := enums.AppointmentStatusPending
			note := "no agents available for this property location"
			if err := repo.AppendStatusHistory(ctx, &models.AppointmentStatusHistory{
				AppointmentID: appointment.ID,
				FromStatus:    &from,
				ToStatus:      enums.AppointmentStatusRejected,
				Note:          &note,
			}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
			}
			appointment.Status = enums.AppointmentStatusRejected
			return nil
		}

		requests := make([]models.AgentAppointmentRequest, len(eligible))
		for i, agent := range eligible {
			requests[i] = models.AgentAppointmentRequest{
				ID:            uuid.New(),
				AppointmentID: appointment.ID,
				AgentUserID:   agent.UserID,
				Status:        enums.AppointmentStatusPending,
			}
		}
		if err := repo.CreateRequests(ctx, requests); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create agent requests")
		}

		agentUserIDs := make([]uuid.UUID, len(requests))
		requestIDs := make([]uuid.UUID, len(requests))
		for i, request := range requests {
			agentUserIDs[i] = request.AgentUserID
			requestIDs[i] = request.ID
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventAppointmentCreated,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appointment.ID,
			Actor:         &outbox.ActorRef{UserID: params.CustomerID, Role: string(enums.UserRoleCustomer)},
			Data: payloads.AppointmentCreatedEvent{
				AppointmentID: appointment.ID,
				PropertyID:    appointment.PropertyID,
				CustomerID:    appointment.CustomerID,
				AgentUserIDs:  agentUserIDs,
				RequestIDs:    requestIDs,
				Date:          date.Format(dateLayout),
				StartTime:     startTime,
				EndTime:       endTime,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit created event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if noAgents {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no agents available for this property location").
			WithDetails(map[string]any{"appointment_id": appointment.ID})
	}
	return appointment, nil
}

// Respond applies an agent's accept or reject to a fan-out request. Accepts
// race through ClaimAppointment, so only the first one assigns the agent.
func (s *service) Respond(ctx context.Context, params RespondParams) (*RespondResult, error) {
	if params.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if params.AgentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}

	var result *RespondResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		request, err := repo.FindRequestByID(ctx, params.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "appointment request not found")
		}
		if request.AgentUserID != params.AgentUserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "request belongs to another agent")
		}
		if request.Status != enums.AppointmentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already processed")
		}

		now := time.Now().UTC()

		if !params.Accept {
			if err := repo.UpdateRequestStatus(ctx, request.ID, enums.AppointmentStatusRejected, now); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject request")
			}
			request.Status = enums.AppointmentStatusRejected
			request.RespondedAt = &now
			result = &RespondResult{Request: request}
			return nil
		}

		appointment, err := repo.FindAppointmentByID(ctx, request.AppointmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
		}
		if appointment == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}

		overlap, err := repo.AgentHasOverlap(ctx, params.AgentUserID, appointment.AppointmentDate,
			appointment.StartTime, appointment.EndTime, appointment.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check agent schedule")
		}
		if overlap {
			return pkgerrors.New(pkgerrors.CodeConflict, "you already have an appointment in this time window")
		}

		claimed, err := repo.ClaimAppointment(ctx, appointment.ID, params.AgentUserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "claim appointment")
		}
		if claimed == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "appointment already assigned to another agent")
		}

		if err := repo.UpdateRequestStatus(ctx, request.ID, enums.AppointmentStatusAccepted, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept request")
		}

		rejectedIDs, err := repo.RejectSiblingRequests(ctx, appointment.ID, request.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject sibling requests")
		}

		from := enums.AppointmentStatusPending
		agentUserID := params.AgentUserID
		if err := repo.AppendStatusHistory(ctx, &models.AppointmentStatusHistory{
			AppointmentID: appointment.ID,
			FromStatus:    &from,
			ToStatus:      enums.AppointmentStatusConfirmed,
			ChangedBy:     &agentUserID,
			Note:          params.Note,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventAppointmentAssigned,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appointment.ID,
			Actor:         &outbox.ActorRef{UserID: params.AgentUserID, Role: string(enums.UserRoleAgent)},
			Data: payloads.AppointmentAssignedEvent{
				AppointmentID:      appointment.ID,
				RequestID:          request.ID,
				AgentUserID:        params.AgentUserID,
				CustomerID:         appointment.CustomerID,
				Status:             enums.AppointmentStatusConfirmed,
				RejectedRequestIDs: rejectedIDs,
			},
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit assigned event")
		}

		request.Status = enums.AppointmentStatusAccepted
		request.RespondedAt = &now
		appointment.Status = enums.AppointmentStatusConfirmed
		appointment.AgentID = &agentUserID
		result = &RespondResult{
			Request:            request,
			Appointment:        appointment,
			RejectedRequestIDs: rejectedIDs,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// FinalizeStatus moves a confirmed appointment to completed or expired.
// Completion credits the visit commission in the same transaction, so the
// status change and the wallet mutation commit or roll back together.
func (s *service) FinalizeStatus(ctx context.Context, params FinalizeParams) (*models.Appointment, error) {
	if params.AppointmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}
	if params.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	if params.Target != enums.AppointmentStatusCompleted && params.Target != enums.AppointmentStatusExpired {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "final status must be completed or expired")
	}

	var finalized *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		appointment, err := repo.FindAppointmentByID(ctx, params.AppointmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
		}
		if appointment == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}
		if appointment.Status == params.Target {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("appointment is already %s", params.Target))
		}
		if appointment.Status != enums.AppointmentStatusConfirmed {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("appointment in status %s cannot be finalized", appointment.Status))
		}

		request, err := repo.FindAcceptedRequest(ctx, appointment.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load accepted request")
		}
		if request == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "no accepted request for this appointment")
		}

		if params.Target == enums.AppointmentStatusCompleted {
			if _, err := s.wallet.CreditCommission(ctx, tx, wallet.CreditCommissionParams{
				Request:       request,
				AppointmentID: appointment.ID,
				ProcessedBy:   params.ActorID,
			}); err != nil {
				return err
			}
		} else {
			if err := s.wallet.RecordExpiredVisit(ctx, tx, request.AgentUserID); err != nil {
				return err
			}
		}

		if err := repo.UpdateAppointmentStatus(ctx, appointment.ID, params.Target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update appointment status")
		}
		if err := repo.UpdateRequestStatus(ctx, request.ID, params.Target, time.Now().UTC()); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}

		from := appointment.Status
		actorID := params.ActorID
		if err := repo.AppendStatusHistory(ctx, &models.AppointmentStatusHistory{
			AppointmentID: appointment.ID,
			FromStatus:    &from,
			ToStatus:      params.Target,
			ChangedBy:     &actorID,
			Note:          params.Notes,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}

		notes := ""
		if params.Notes != nil {
			notes = *params.Notes
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventAppointmentFinalized,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appointment.ID,
			Actor:         &outbox.ActorRef{UserID: params.ActorID, Role: string(enums.UserRoleAdmin)},
			Data: payloads.AppointmentFinalizedEvent{
				AppointmentID: appointment.ID,
				RequestID:     request.ID,
				AgentUserID:   request.AgentUserID,
				CustomerID:    appointment.CustomerID,
				Status:        params.Target,
				Notes:         notes,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit finalized event")
		}

		appointment.Status = params.Target
		finalized = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return finalized, nil
}

func isTerminal(status enums.AppointmentStatus) bool {
	switch status {
	case enums.AppointmentStatusCompleted,
		enums.AppointmentStatusExpired,
		enums.AppointmentStatusCancelled,
		enums.AppointmentStatusRejected:
		return true
	}
	return false
}

// OverrideStatus lets an admin force a non-settlement status change, most
// notably cancellation. Completed and expired stay on the settlement path
// so the wallet mutation cannot be bypassed.
func (s *service) OverrideStatus(ctx context.Context, params OverrideParams) (*models.Appointment, error) {
	if params.AppointmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}
	if params.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id required")
	}
	if !params.Target.IsValid() || params.Target == enums.AppointmentStatusPending {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid target status %q", params.Target))
	}
	if params.Target == enums.AppointmentStatusCompleted || params.Target == enums.AppointmentStatusExpired {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "completed and expired are settled through the final-status transition")
	}

	var overridden *models.Appointment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		appointment, err := repo.FindAppointmentByID(ctx, params.AppointmentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
		}
		if appointment == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
		}
		if appointment.Status == params.Target {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("appointment is already %s", params.Target))
		}
		if isTerminal(appointment.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("appointment in status %s cannot be overridden", appointment.Status))
		}

		accepted, err := repo.FindAcceptedRequest(ctx, appointment.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load accepted request")
		}

		if isTerminal(params.Target) {
			now := time.Now().UTC()
			if _, err := repo.RejectSiblingRequests(ctx, appointment.ID, uuid.Nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "close pending requests")
			}
			if accepted != nil {
				if err := repo.UpdateRequestStatus(ctx, accepted.ID, params.Target, now); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
				}
			}
		}

		if err := repo.UpdateAppointmentStatus(ctx, appointment.ID, params.Target); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update appointment status")
		}

		from := appointment.Status
		actorID := params.ActorID
		if err := repo.AppendStatusHistory(ctx, &models.AppointmentStatusHistory{
			AppointmentID: appointment.ID,
			FromStatus:    &from,
			ToStatus:      params.Target,
			ChangedBy:     &actorID,
			Note:          params.Notes,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}

		notes := ""
		if params.Notes != nil {
			notes = *params.Notes
		}
		var agentUserID uuid.UUID
		if appointment.AgentID != nil {
			agentUserID = *appointment.AgentID
		}
		var requestID uuid.UUID
		if accepted != nil {
			requestID = accepted.ID
		}
		event := outbox.DomainEvent{
			EventType:     enums.EventAppointmentFinalized,
			AggregateType: enums.AggregateAppointment,
			AggregateID:   appointment.ID,
			Actor:         &outbox.ActorRef{UserID: params.ActorID, Role: string(enums.UserRoleAdmin)},
			Data: payloads.AppointmentFinalizedEvent{
				AppointmentID: appointment.ID,
				RequestID:     requestID,
				AgentUserID:   agentUserID,
				CustomerID:    appointment.CustomerID,
				Status:        params.Target,
				Notes:         notes,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit status event")
		}

		appointment.Status = params.Target
		overridden = appointment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return overridden, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID, actor Actor) (*models.Appointment, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "appointment id required")
	}

	appointment, err := s.repo.FindAppointmentByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load appointment")
	}
	if appointment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "appointment not found")
	}

	switch {
	case actor.Role == enums.UserRoleAdmin:
	case appointment.CustomerID == actor.UserID:
	case appointment.AgentID != nil && *appointment.AgentID == actor.UserID:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "appointment belongs to another user")
	}
	return appointment, nil
}

func (s *service) ListForCustomer(ctx context.Context, params ListParams) (*ListResult, error) {
	return s.list(ctx, params, s.repo.ListForCustomer)
}

func (s *service) ListForAgent(ctx context.Context, params ListParams) (*ListResult, error) {
	return s.list(ctx, params, s.repo.ListForAgent)
}

func (s *service) list(
	ctx context.Context,
	params ListParams,
	fetch func(context.Context, listAppointmentsParams) ([]models.Appointment, *pagination.Cursor, error),
) (*ListResult, error) {
	if params.OwnerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner id required")
	}
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid status %q", params.Status))
	}

	query := listAppointmentsParams{
		OwnerID: params.OwnerID,
		Status:  params.Status,
		Limit:   pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := fetch(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list appointments")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &ListResult{Items: rows, Cursor: cursor}, nil
}

func (s *service) PendingRequests(ctx context.Context, agentUserID uuid.UUID) ([]models.AgentAppointmentRequest, error) {
	if agentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}
	rows, err := s.repo.ListPendingRequestsForAgent(ctx, agentUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending requests")
	}
	return rows, nil
}

func (s *service) RemindersDue(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	statuses := []enums.AppointmentStatus{
		enums.AppointmentStatusAccepted,
		enums.AppointmentStatusConfirmed,
	}
	rows, err := s.repo.FindByDateAndStatuses(ctx, dateOnly(date), statuses)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find appointments for reminders")
	}
	return rows, nil
}

func (s *service) UnassignedOn(ctx context.Context, date time.Time) ([]models.Appointment, error) {
	rows, err := s.repo.FindUnassignedOn(ctx, dateOnly(date))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find unassigned appointments")
	}
	return rows, nil
}
