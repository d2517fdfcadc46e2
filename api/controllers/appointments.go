package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aqarlink/aqarlink-backend/api/middleware"
	"github.com/aqarlink/aqarlink-backend/api/responses"
	"github.com/aqarlink/aqarlink-backend/api/validators"
	"github.com/aqarlink/aqarlink-backend/internal/appointments"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
)

type CreateAppointmentBody struct {
	PropertyID string  `json:"property_id" validate:"required,uuid"`
	CustomerID *string `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime  string  `json:"start_time" validate:"required"`
	EndTime    string  `json:"end_time" validate:"required"`
	Notes      *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CreateAppointment books a property visit for the authenticated customer.
// Admins may book on behalf of a customer by naming them in the body.
func CreateAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body CreateAppointmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if body.CustomerID != nil {
			if enums.UserRole(middleware.RoleFromContext(r.Context())) != enums.UserRoleAdmin {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "only admins can book for another customer"))
				return
			}
			customerID, err = parseBodyUUID(*body.CustomerID, "customer id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		propertyID, err := uuid.Parse(body.PropertyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid property id"))
			return
		}
		date, err := time.Parse("2006-01-02", body.Date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date"))
			return
		}

		appointment, err := svc.Create(r.Context(), appointments.CreateParams{
			CustomerID: customerID,
			PropertyID: propertyID,
			Date:       date,
			StartTime:  body.StartTime,
			EndTime:    body.EndTime,
			Notes:      body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, appointment)
	}
}

type RespondToRequestBody struct {
	Action string  `json:"action" validate:"required,oneof=accept reject"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

// RespondToRequest lets an agent accept or reject one of their fan-out requests.
func RespondToRequest(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuidParam(r, "requestId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body RespondToRequestBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Respond(r.Context(), appointments.RespondParams{
			RequestID:   requestID,
			AgentUserID: agentUserID,
			Accept:      body.Action == "accept",
			Note:        body.Note,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type FinalizeAppointmentBody struct {
	Status string  `json:"status" validate:"required,oneof=completed expired"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// FinalizeAppointment moves a confirmed visit to its terminal status and,
// for completions, settles the agent commission.
func FinalizeAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := uuidParam(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body FinalizeAppointmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.FinalizeStatus(r.Context(), appointments.FinalizeParams{
			AppointmentID: appointmentID,
			Target:        enums.AppointmentStatus(body.Status),
			ActorID:       actorUserID,
			Notes:         body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, appointment)
	}
}

type OverrideAppointmentBody struct {
	Status string  `json:"status" validate:"required,oneof=accepted confirmed cancelled rejected"`
	Notes  *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// OverrideAppointmentStatus lets an admin force a status change outside the
// settlement path, including cancellation.
func OverrideAppointmentStatus(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := uuidParam(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body OverrideAppointmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.OverrideStatus(r.Context(), appointments.OverrideParams{
			AppointmentID: appointmentID,
			Target:        enums.AppointmentStatus(body.Status),
			ActorID:       actorUserID,
			Notes:         body.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, appointment)
	}
}

// GetAppointment returns one appointment, limited to its participants and admins.
func GetAppointment(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actorUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointmentID, err := uuidParam(r, "appointmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		appointment, err := svc.GetByID(r.Context(), appointmentID, appointments.Actor{
			UserID: actorUserID,
			Role:   enums.UserRole(middleware.RoleFromContext(r.Context())),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, appointment)
	}
}

// ListMyAppointments returns the authenticated customer's bookings.
func ListMyAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return listAppointments(svc, logg, func(svc appointments.Service, r *http.Request, params appointments.ListParams) (*appointments.ListResult, error) {
		return svc.ListForCustomer(r.Context(), params)
	})
}

// ListAgentAppointments returns visits assigned to the authenticated agent.
func ListAgentAppointments(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return listAppointments(svc, logg, func(svc appointments.Service, r *http.Request, params appointments.ListParams) (*appointments.ListResult, error) {
		return svc.ListForAgent(r.Context(), params)
	})
}

func listAppointments(
	svc appointments.Service,
	logg *logger.Logger,
	list func(appointments.Service, *http.Request, appointments.ListParams) (*appointments.ListResult, error),
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := appointments.ListParams{
			OwnerID: ownerID,
			Limit:   limit,
			Cursor:  strings.TrimSpace(r.URL.Query().Get("cursor")),
		}
		if status := strings.TrimSpace(r.URL.Query().Get("status")); status != "" {
			parsed := enums.AppointmentStatus(status)
			if !parsed.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter"))
				return
			}
			params.Status = parsed
		}

		result, err := list(svc, r, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ListPendingRequests returns the agent's open fan-out requests.
func ListPendingRequests(svc appointments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requests, err := svc.PendingRequests(r.Context(), agentUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": requests})
	}
}

func actorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return id, nil
}

func uuidParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func parseBodyUUID(raw, field string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+field)
	}
	return id, nil
}
