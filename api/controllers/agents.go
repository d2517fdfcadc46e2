package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/aqarlink/aqarlink-backend/api/responses"
	"github.com/aqarlink/aqarlink-backend/api/validators"
	"github.com/aqarlink/aqarlink-backend/internal/agents"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
)

type DecideAgentBody struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// DecideAgent applies an admin approval decision to a pending agent application.
func DecideAgent(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := uuidParam(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body DecideAgentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.Decide(r.Context(), agents.DecideParams{
			AgentID:   agentID,
			Approve:   body.Action == "approve",
			DecidedBy: adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}

type SetVisitAmountBody struct {
	Amount string `json:"amount" validate:"required"`
}

// SetVisitAmount updates the per-visit fee an agent earns on completion.
func SetVisitAmount(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentID, err := uuidParam(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body SetVisitAmountBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		amount, err := decimal.NewFromString(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}

		agent, err := svc.SetVisitAmount(r.Context(), agents.SetVisitAmountParams{
			AgentID:   agentID,
			Amount:    amount,
			UpdatedBy: adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}

// AgentProfile returns the authenticated agent's own profile.
func AgentProfile(svc agents.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agent, err := svc.GetByUserID(r.Context(), agentUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}
