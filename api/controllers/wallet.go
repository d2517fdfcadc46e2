package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/aqarlink/aqarlink-backend/api/responses"
	"github.com/aqarlink/aqarlink-backend/api/validators"
	"github.com/aqarlink/aqarlink-backend/internal/wallet"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
)

// AgentWallet returns the authenticated agent's wallet snapshot.
func AgentWallet(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.GetSnapshot(r.Context(), agentUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}

// AgentWalletTransactions returns the agent's paginated ledger.
func AgentWalletTransactions(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentUserID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListTransactions(r.Context(), wallet.ListTransactionsParams{
			AgentUserID: agentUserID,
			Type:        strings.TrimSpace(r.URL.Query().Get("type")),
			Limit:       limit,
			Cursor:      strings.TrimSpace(r.URL.Query().Get("cursor")),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type ProcessPayoutBody struct {
	AgentUserID string  `json:"agent_user_id" validate:"required,uuid"`
	Amount      string  `json:"amount" validate:"required"`
	Method      string  `json:"method" validate:"required,oneof=bank_transfer cash cheque"`
	Notes       *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// ProcessPayout records a manual payout against an agent's wallet balance.
func ProcessPayout(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body ProcessPayoutBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentUserID, err := parseBodyUUID(body.AgentUserID, "agent_user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		amount, err := decimal.NewFromString(body.Amount)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount"))
			return
		}
		method, err := enums.ParsePaymentMethod(body.Method)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		payment, err := svc.ProcessPayout(r.Context(), wallet.PayoutParams{
			AgentUserID: agentUserID,
			Amount:      amount,
			Method:      method,
			Notes:       body.Notes,
			ProcessedBy: adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, payment)
	}
}

// ListPayouts returns recent payouts for the admin dashboard. An optional
// agent_user_id query filters to one agent.
func ListPayouts(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := wallet.ListPayoutsParams{Limit: limit}
		if raw := strings.TrimSpace(r.URL.Query().Get("agent_user_id")); raw != "" {
			agentUserID, err := parseBodyUUID(raw, "agent_user_id")
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			params.AgentUserID = agentUserID
		}

		rows, err := svc.ListPayouts(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"items": rows})
	}
}

// AdminAgentWallet lets an admin inspect any agent's wallet snapshot.
func AdminAgentWallet(svc wallet.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentUserID, err := uuidParam(r, "agentUserId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		snapshot, err := svc.GetSnapshot(r.Context(), agentUserID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, snapshot)
	}
}
