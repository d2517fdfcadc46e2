package controllers

import (
	"net/http"

	"github.com/aqarlink/aqarlink-backend/api/responses"
	"github.com/aqarlink/aqarlink-backend/api/validators"
	"github.com/aqarlink/aqarlink-backend/internal/reviews"
	"github.com/aqarlink/aqarlink-backend/pkg/logger"
)

type CreateReviewBody struct {
	AgentUserID string  `json:"agent_user_id" validate:"required,uuid"`
	Rating      int     `json:"rating" validate:"required,min=1,max=5"`
	Comment     *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}

// CreateReview records a customer rating for an approved agent.
func CreateReview(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := actorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body CreateReviewBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		agentUserID, err := parseBodyUUID(body.AgentUserID, "agent_user_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		comment := body.Comment
		if comment != nil {
			trimmed := validators.SanitizeString(*comment, 1000)
			comment = &trimmed
		}

		review, err := svc.Create(r.Context(), reviews.CreateParams{
			AgentUserID: agentUserID,
			CustomerID:  customerID,
			Rating:      body.Rating,
			Comment:     comment,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, review)
	}
}

// ListAgentReviews returns an agent's recent reviews with rating aggregates.
func ListAgentReviews(svc reviews.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agentUserID, err := uuidParam(r, "agentUserId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListForAgent(r.Context(), agentUserID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
