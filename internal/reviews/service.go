package reviews

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/pagination"
)

type agentLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error)
}

// Service records and reads customer reviews of agents.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*models.CustomerReview, error)
	ListForAgent(ctx context.Context, agentUserID uuid.UUID, limit int) (*AgentReviews, error)
}

// CreateParams carries a customer rating for an agent.
type CreateParams struct {
	AgentUserID uuid.UUID
	CustomerID  uuid.UUID
	Rating      int
	Comment     *string
}

// AgentReviews bundles an agent's recent reviews with rating aggregates.
type AgentReviews struct {
	Items         []models.CustomerReview `json:"items"`
	AverageRating float64                 `json:"average_rating"`
	TotalReviews  int64                   `json:"total_reviews"`
}

type service struct {
	repo   Repository
	agents agentLoader
}

// NewService wires review dependencies.
func NewService(repo Repository, agents agentLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if agents == nil {
		return nil, fmt.Errorf("agent loader required")
	}
	return &service{repo: repo, agents: agents}, nil
}

func (s *service) Create(ctx context.Context, params CreateParams) (*models.CustomerReview, error) {
	if params.AgentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}
	if params.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if params.Rating < 1 || params.Rating > 5 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}

	agent, err := s.agents.FindByUserID(ctx, params.AgentUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	if agent == nil || agent.Status != enums.AgentStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
	}

	exists, err := s.repo.Exists(ctx, params.CustomerID, params.AgentUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing review")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "you already reviewed this agent")
	}

	review := &models.CustomerReview{
		ID:          uuid.New(),
		AgentUserID: params.AgentUserID,
		CustomerID:  params.CustomerID,
		Rating:      params.Rating,
		Comment:     params.Comment,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) ListForAgent(ctx context.Context, agentUserID uuid.UUID, limit int) (*AgentReviews, error) {
	if agentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}

	rows, err := s.repo.ListForAgent(ctx, agentUserID, pagination.NormalizeLimit(limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	average, total, err := s.repo.AverageRating(ctx, agentUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "average rating")
	}

	return &AgentReviews{Items: rows, AverageRating: average, TotalReviews: total}, nil
}
