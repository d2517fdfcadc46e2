package agents

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/internal/users"
	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service manages agent onboarding decisions and pricing.
type Service interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error)
	Decide(ctx context.Context, params DecideParams) (*models.Agent, error)
	SetVisitAmount(ctx context.Context, params SetVisitAmountParams) (*models.Agent, error)
	EligibleForProperty(ctx context.Context, property *models.Property) ([]models.Agent, error)
}

// DecideParams carries an admin approval decision for a pending agent.
type DecideParams struct {
	AgentID   uuid.UUID
	Approve   bool
	DecidedBy uuid.UUID
}

// SetVisitAmountParams carries an admin update of an agent's visit fee.
type SetVisitAmountParams struct {
	AgentID   uuid.UUID
	Amount    decimal.Decimal
	UpdatedBy uuid.UUID
}

type service struct {
	tx             txRunner
	repo           Repository
	usersRepo      users.Repository
	outbox         outboxPublisher
	maxVisitAmount decimal.Decimal
}

// NewService wires agent dependencies.
func NewService(
	tx txRunner,
	repo Repository,
	usersRepo users.Repository,
	publisher outboxPublisher,
	maxVisitAmount decimal.Decimal,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("agents repository required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if !maxVisitAmount.IsPositive() {
		return nil, fmt.Errorf("max visit amount must be positive")
	}
	return &service{
		tx:             tx,
		repo:           repo,
		usersRepo:      usersRepo,
		outbox:         publisher,
		maxVisitAmount: maxVisitAmount,
	}, nil
}

func (s *service) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	agent, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
	}
	if agent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent profile not found")
	}
	return agent, nil
}

// Decide resolves a pending agent application. Approval also promotes the
// backing user to the agent role so role checks pick it up on the next token.
func (s *service) Decide(ctx context.Context, params DecideParams) (*models.Agent, error) {
	if params.AgentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent id required")
	}
	if params.DecidedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "deciding admin id required")
	}

	target := enums.AgentStatusRejected
	if params.Approve {
		target = enums.AgentStatusApproved
	}

	var decided *models.Agent
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agent, err := repo.FindByID(ctx, params.AgentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
		}
		if agent == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}
		if agent.Status != enums.AgentStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "agent application already decided")
		}

		updated, err := repo.UpdateStatus(ctx, agent.ID, enums.AgentStatusPending, target)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agent status")
		}
		if updated == 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "agent application already decided")
		}

		if params.Approve {
			if err := s.usersRepo.WithTx(tx).UpdateRole(ctx, agent.UserID, enums.UserRoleAgent); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote user to agent role")
			}
		}

		now := time.Now().UTC()
		event := outbox.DomainEvent{
			EventType:     enums.EventAgentApprovalDecided,
			AggregateType: enums.AggregateAgent,
			AggregateID:   agent.ID,
			Actor:         &outbox.ActorRef{UserID: params.DecidedBy, Role: string(enums.UserRoleAdmin)},
			Data: payloads.AgentApprovalDecidedEvent{
				AgentUserID: agent.UserID,
				Status:      target,
				DecidedBy:   params.DecidedBy,
				DecidedAt:   now,
			},
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit approval event")
		}

		agent.Status = target
		agent.UpdatedAt = now
		decided = agent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return decided, nil
}

func (s *service) SetVisitAmount(ctx context.Context, params SetVisitAmountParams) (*models.Agent, error) {
	if params.AgentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent id required")
	}
	if params.UpdatedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "updating admin id required")
	}
	if !params.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "visit amount must be greater than zero")
	}
	if params.Amount.GreaterThan(s.maxVisitAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("visit amount cannot exceed SAR %s", s.maxVisitAmount.StringFixed(2)))
	}

	var updated *models.Agent
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agent, err := repo.FindByID(ctx, params.AgentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent")
		}
		if agent == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "agent not found")
		}

		if err := repo.UpdateVisitAmount(ctx, agent.ID, params.Amount); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update visit amount")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventAgentVisitAmountUpdated,
			AggregateType: enums.AggregateAgent,
			AggregateID:   agent.ID,
			Actor:         &outbox.ActorRef{UserID: params.UpdatedBy, Role: string(enums.UserRoleAdmin)},
			Data: payloads.VisitAmountUpdatedEvent{
				AgentUserID: agent.UserID,
				Amount:      params.Amount,
				UpdatedBy:   params.UpdatedBy,
			},
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit visit amount event")
		}

		agent.VisitAmount = params.Amount
		updated = agent
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// EligibleForProperty returns approved agents covering the property location.
// Agents operating in multiple cities match on the property's city; agents
// confined to a single city match on the property's area.
func (s *service) EligibleForProperty(ctx context.Context, property *models.Property) ([]models.Agent, error) {
	if property == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "property required")
	}

	approved, err := s.repo.FindApproved(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load approved agents")
	}

	eligible := make([]models.Agent, 0, len(approved))
	for _, agent := range approved {
		switch {
		case len(agent.CityIDs) > 1:
			if agent.CityIDs.Contains(property.CityID) {
				eligible = append(eligible, agent)
			}
		case len(agent.CityIDs) == 1:
			if agent.AreaIDs.Contains(property.AreaID) {
				eligible = append(eligible, agent)
			}
		}
	}
	return eligible, nil
}
