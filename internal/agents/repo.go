package agents

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// Repository exposes persistence helpers for agent profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error)
	FindApproved(ctx context.Context) ([]models.Agent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AgentStatus) (int64, error)
	UpdateVisitAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an agents repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).First(&agent, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *repositoryImpl) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).First(&agent, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *repositoryImpl) FindApproved(ctx context.Context) ([]models.Agent, error) {
	var agents []models.Agent
	err := r.db.WithContext(ctx).
		Where("status = ?", enums.AgentStatusApproved).
		Find(&agents).Error
	return agents, err
}

// UpdateStatus flips the agent status only when the current status matches
// from, so concurrent approval decisions cannot overwrite each other.
func (r *repositoryImpl) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.AgentStatus) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) UpdateVisitAmount(ctx context.Context, id uuid.UUID, amount decimal.Decimal) error {
	return r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"visit_amount": amount,
			"updated_at":   time.Now().UTC(),
		}).Error
}
