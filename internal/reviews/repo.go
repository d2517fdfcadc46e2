package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
)

// Repository persists customer reviews of agents.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, review *models.CustomerReview) error
	Exists(ctx context.Context, customerID, agentUserID uuid.UUID) (bool, error)
	ListForAgent(ctx context.Context, agentUserID uuid.UUID, limit int) ([]models.CustomerReview, error)
	AverageRating(ctx context.Context, agentUserID uuid.UUID) (float64, int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a reviews repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, review *models.CustomerReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *repositoryImpl) Exists(ctx context.Context, customerID, agentUserID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.CustomerReview{}).
		Where("customer_id = ? AND agent_user_id = ?", customerID, agentUserID).
		Count(&count).Error
	return count > 0, err
}

func (r *repositoryImpl) ListForAgent(ctx context.Context, agentUserID uuid.UUID, limit int) ([]models.CustomerReview, error) {
	var rows []models.CustomerReview
	err := r.db.WithContext(ctx).
		Where("agent_user_id = ?", agentUserID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *repositoryImpl) AverageRating(ctx context.Context, agentUserID uuid.UUID) (float64, int64, error) {
	var result struct {
		Average float64
		Total   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.CustomerReview{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS total").
		Where("agent_user_id = ?", agentUserID).
		Scan(&result).Error
	return result.Average, result.Total, err
}
