package wallet

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/pagination"
)

// Repository persists wallet mutations: agent balance updates, the
// append-only transaction ledger, earnings, and payouts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindAgentByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error)
	LockAgentByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error)
	UpdateAgent(ctx context.Context, agentID uuid.UUID, updates map[string]any) error
	MarkRequestCommission(ctx context.Context, requestID uuid.UUID, amount decimal.Decimal, at time.Time) (int64, error)
	InsertEarning(ctx context.Context, earning *models.AgentEarning) error
	InsertPayment(ctx context.Context, payment *models.AgentPayment) error
	InsertTransaction(ctx context.Context, txn *models.WalletTransaction) error
	ListTransactions(ctx context.Context, params listTransactionsParams) ([]models.WalletTransaction, *pagination.Cursor, error)
	ListPayments(ctx context.Context, agentUserID uuid.UUID, limit int) ([]models.AgentPayment, error)
}

type listTransactionsParams struct {
	AgentUserID uuid.UUID
	Type        string
	Limit       int
	Cursor      *pagination.Cursor
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a wallet repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindAgentByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error) {
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

// LockAgentByUserID reads the agent row FOR UPDATE so concurrent balance
// mutations serialize instead of computing from a stale snapshot.
func (r *repositoryImpl) LockAgentByUserID(ctx context.Context, userID uuid.UUID) (*models.Agent, error) {
	var agent models.Agent
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&agent, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &agent, nil
}

func (r *repositoryImpl) UpdateAgent(ctx context.Context, agentID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Agent{}).
		Where("id = ?", agentID).
		Updates(updates).Error
}

// MarkRequestCommission flips the settlement guard on the request. The
// is_commission_added predicate makes the update a no-op when another
// transaction settled first.
func (r *repositoryImpl) MarkRequestCommission(ctx context.Context, requestID uuid.UUID, amount decimal.Decimal, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.AgentAppointmentRequest{}).
		Where("id = ? AND is_commission_added = ?", requestID, false).
		Updates(map[string]any{
			"is_commission_added": true,
			"commission_amount":   amount,
			"commission_added_at": at,
			"updated_at":          at,
		})
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) InsertEarning(ctx context.Context, earning *models.AgentEarning) error {
	return r.db.WithContext(ctx).Create(earning).Error
}

func (r *repositoryImpl) InsertPayment(ctx context.Context, payment *models.AgentPayment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *repositoryImpl) InsertTransaction(ctx context.Context, txn *models.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repositoryImpl) ListTransactions(ctx context.Context, params listTransactionsParams) ([]models.WalletTransaction, *pagination.Cursor, error) {
	query := r.db.WithContext(ctx).
		Model(&models.WalletTransaction{}).
		Where("agent_user_id = ?", params.AgentUserID).
		Order("created_at DESC, id DESC").
		Limit(params.Limit)

	if params.Type != "" {
		query = query.Where("type = ?", params.Type)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.WalletTransaction
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

// ListPayments returns recent payouts, newest first. A zero agentUserID
// lists across all agents for the admin dashboard.
func (r *repositoryImpl) ListPayments(ctx context.Context, agentUserID uuid.UUID, limit int) ([]models.AgentPayment, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit)
	if agentUserID != uuid.Nil {
		query = query.Where("agent_user_id = ?", agentUserID)
	}
	var rows []models.AgentPayment
	err := query.Find(&rows).Error
	return rows, err
}
