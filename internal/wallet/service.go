package wallet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/aqarlink/aqarlink-backend/pkg/db/models"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
	pkgerrors "github.com/aqarlink/aqarlink-backend/pkg/errors"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox"
	"github.com/aqarlink/aqarlink-backend/pkg/outbox/payloads"
	"github.com/aqarlink/aqarlink-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service owns all wallet balance mutations. Credits and debits always write
// the agent row and a ledger transaction in the same database transaction.
type Service interface {
	CreditCommission(ctx context.Context, tx *gorm.DB, params CreditCommissionParams) (*models.WalletTransaction, error)
	RecordExpiredVisit(ctx context.Context, tx *gorm.DB, agentUserID uuid.UUID) error
	ProcessPayout(ctx context.Context, params PayoutParams) (*models.AgentPayment, error)
	GetSnapshot(ctx context.Context, agentUserID uuid.UUID) (*Snapshot, error)
	ListTransactions(ctx context.Context, params ListTransactionsParams) (*TransactionList, error)
	ListPayouts(ctx context.Context, params ListPayoutsParams) ([]models.AgentPayment, error)
}

// CreditCommissionParams identifies the accepted request being settled.
type CreditCommissionParams struct {
	Request       *models.AgentAppointmentRequest
	AppointmentID uuid.UUID
	ProcessedBy   uuid.UUID
}

// PayoutParams carries a manual payout initiated by an admin.
type PayoutParams struct {
	AgentUserID uuid.UUID
	Amount      decimal.Decimal
	Method      enums.PaymentMethod
	Notes       *string
	ProcessedBy uuid.UUID
}

// Snapshot is the wallet state returned to agents and admins.
type Snapshot struct {
	AgentUserID           uuid.UUID       `json:"agent_user_id"`
	Balance               decimal.Decimal `json:"balance"`
	TotalEarned           decimal.Decimal `json:"total_earned"`
	TotalPaid             decimal.Decimal `json:"total_paid"`
	CompletedAppointments int             `json:"completed_appointments"`
	TotalTransactions     int             `json:"total_transactions"`
	LastPayoutDate        *time.Time      `json:"last_payout_date,omitempty"`
}

// ListTransactionsParams configures the paginated ledger listing.
type ListTransactionsParams struct {
	AgentUserID uuid.UUID
	Type        string
	Limit       int
	Cursor      string
}

// ListPayoutsParams filters the payout listing. A zero AgentUserID returns
// payouts across all agents.
type ListPayoutsParams struct {
	AgentUserID uuid.UUID
	Limit       int
}

// TransactionList wraps ledger rows and the cursor for the next page.
type TransactionList struct {
	Items  []models.WalletTransaction `json:"items"`
	Cursor string                     `json:"cursor"`
}

type service struct {
	tx     txRunner
	repo   Repository
	outbox outboxPublisher
}

// NewService wires wallet dependencies.
func NewService(tx txRunner, repo Repository, publisher outboxPublisher) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if publisher == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{tx: tx, repo: repo, outbox: publisher}, nil
}

// CreditCommission settles the visit commission for an accepted request. It
// runs inside the caller's transaction so the credit commits or rolls back
// together with the appointment status change.
func (s *service) CreditCommission(ctx context.Context, tx *gorm.DB, params CreditCommissionParams) (*models.WalletTransaction, error) {
	if params.Request == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request required")
	}
	if params.Request.IsCommissionAdded {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "commission already applied for this request")
	}

	repo := s.repo.WithTx(tx)

	agent, err := repo.LockAgentByUserID(ctx, params.Request.AgentUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent wallet")
	}
	if agent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent wallet not found")
	}
	if !agent.VisitAmount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "visit amount not configured for this agent")
	}

	now := time.Now().UTC()
	amount := agent.VisitAmount
	balanceBefore := agent.WalletBalance
	balanceAfter := balanceBefore.Add(amount)

	marked, err := repo.MarkRequestCommission(ctx, params.Request.ID, amount, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark request commission")
	}
	if marked == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "commission already applied for this request")
	}

	updates := map[string]any{
		"wallet_balance":         balanceAfter,
		"total_earned":           agent.TotalEarned.Add(amount),
		"completed_appointments": agent.CompletedAppointments + 1,
		"total_transactions":     agent.TotalTransactions + 1,
		"updated_at":             now,
	}
	if err := repo.UpdateAgent(ctx, agent.ID, updates); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agent wallet")
	}

	earning := &models.AgentEarning{
		AgentUserID:   params.Request.AgentUserID,
		AppointmentID: params.AppointmentID,
		RequestID:     params.Request.ID,
		Amount:        amount,
		EarnedAt:      now,
	}
	if err := repo.InsertEarning(ctx, earning); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert earning")
	}

	requestID := params.Request.ID
	appointmentID := params.AppointmentID
	txn := &models.WalletTransaction{
		AgentUserID:   params.Request.AgentUserID,
		Type:          enums.TransactionTypeEarning,
		Amount:        amount,
		BalanceBefore: balanceBefore,
		BalanceAfter:  balanceAfter,
		Description:   fmt.Sprintf("Visit commission for appointment %s", appointmentID),
		AppointmentID: &appointmentID,
		RequestID:     &requestID,
	}
	if params.ProcessedBy != uuid.Nil {
		processedBy := params.ProcessedBy
		txn.ProcessedBy = &processedBy
	}
	if err := repo.InsertTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert wallet transaction")
	}

	event := outbox.DomainEvent{
		EventType:     enums.EventCommissionCredited,
		AggregateType: enums.AggregateAgent,
		AggregateID:   agent.ID,
		Data: payloads.CommissionCreditedEvent{
			AgentUserID:   params.Request.AgentUserID,
			AppointmentID: appointmentID,
			RequestID:     requestID,
			Amount:        amount,
			BalanceAfter:  balanceAfter,
		},
		OccurredAt: now,
	}
	if err := s.outbox.Emit(ctx, tx, event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit commission event")
	}

	return txn, nil
}

// RecordExpiredVisit counts an expired appointment against the agent's
// transaction total without touching the balance.
func (s *service) RecordExpiredVisit(ctx context.Context, tx *gorm.DB, agentUserID uuid.UUID) error {
	if agentUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}

	repo := s.repo.WithTx(tx)
	agent, err := repo.LockAgentByUserID(ctx, agentUserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent wallet")
	}
	if agent == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "agent wallet not found")
	}

	updates := map[string]any{
		"total_transactions": agent.TotalTransactions + 1,
		"updated_at":         time.Now().UTC(),
	}
	if err := repo.UpdateAgent(ctx, agent.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agent wallet")
	}
	return nil
}

func (s *service) ProcessPayout(ctx context.Context, params PayoutParams) (*models.AgentPayment, error) {
	if params.AgentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}
	if params.ProcessedBy == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "processing admin id required")
	}
	if !params.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payout amount must be greater than zero")
	}
	if !params.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid payment method %q", params.Method))
	}

	var payment *models.AgentPayment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		agent, err := repo.LockAgentByUserID(ctx, params.AgentUserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent wallet")
		}
		if agent == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "agent wallet not found")
		}
		if params.Amount.GreaterThan(agent.WalletBalance) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf(
				"Insufficient wallet balance. Available: SAR %s, Requested: SAR %s",
				agent.WalletBalance.StringFixed(2), params.Amount.StringFixed(2)))
		}

		now := time.Now().UTC()
		balanceBefore := agent.WalletBalance
		balanceAfter := balanceBefore.Sub(params.Amount)

		payment = &models.AgentPayment{
			ID:            uuid.New(),
			AgentUserID:   params.AgentUserID,
			Amount:        params.Amount,
			Status:        enums.PaymentStatusCompleted,
			PaymentMethod: params.Method,
			Notes:         params.Notes,
			PaidAt:        &now,
			ProcessedBy:   params.ProcessedBy,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
		}
		if err := repo.InsertPayment(ctx, payment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert payment")
		}

		updates := map[string]any{
			"wallet_balance":     balanceAfter,
			"total_paid":         agent.TotalPaid.Add(params.Amount),
			"total_transactions": agent.TotalTransactions + 1,
			"last_payout_date":   now,
			"updated_at":         now,
		}
		if err := repo.UpdateAgent(ctx, agent.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update agent wallet")
		}

		paymentID := payment.ID
		processedBy := params.ProcessedBy
		txn := &models.WalletTransaction{
			AgentUserID:   params.AgentUserID,
			Type:          enums.TransactionTypePayout,
			Amount:        params.Amount,
			BalanceBefore: balanceBefore,
			BalanceAfter:  balanceAfter,
			Description:   fmt.Sprintf("Payout via %s", params.Method),
			PaymentID:     &paymentID,
			ProcessedBy:   &processedBy,
		}
		if err := repo.InsertTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert wallet transaction")
		}

		event := outbox.DomainEvent{
			EventType:     enums.EventPayoutProcessed,
			AggregateType: enums.AggregatePayment,
			AggregateID:   payment.ID,
			Actor:         &outbox.ActorRef{UserID: params.ProcessedBy, Role: string(enums.UserRoleAdmin)},
			Data: payloads.PayoutProcessedEvent{
				AgentUserID:  params.AgentUserID,
				PaymentID:    payment.ID,
				Amount:       params.Amount,
				BalanceAfter: balanceAfter,
				Method:       params.Method,
				ProcessedBy:  params.ProcessedBy,
			},
			OccurredAt: now,
		}
		if err := s.outbox.Emit(ctx, tx, event); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "emit payout event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (s *service) GetSnapshot(ctx context.Context, agentUserID uuid.UUID) (*Snapshot, error) {
	if agentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}

	agent, err := s.repo.FindAgentByUserID(ctx, agentUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load agent wallet")
	}
	if agent == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "agent wallet not found")
	}

	return &Snapshot{
		AgentUserID:           agent.UserID,
		Balance:               agent.WalletBalance,
		TotalEarned:           agent.TotalEarned,
		TotalPaid:             agent.TotalPaid,
		CompletedAppointments: agent.CompletedAppointments,
		TotalTransactions:     agent.TotalTransactions,
		LastPayoutDate:        agent.LastPayoutDate,
	}, nil
}

func (s *service) ListTransactions(ctx context.Context, params ListTransactionsParams) (*TransactionList, error) {
	if params.AgentUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent user id required")
	}
	if params.Type != "" && !enums.TransactionType(params.Type).IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", params.Type))
	}

	query := listTransactionsParams{
		AgentUserID: params.AgentUserID,
		Type:        params.Type,
		Limit:       pagination.LimitWithBuffer(params.Limit),
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.ListTransactions(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list wallet transactions")
	}

	cursor := ""
	if next != nil {
		cursor = pagination.EncodeCursor(*next)
	}
	return &TransactionList{Items: rows, Cursor: cursor}, nil
}

func (s *service) ListPayouts(ctx context.Context, params ListPayoutsParams) ([]models.AgentPayment, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 100 {
		limit = 100
	}
	rows, err := s.repo.ListPayments(ctx, params.AgentUserID, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payouts")
	}
	return rows, nil
}
