package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// WalletTransaction is the append-only wallet ledger. Exactly one row is
// written per balance mutation, inside the same transaction as the agent
// update, with before/after balances captured for audit.
type WalletTransaction struct {
	ID            uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AgentUserID   uuid.UUID             `gorm:"column:agent_user_id;type:uuid;not null;index"`
	Type          enums.TransactionType `gorm:"column:type;type:transaction_type;not null"`
	Amount        decimal.Decimal       `gorm:"column:amount;type:numeric(12,2);not null"`
	BalanceBefore decimal.Decimal       `gorm:"column:balance_before;type:numeric(12,2);not null"`
	BalanceAfter  decimal.Decimal       `gorm:"column:balance_after;type:numeric(12,2);not null"`
	Description   string                `gorm:"type:text;not null"`
	AppointmentID *uuid.UUID            `gorm:"column:appointment_id;type:uuid"`
	RequestID     *uuid.UUID            `gorm:"column:request_id;type:uuid"`
	PaymentID     *uuid.UUID            `gorm:"column:payment_id;type:uuid"`
	ProcessedBy   *uuid.UUID            `gorm:"column:processed_by;type:uuid"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
}
