package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// AgentPayment records a manual payout debited from an agent wallet.
type AgentPayment struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AgentUserID   uuid.UUID           `gorm:"column:agent_user_id;type:uuid;not null;index"`
	Amount        decimal.Decimal     `gorm:"column:amount;type:numeric(12,2);not null"`
	Status        enums.PaymentStatus `gorm:"column:status;type:payment_status;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	Notes         *string             `gorm:"type:text"`
	PaidAt        *time.Time          `gorm:"column:paid_at"`
	ProcessedBy   uuid.UUID           `gorm:"column:processed_by;type:uuid;not null"`
	BalanceBefore decimal.Decimal     `gorm:"column:balance_before;type:numeric(12,2);not null"`
	BalanceAfter  decimal.Decimal     `gorm:"column:balance_after;type:numeric(12,2);not null"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
