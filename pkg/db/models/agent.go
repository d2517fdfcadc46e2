package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dbtypes "github.com/aqarlink/aqarlink-backend/pkg/db/types"
	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// Agent is the agent profile and wallet attached to a user. WalletBalance
// must always equal the sum of earning transactions minus the sum of payout
// transactions, so every mutation of it happens inside the same transaction
// that writes the WalletTransaction row.
type Agent struct {
	ID                    uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID                uuid.UUID         `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	Status                enums.AgentStatus `gorm:"column:status;type:agent_status;not null;default:'pending'"`
	CityIDs               dbtypes.UUIDArray `gorm:"type:uuid[];column:city_ids;not null;default:ARRAY[]::uuid[]"`
	AreaIDs               dbtypes.UUIDArray `gorm:"type:uuid[];column:area_ids;not null;default:ARRAY[]::uuid[]"`
	VisitAmount           decimal.Decimal   `gorm:"column:visit_amount;type:numeric(12,2);not null;default:0"`
	WalletBalance         decimal.Decimal   `gorm:"column:wallet_balance;type:numeric(12,2);not null;default:0"`
	TotalEarned           decimal.Decimal   `gorm:"column:total_earned;type:numeric(12,2);not null;default:0"`
	TotalPaid             decimal.Decimal   `gorm:"column:total_paid;type:numeric(12,2);not null;default:0"`
	CompletedAppointments int               `gorm:"column:completed_appointments;not null;default:0"`
	TotalTransactions     int               `gorm:"column:total_transactions;not null;default:0"`
	LastPayoutDate        *time.Time        `gorm:"column:last_payout_date"`
	CreatedAt             time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
