package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerReview is a customer rating of an agent after a visit.
type CustomerReview struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	AgentUserID uuid.UUID `gorm:"column:agent_user_id;type:uuid;not null;index"`
	CustomerID  uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index"`
	Rating      int       `gorm:"column:rating;not null"`
	Comment     *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}
