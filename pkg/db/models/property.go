package models

import (
	"time"

	"github.com/google/uuid"
)

// Property is a listed unit that appointments are booked against.
type Property struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerID     uuid.UUID `gorm:"column:owner_id;type:uuid;not null;index"`
	CityID      uuid.UUID `gorm:"column:city_id;type:uuid;not null;index"`
	AreaID      uuid.UUID `gorm:"column:area_id;type:uuid;not null;index"`
	Title       string    `gorm:"type:text;not null"`
	Description *string   `gorm:"type:text"`
	Address     *string   `gorm:"type:text"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
