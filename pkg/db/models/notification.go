package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/aqarlink/aqarlink-backend/pkg/enums"
)

// Notification stores in-app notification payloads scoped to users.
type Notification struct {
	ID        uuid.UUID                 `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID                 `gorm:"column:user_id;type:uuid;not null;index"`
	Type      enums.NotificationType    `gorm:"type:notification_type;not null"`
	Channel   enums.NotificationChannel `gorm:"type:notification_channel;not null;default:'in_app'"`
	Title     string                    `gorm:"type:text;not null"`
	Message   string                    `gorm:"type:text;not null"`
	RelatedID *uuid.UUID                `gorm:"column:related_id;type:uuid"`
	ReadAt    *time.Time                `gorm:"type:timestamptz"`
	CreatedAt time.Time                 `gorm:"type:timestamptz;default:now()"`
}
