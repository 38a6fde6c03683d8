package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Alert is a persisted emergency escalation. Delivered flips once every
// configured dispatch channel accepted the notification.
type Alert struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	UID       string            `gorm:"column:uid;not null;index:idx_alerts_uid" json:"uid"`
	Type      string            `gorm:"not null" json:"type"`
	Payload   datatypes.JSONMap `gorm:"not null" json:"payload"`
	Delivered bool              `gorm:"not null;default:false" json:"delivered"`
	CreatedAt time.Time         `gorm:"not null" json:"createdAt"`
}

func (Alert) TableName() string {
	return "alerts"
}
