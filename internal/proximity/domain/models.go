package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// WatchKind classifies what a geofence watch is guarding against.
type WatchKind string

const (
	WatchKindIncident WatchKind = "incident"
	WatchKindSafeZone WatchKind = "safe_zone"
	WatchKindBuddy    WatchKind = "buddy"
)

func ParseWatchKind(raw string) (WatchKind, bool) {
	switch WatchKind(raw) {
	case WatchKindIncident, WatchKindSafeZone, WatchKindBuddy:
		return WatchKind(raw), true
	default:
		return "", false
	}
}

// Watch is a standing geofence registered by a user. It fires at most once:
// the triggered flag only ever transitions false to true, and a triggered
// watch is never re-evaluated. Watching the same fence again requires a new
// registration.
type Watch struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UID       string       `gorm:"column:uid;not null;index:idx_proximity_watches_uid_triggered" json:"uid"`
	Kind      WatchKind    `gorm:"not null" json:"kind"`
	Lat       float64      `gorm:"not null" json:"lat"`
	Lng       float64      `gorm:"not null" json:"lng"`
	Radius    float64      `gorm:"not null" json:"radius"`
	Message   string       `gorm:"not null" json:"message"`
	Triggered bool         `gorm:"not null;default:false;index:idx_proximity_watches_uid_triggered" json:"triggered"`
	CreatedAt time.Time    `gorm:"not null" json:"created_at"`
}

func (Watch) TableName() string { return "proximity_watches" }

// TriggeredWatch is what Evaluate reports back for each watch it fired.
type TriggeredWatch struct {
	ID       snowflake.ID `json:"id"`
	Kind     WatchKind    `json:"type"`
	Message  string       `json:"message"`
	Distance float64      `json:"distance"`
}
