package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Session is a shared walk where participants periodically check in and can
// mirror their live location to each other.
type Session struct {
	ID                 snowflake.ID                `gorm:"primaryKey" json:"id"`
	OwnerUID           string                      `gorm:"column:owner_uid;not null" json:"owner_uid"`
	Participants       datatypes.JSONSlice[string] `gorm:"not null" json:"participants"`
	CheckInIntervalSec int                         `gorm:"not null" json:"check_in_interval_sec"`
	Active             bool                        `gorm:"not null;default:true" json:"active"`
	CreatedAt          time.Time                   `gorm:"not null" json:"created_at"`
	LastCheckInAt      *time.Time                  `json:"last_check_in_at,omitempty"`
}

func (Session) TableName() string { return "buddy_sessions" }

func (s Session) HasParticipant(uid string) bool {
	for _, p := range s.Participants {
		if p == uid {
			return true
		}
	}
	return false
}

type CheckInStatus string

const (
	CheckInStatusOK   CheckInStatus = "ok"
	CheckInStatusHelp CheckInStatus = "help"
)

func ParseCheckInStatus(raw string) (CheckInStatus, bool) {
	switch CheckInStatus(raw) {
	case CheckInStatusOK, CheckInStatusHelp:
		return CheckInStatus(raw), true
	default:
		return "", false
	}
}

type CheckIn struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	SessionID snowflake.ID  `gorm:"not null;index:idx_buddy_check_ins_session" json:"session_id"`
	UID       string        `gorm:"column:uid;not null" json:"uid"`
	Status    CheckInStatus `gorm:"not null" json:"status"`
	Timestamp time.Time     `gorm:"not null" json:"timestamp"`
}

func (CheckIn) TableName() string { return "buddy_check_ins" }
