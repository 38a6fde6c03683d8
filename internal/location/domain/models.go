package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Coordinates is a point on the campus map, optionally with GPS accuracy.
type Coordinates struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Accuracy *float64 `json:"accuracy,omitempty"`
}

// LocationSample is one position observation. Samples are immutable: every
// accepted update appends a new row, and nothing but an explicit per-user
// history clear ever removes one.
type LocationSample struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	UID       string       `gorm:"column:uid;not null;index:idx_location_samples_uid_timestamp" json:"uid"`
	Lat       float64      `gorm:"not null" json:"lat"`
	Lng       float64      `gorm:"not null" json:"lng"`
	Accuracy  *float64     `json:"accuracy,omitempty"`
	Speed     *float64     `json:"speed,omitempty"`
	Heading   *float64     `json:"heading,omitempty"`
	SessionID string       `gorm:"not null;default:'';index:idx_location_samples_session" json:"session_id,omitempty"`
	Timestamp time.Time    `gorm:"not null;index:idx_location_samples_uid_timestamp" json:"timestamp"`
}

func (s LocationSample) Location() Coordinates {
	return Coordinates{Lat: s.Lat, Lng: s.Lng, Accuracy: s.Accuracy}
}

// UserLocation is the denormalized "where is this user now" projection.
// At most one row per uid; always the most recently accepted sample.
type UserLocation struct {
	UID                string    `gorm:"column:uid;primaryKey" json:"uid"`
	Lat                float64   `gorm:"not null" json:"lat"`
	Lng                float64   `gorm:"not null" json:"lng"`
	Accuracy           *float64  `json:"accuracy,omitempty"`
	LastLocationUpdate time.Time `gorm:"not null;index:idx_user_locations_last_update" json:"last_location_update"`
}

func (u UserLocation) Location() Coordinates {
	return Coordinates{Lat: u.Lat, Lng: u.Lng, Accuracy: u.Accuracy}
}

// SessionLocation mirrors a participant's latest position into a shared
// session. Overwritten, not appended, on every tagged update.
type SessionLocation struct {
	SessionID string    `gorm:"primaryKey" json:"session_id"`
	UID       string    `gorm:"column:uid;primaryKey" json:"uid"`
	Lat       float64   `gorm:"not null" json:"lat"`
	Lng       float64   `gorm:"not null" json:"lng"`
	Accuracy  *float64  `json:"accuracy,omitempty"`
	Timestamp time.Time `gorm:"not null" json:"timestamp"`
}

func (l SessionLocation) Location() Coordinates {
	return Coordinates{Lat: l.Lat, Lng: l.Lng, Accuracy: l.Accuracy}
}

// NearbyUser is a hit from the nearby-user search.
type NearbyUser struct {
	UID        string      `json:"uid"`
	Location   Coordinates `json:"location"`
	Distance   float64     `json:"distance"`
	LastUpdate time.Time   `json:"lastUpdate"`
}
