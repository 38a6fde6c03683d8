package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type IncidentType string

const (
	IncidentTypeHarassment IncidentType = "harassment"
	IncidentTypeTheft      IncidentType = "theft"
	IncidentTypeSuspicious IncidentType = "suspicious"
	IncidentTypeMedical    IncidentType = "medical"
	IncidentTypeOther      IncidentType = "other"
)

func ParseIncidentType(s string) (IncidentType, bool) {
	switch IncidentType(s) {
	case IncidentTypeHarassment, IncidentTypeTheft, IncidentTypeSuspicious, IncidentTypeMedical, IncidentTypeOther:
		return IncidentType(s), true
	}
	return "", false
}

type IncidentStatus string

const (
	IncidentStatusOpen     IncidentStatus = "open"
	IncidentStatusResolved IncidentStatus = "resolved"
)

// Incident is a user-filed safety report. Severity weights the report in
// the periodic risk snapshots.
type Incident struct {
	ID          snowflake.ID   `gorm:"primaryKey" json:"id"`
	UID         string         `gorm:"column:uid;not null;index:idx_incidents_uid" json:"uid"`
	Type        IncidentType   `gorm:"not null" json:"type"`
	Description string         `gorm:"not null" json:"description"`
	Lat         float64        `gorm:"not null" json:"lat"`
	Lng         float64        `gorm:"not null" json:"lng"`
	Severity    int            `gorm:"not null" json:"severity"`
	Status      IncidentStatus `gorm:"not null;default:'open'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;index:idx_incidents_created_at" json:"createdAt"`
}

func (Incident) TableName() string {
	return "incidents"
}
