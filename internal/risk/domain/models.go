package domain

import (
	"time"

	"gorm.io/datatypes"
)

// GridCell is one incident's contribution to a risk snapshot: the incident
// location plus its time-decayed score.
type GridCell struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	RiskScore float64 `json:"riskScore"`
}

// Snapshot is one periodic risk computation. The id is the UTC hour key of
// the computation time (yyyymmddHH), so runs within the same hour overwrite
// each other and the lexicographically greatest id is always the newest.
type Snapshot struct {
	ID        string                        `gorm:"primaryKey" json:"id"`
	Grid      datatypes.JSONSlice[GridCell] `gorm:"not null" json:"grid"`
	CreatedAt time.Time                     `gorm:"not null" json:"createdAt"`
}

func (Snapshot) TableName() string {
	return "risk_snapshots"
}

// Assessment is the answer to "how risky is it out there right now".
type Assessment struct {
	RiskScore       float64    `json:"riskScore"`
	NearbyIncidents []GridCell `json:"nearbyIncidents"`
}
