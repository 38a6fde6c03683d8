package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, incident *Incident) error
	List(ctx context.Context, db *gorm.DB, limit int) ([]*Incident, error)
	// ListSince returns all incidents filed at or after cutoff, any status.
	ListSince(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*Incident, error)
}
