package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Upsert(ctx context.Context, db *gorm.DB, snapshot *Snapshot) error
	// Latest returns the newest snapshot by id order, or nil when no
	// snapshot has ever been written.
	Latest(ctx context.Context, db *gorm.DB) (*Snapshot, error)
}
