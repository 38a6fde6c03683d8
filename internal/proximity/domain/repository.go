package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, watch *Watch) error
	// FindArmed returns the caller's watches that have not fired yet.
	FindArmed(ctx context.Context, db *gorm.DB, uid string) ([]*Watch, error)
	// MarkTriggered flips triggered false->true and reports whether this
	// call won the transition. Concurrent evaluations of the same watch
	// observe at most one true result.
	MarkTriggered(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
