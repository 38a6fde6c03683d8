package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, session *Session) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Session, error)
	InsertCheckIn(ctx context.Context, db *gorm.DB, checkIn *CheckIn) error
	UpdateLastCheckIn(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error
}
