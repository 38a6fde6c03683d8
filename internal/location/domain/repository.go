package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	InsertSample(ctx context.Context, db *gorm.DB, sample *LocationSample) error
	ListSamples(ctx context.Context, db *gorm.DB, uid string, start, end *time.Time, limit int) ([]*LocationSample, error)
	DeleteSamples(ctx context.Context, db *gorm.DB, uid string) (int64, error)

	UpsertProjection(ctx context.Context, db *gorm.DB, projection *UserLocation) error
	FindProjection(ctx context.Context, db *gorm.DB, uid string) (*UserLocation, error)
	ListProjectionsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]*UserLocation, error)

	UpsertSessionLocation(ctx context.Context, db *gorm.DB, mirror *SessionLocation) error
	ListSessionLocations(ctx context.Context, db *gorm.DB, sessionID string) ([]*SessionLocation, error)
}
