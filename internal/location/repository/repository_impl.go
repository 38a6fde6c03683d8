package repository

import (
	"context"
	"errors"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/location/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) InsertSample(ctx context.Context, db *gorm.DB, sample *domain.LocationSample) error {
	return db.WithContext(ctx).Create(sample).Error
}

func (r *repo) ListSamples(ctx context.Context, db *gorm.DB, uid string, start, end *time.Time, limit int) ([]*domain.LocationSample, error) {
	q := db.WithContext(ctx).Where("uid = ?", uid)
	if start != nil {
		q = q.Where("timestamp >= ?", *start)
	}
	if end != nil {
		q = q.Where("timestamp <= ?", *end)
	}

	var samples []*domain.LocationSample
	if err := q.Order("timestamp DESC").Limit(limit).Find(&samples).Error; err != nil {
		return nil, err
	}
	return samples, nil
}

func (r *repo) DeleteSamples(ctx context.Context, db *gorm.DB, uid string) (int64, error) {
	res := db.WithContext(ctx).Where("uid = ?", uid).Delete(&domain.LocationSample{})
	return res.RowsAffected, res.Error
}

func (r *repo) UpsertProjection(ctx context.Context, db *gorm.DB, projection *domain.UserLocation) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"lat", "lng", "accuracy", "last_location_update"}),
		}).
		Create(projection).Error
}

func (r *repo) FindProjection(ctx context.Context, db *gorm.DB, uid string) (*domain.UserLocation, error) {
	var projection domain.UserLocation
	err := db.WithContext(ctx).Where("uid = ?", uid).First(&projection).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &projection, nil
}

func (r *repo) ListProjectionsSince(ctx context.Context, db *gorm.DB, since time.Time) ([]*domain.UserLocation, error) {
	var projections []*domain.UserLocation
	err := db.WithContext(ctx).
		Where("last_location_update >= ?", since).
		Find(&projections).Error
	if err != nil {
		return nil, err
	}
	return projections, nil
}

func (r *repo) UpsertSessionLocation(ctx context.Context, db *gorm.DB, mirror *domain.SessionLocation) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}, {Name: "uid"}},
			DoUpdates: clause.AssignmentColumns([]string{"lat", "lng", "accuracy", "timestamp"}),
		}).
		Create(mirror).Error
}

func (r *repo) ListSessionLocations(ctx context.Context, db *gorm.DB, sessionID string) ([]*domain.SessionLocation, error) {
	var mirrors []*domain.SessionLocation
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("uid ASC").
		Find(&mirrors).Error
	if err != nil {
		return nil, err
	}
	return mirrors, nil
}
