package repository

import (
	"context"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/incident/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, incident *domain.Incident) error {
	return db.WithContext(ctx).Create(incident).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, limit int) ([]*domain.Incident, error) {
	var incidents []*domain.Incident
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}

func (r *repo) ListSince(ctx context.Context, db *gorm.DB, cutoff time.Time) ([]*domain.Incident, error) {
	var incidents []*domain.Incident
	err := db.WithContext(ctx).
		Where("created_at >= ?", cutoff).
		Find(&incidents).Error
	if err != nil {
		return nil, err
	}
	return incidents, nil
}
