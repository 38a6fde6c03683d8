package repository

import (
	"context"
	"errors"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/risk/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, snapshot *domain.Snapshot) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"grid", "created_at"}),
		}).
		Create(snapshot).Error
}

func (r *repo) Latest(ctx context.Context, db *gorm.DB) (*domain.Snapshot, error) {
	var snapshot domain.Snapshot
	err := db.WithContext(ctx).Order("id DESC").First(&snapshot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &snapshot, nil
}
