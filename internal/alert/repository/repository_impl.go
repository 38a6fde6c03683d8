package repository

import (
	"context"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/alert/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, alert *domain.Alert) error {
	return db.WithContext(ctx).Create(alert).Error
}

func (r *repo) MarkDelivered(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	return db.WithContext(ctx).
		Model(&domain.Alert{}).
		Where("id = ?", id).
		Update("delivered", true).Error
}
