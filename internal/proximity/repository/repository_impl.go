package repository

import (
	"context"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, watch *domain.Watch) error {
	return db.WithContext(ctx).Create(watch).Error
}

func (r *repo) FindArmed(ctx context.Context, db *gorm.DB, uid string) ([]*domain.Watch, error) {
	var watches []*domain.Watch
	err := db.WithContext(ctx).
		Model(&domain.Watch{}).
		Where("uid = ? AND triggered = ?", uid, false).
		Find(&watches).Error
	if err != nil {
		return nil, err
	}
	return watches, nil
}

func (r *repo) MarkTriggered(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	result := db.WithContext(ctx).
		Model(&domain.Watch{}).
		Where("id = ? AND triggered = ?", id, false).
		Update("triggered", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
