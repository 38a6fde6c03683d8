package repository

import (
	"context"
	"errors"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, session *domain.Session) error {
	return db.WithContext(ctx).Create(session).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Session, error) {
	var session domain.Session
	err := db.WithContext(ctx).First(&session, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *repo) InsertCheckIn(ctx context.Context, db *gorm.DB, checkIn *domain.CheckIn) error {
	return db.WithContext(ctx).Create(checkIn).Error
}

func (r *repo) UpdateLastCheckIn(ctx context.Context, db *gorm.DB, id snowflake.ID, at time.Time) error {
	return db.WithContext(ctx).
		Model(&domain.Session{}).
		Where("id = ?", id).
		Update("last_check_in_at", at).Error
}
