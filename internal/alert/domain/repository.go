package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, alert *Alert) error
	MarkDelivered(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
