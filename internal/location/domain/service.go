package domain

import (
	"context"
	"errors"
	"time"

	proximitydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	"github.com/bwmarrin/snowflake"
)

type UpdateLocationRequest struct {
	UID       string
	Lat       float64
	Lng       float64
	Accuracy  *float64
	Speed     *float64
	Heading   *float64
	SessionID string
}

type UpdateLocationResponse struct {
	LocationID snowflake.ID
	Alerts     []proximitydomain.TriggeredWatch
}

type HistoryRequest struct {
	UID       string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
}

type NearbyRequest struct {
	Lat    float64
	Lng    float64
	Radius float64
}

type Service interface {
	// UpdateLocation appends an immutable sample, refreshes the caller's
	// projection, mirrors the position into the tagged session if any, and
	// evaluates the caller's armed proximity watches. The writes are
	// sequential and not transactional: a failure mid-pipeline can leave a
	// persisted sample without a refreshed projection, which the next
	// accepted update repairs.
	UpdateLocation(ctx context.Context, req UpdateLocationRequest) (UpdateLocationResponse, error)
	CurrentLocation(ctx context.Context, uid string) (UserLocation, error)
	History(ctx context.Context, req HistoryRequest) ([]LocationSample, error)
	SessionLocations(ctx context.Context, sessionID string) ([]SessionLocation, error)
	NearbyUsers(ctx context.Context, req NearbyRequest) ([]NearbyUser, error)
	ClearHistory(ctx context.Context, uid string) (int64, error)
}

var (
	ErrInvalidIdentity  = errors.New("invalid_identity")
	ErrInvalidLatitude  = errors.New("invalid_latitude")
	ErrInvalidLongitude = errors.New("invalid_longitude")
	ErrInvalidAccuracy  = errors.New("invalid_accuracy")
	ErrInvalidSpeed     = errors.New("invalid_speed")
	ErrInvalidHeading   = errors.New("invalid_heading")
	ErrUserNotFound     = errors.New("user_not_found")
)
