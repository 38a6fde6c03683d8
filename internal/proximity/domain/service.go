package domain

import (
	"context"
	"errors"
)

type RegisterWatchRequest struct {
	UID     string
	Kind    string
	Lat     float64
	Lng     float64
	Radius  float64
	Message string
}

type Service interface {
	RegisterWatch(ctx context.Context, req RegisterWatchRequest) (Watch, error)
	// Evaluate fires every armed watch of uid whose center lies within
	// radius meters of the given point. Side-effecting: fired watches are
	// permanently marked triggered.
	Evaluate(ctx context.Context, uid string, lat, lng float64) ([]TriggeredWatch, error)
}

var (
	ErrInvalidIdentity  = errors.New("invalid_identity")
	ErrInvalidKind      = errors.New("invalid_kind")
	ErrInvalidLatitude  = errors.New("invalid_latitude")
	ErrInvalidLongitude = errors.New("invalid_longitude")
	ErrInvalidRadius    = errors.New("invalid_radius")
	ErrInvalidMessage   = errors.New("invalid_message")
)
