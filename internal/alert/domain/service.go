package domain

import (
	"context"
	"errors"
)

type SOSRequest struct {
	UID     string
	Lat     *float64
	Lng     *float64
	Message string
}

type Service interface {
	// TriggerSOS persists the alert first, then fans out to the dispatch
	// channels. Delivery failures do not fail the call: the alert row is
	// the durable record either way.
	TriggerSOS(ctx context.Context, req SOSRequest) (Alert, error)
}

var (
	ErrInvalidIdentity  = errors.New("invalid_identity")
	ErrInvalidLatitude  = errors.New("invalid_latitude")
	ErrInvalidLongitude = errors.New("invalid_longitude")
	ErrInvalidMessage   = errors.New("invalid_message")
)
