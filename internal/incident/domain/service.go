package domain

import (
	"context"
	"errors"
)

type ReportRequest struct {
	UID         string
	Type        string
	Description string
	Lat         float64
	Lng         float64
	Severity    int
}

type Service interface {
	Report(ctx context.Context, req ReportRequest) (Incident, error)
	List(ctx context.Context, limit int) ([]Incident, error)
}

var (
	ErrInvalidIdentity    = errors.New("invalid_identity")
	ErrInvalidType        = errors.New("invalid_incident_type")
	ErrInvalidDescription = errors.New("invalid_description")
	ErrInvalidLatitude    = errors.New("invalid_latitude")
	ErrInvalidLongitude   = errors.New("invalid_longitude")
	ErrInvalidSeverity    = errors.New("invalid_severity")
)
