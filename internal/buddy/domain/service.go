package domain

import (
	"context"
	"errors"
)

type CreateSessionRequest struct {
	OwnerUID           string
	Participants       []string
	CheckInIntervalSec int
}

type CheckInRequest struct {
	SessionID string
	UID       string
	Status    string
}

type Service interface {
	CreateSession(ctx context.Context, req CreateSessionRequest) (Session, error)
	CheckIn(ctx context.Context, req CheckInRequest) (CheckIn, error)
	Get(ctx context.Context, sessionID string) (Session, error)
}

var (
	ErrInvalidIdentity     = errors.New("invalid_identity")
	ErrInvalidParticipants = errors.New("invalid_participants")
	ErrInvalidInterval     = errors.New("invalid_check_in_interval")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrSessionNotFound     = errors.New("session_not_found")
	ErrNotParticipant      = errors.New("not_participant")
)
