package service

import (
	"context"
	"strings"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("buddy.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) CreateSession(ctx context.Context, req domain.CreateSessionRequest) (domain.Session, error) {
	owner := strings.TrimSpace(req.OwnerUID)
	if owner == "" {
		return domain.Session{}, domain.ErrInvalidIdentity
	}

	participants := make([]string, 0, len(req.Participants)+1)
	for _, p := range req.Participants {
		p = strings.TrimSpace(p)
		if p == "" {
			return domain.Session{}, domain.ErrInvalidParticipants
		}
		participants = append(participants, p)
	}
	if len(participants) == 0 {
		return domain.Session{}, domain.ErrInvalidParticipants
	}
	if req.CheckInIntervalSec < 30 || req.CheckInIntervalSec > 3600 {
		return domain.Session{}, domain.ErrInvalidInterval
	}

	// The owner always takes part in their own session.
	ownerIncluded := false
	for _, p := range participants {
		if p == owner {
			ownerIncluded = true
			break
		}
	}
	if !ownerIncluded {
		participants = append(participants, owner)
	}

	session := domain.Session{
		ID:                 s.genID.Generate(),
		OwnerUID:           owner,
		Participants:       datatypes.NewJSONSlice(participants),
		CheckInIntervalSec: req.CheckInIntervalSec,
		Active:             true,
		CreatedAt:          s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &session); err != nil {
		return domain.Session{}, err
	}

	return session, nil
}

func (s *Service) CheckIn(ctx context.Context, req domain.CheckInRequest) (domain.CheckIn, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return domain.CheckIn{}, domain.ErrInvalidIdentity
	}

	status, ok := domain.ParseCheckInStatus(strings.TrimSpace(req.Status))
	if !ok {
		return domain.CheckIn{}, domain.ErrInvalidStatus
	}

	session, err := s.Get(ctx, req.SessionID)
	if err != nil {
		return domain.CheckIn{}, err
	}
	if !session.HasParticipant(uid) {
		return domain.CheckIn{}, domain.ErrNotParticipant
	}

	now := s.clock.Now()
	checkIn := domain.CheckIn{
		ID:        s.genID.Generate(),
		SessionID: session.ID,
		UID:       uid,
		Status:    status,
		Timestamp: now,
	}

	if err := s.repo.InsertCheckIn(ctx, s.db, &checkIn); err != nil {
		return domain.CheckIn{}, err
	}
	if err := s.repo.UpdateLastCheckIn(ctx, s.db, session.ID, now); err != nil {
		return domain.CheckIn{}, err
	}

	if status == domain.CheckInStatusHelp {
		s.log.Warn("help check-in received",
			zap.String("uid", uid),
			zap.String("session_id", session.ID.String()),
		)
	}

	return checkIn, nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (domain.Session, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(sessionID))
	if err != nil {
		return domain.Session{}, domain.ErrSessionNotFound
	}

	session, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return domain.Session{}, err
	}
	if session == nil {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return *session, nil
}
