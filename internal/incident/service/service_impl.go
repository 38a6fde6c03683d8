package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/incident/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultListLimit = 20

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
		log:   p.Log.Named("incident.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Report(ctx context.Context, req domain.ReportRequest) (domain.Incident, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return domain.Incident{}, domain.ErrInvalidIdentity
	}

	incidentType, ok := domain.ParseIncidentType(strings.TrimSpace(req.Type))
	if !ok {
		return domain.Incident{}, domain.ErrInvalidType
	}

	description := strings.TrimSpace(req.Description)
	if descLen := utf8.RuneCountInString(description); descLen < 5 || descLen > 2000 {
		return domain.Incident{}, domain.ErrInvalidDescription
	}
	if req.Lat < -90 || req.Lat > 90 {
		return domain.Incident{}, domain.ErrInvalidLatitude
	}
	if req.Lng < -180 || req.Lng > 180 {
		return domain.Incident{}, domain.ErrInvalidLongitude
	}
	if req.Severity < 1 || req.Severity > 5 {
		return domain.Incident{}, domain.ErrInvalidSeverity
	}

	incident := domain.Incident{
		ID:          s.genID.Generate(),
		UID:         uid,
		Type:        incidentType,
		Description: description,
		Lat:         req.Lat,
		Lng:         req.Lng,
		Severity:    req.Severity,
		Status:      domain.IncidentStatusOpen,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &incident); err != nil {
		return domain.Incident{}, err
	}

	s.log.Info("incident reported",
		zap.String("incident_id", incident.ID.String()),
		zap.String("type", string(incident.Type)),
		zap.Int("severity", incident.Severity),
	)
	return incident, nil
}

func (s *Service) List(ctx context.Context, limit int) ([]domain.Incident, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	incidents, err := s.repo.List(ctx, s.db, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Incident, 0, len(incidents))
	for _, incident := range incidents {
		out = append(out, *incident)
	}
	return out, nil
}
