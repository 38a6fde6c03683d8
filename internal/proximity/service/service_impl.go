package service

import (
	"context"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/geo"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
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
		log:   p.Log.Named("proximity.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) RegisterWatch(ctx context.Context, req domain.RegisterWatchRequest) (domain.Watch, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return domain.Watch{}, domain.ErrInvalidIdentity
	}

	kind, ok := domain.ParseWatchKind(strings.TrimSpace(req.Kind))
	if !ok {
		return domain.Watch{}, domain.ErrInvalidKind
	}
	if req.Lat < -90 || req.Lat > 90 {
		return domain.Watch{}, domain.ErrInvalidLatitude
	}
	if req.Lng < -180 || req.Lng > 180 {
		return domain.Watch{}, domain.ErrInvalidLongitude
	}
	if req.Radius < 1 || req.Radius > 5000 {
		return domain.Watch{}, domain.ErrInvalidRadius
	}
	message := strings.TrimSpace(req.Message)
	if message == "" || utf8.RuneCountInString(message) > 500 {
		return domain.Watch{}, domain.ErrInvalidMessage
	}

	watch := domain.Watch{
		ID:        s.genID.Generate(),
		UID:       uid,
		Kind:      kind,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Radius:    req.Radius,
		Message:   message,
		Triggered: false,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &watch); err != nil {
		return domain.Watch{}, err
	}

	return watch, nil
}

func (s *Service) Evaluate(ctx context.Context, uid string, lat, lng float64) ([]domain.TriggeredWatch, error) {
	watches, err := s.repo.FindArmed(ctx, s.db, uid)
	if err != nil {
		return nil, err
	}

	var triggered []domain.TriggeredWatch
	for _, watch := range watches {
		if watch == nil {
			continue
		}

		distance := geo.HaversineDistanceMeters(lat, lng, watch.Lat, watch.Lng)
		if distance > watch.Radius {
			continue
		}

		fired, err := s.repo.MarkTriggered(ctx, s.db, watch.ID)
		if err != nil {
			return nil, err
		}
		if !fired {
			// Another evaluation already claimed this watch.
			continue
		}

		s.log.Info("proximity watch fired",
			zap.String("uid", uid),
			zap.String("watch_id", watch.ID.String()),
			zap.Float64("distance_m", distance),
		)

		triggered = append(triggered, domain.TriggeredWatch{
			ID:       watch.ID,
			Kind:     watch.Kind,
			Message:  watch.Message,
			Distance: math.Round(distance),
		})
	}

	return triggered, nil
}
