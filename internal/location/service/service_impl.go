package service

import (
	"context"
	"math"
	"strings"
	"time"

	buddydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/geo"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/location/domain"
	proximitydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// defaultHistoryLimit caps history reads when the caller does not ask
	// for a specific page size.
	defaultHistoryLimit = 100

	// defaultNearbyRadiusMeters is the nearby-user search radius when the
	// caller does not supply one.
	defaultNearbyRadiusMeters = 1000

	// nearbyFreshness is how recent a projection must be to count as a
	// nearby user. Stale projections are invisible, not deleted.
	nearbyFreshness = 5 * time.Minute
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Repo      domain.Repository
	Proximity proximitydomain.Service
	Buddy     buddydomain.Service
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	repo      domain.Repository
	proximity proximitydomain.Service
	buddy     buddydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("location.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		repo:      p.Repo,
		proximity: p.Proximity,
		buddy:     p.Buddy,
	}
}

func (s *Service) UpdateLocation(ctx context.Context, req domain.UpdateLocationRequest) (domain.UpdateLocationResponse, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return domain.UpdateLocationResponse{}, domain.ErrInvalidIdentity
	}
	if err := validateUpdate(req); err != nil {
		return domain.UpdateLocationResponse{}, err
	}

	now := s.clock.Now()
	sample := domain.LocationSample{
		ID:        s.genID.Generate(),
		UID:       uid,
		Lat:       req.Lat,
		Lng:       req.Lng,
		Accuracy:  req.Accuracy,
		Speed:     req.Speed,
		Heading:   req.Heading,
		SessionID: strings.TrimSpace(req.SessionID),
		Timestamp: now,
	}

	if err := s.repo.InsertSample(ctx, s.db, &sample); err != nil {
		return domain.UpdateLocationResponse{}, err
	}

	projection := domain.UserLocation{
		UID:                uid,
		Lat:                sample.Lat,
		Lng:                sample.Lng,
		Accuracy:           sample.Accuracy,
		LastLocationUpdate: now,
	}
	if err := s.repo.UpsertProjection(ctx, s.db, &projection); err != nil {
		return domain.UpdateLocationResponse{}, err
	}

	if sample.SessionID != "" {
		mirror := domain.SessionLocation{
			SessionID: sample.SessionID,
			UID:       uid,
			Lat:       sample.Lat,
			Lng:       sample.Lng,
			Accuracy:  sample.Accuracy,
			Timestamp: now,
		}
		if err := s.repo.UpsertSessionLocation(ctx, s.db, &mirror); err != nil {
			return domain.UpdateLocationResponse{}, err
		}
	}

	alerts, err := s.proximity.Evaluate(ctx, uid, sample.Lat, sample.Lng)
	if err != nil {
		// The sample is already durable; losing an evaluation pass only
		// delays the watches until the next update.
		s.log.Error("proximity evaluation failed",
			zap.String("uid", uid),
			zap.Error(err),
		)
		alerts = nil
	}

	return domain.UpdateLocationResponse{LocationID: sample.ID, Alerts: alerts}, nil
}

func (s *Service) CurrentLocation(ctx context.Context, uid string) (domain.UserLocation, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return domain.UserLocation{}, domain.ErrInvalidIdentity
	}

	projection, err := s.repo.FindProjection(ctx, s.db, uid)
	if err != nil {
		return domain.UserLocation{}, err
	}
	if projection == nil {
		return domain.UserLocation{}, domain.ErrUserNotFound
	}
	return *projection, nil
}

func (s *Service) History(ctx context.Context, req domain.HistoryRequest) ([]domain.LocationSample, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return nil, domain.ErrInvalidIdentity
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	samples, err := s.repo.ListSamples(ctx, s.db, uid, req.StartTime, req.EndTime, limit)
	if err != nil {
		return nil, err
	}

	out := make([]domain.LocationSample, 0, len(samples))
	for _, sample := range samples {
		out = append(out, *sample)
	}
	return out, nil
}

func (s *Service) SessionLocations(ctx context.Context, sessionID string) ([]domain.SessionLocation, error) {
	// Resolving the session first turns an unknown id into a not-found
	// instead of an empty participant list.
	if _, err := s.buddy.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	mirrors, err := s.repo.ListSessionLocations(ctx, s.db, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, err
	}

	out := make([]domain.SessionLocation, 0, len(mirrors))
	for _, mirror := range mirrors {
		out = append(out, *mirror)
	}
	return out, nil
}

func (s *Service) NearbyUsers(ctx context.Context, req domain.NearbyRequest) ([]domain.NearbyUser, error) {
	if req.Lat < -90 || req.Lat > 90 {
		return nil, domain.ErrInvalidLatitude
	}
	if req.Lng < -180 || req.Lng > 180 {
		return nil, domain.ErrInvalidLongitude
	}

	radius := req.Radius
	if radius <= 0 {
		radius = defaultNearbyRadiusMeters
	}

	since := s.clock.Now().Add(-nearbyFreshness)
	projections, err := s.repo.ListProjectionsSince(ctx, s.db, since)
	if err != nil {
		return nil, err
	}

	users := make([]domain.NearbyUser, 0, len(projections))
	for _, projection := range projections {
		distance := geo.HaversineDistanceMeters(req.Lat, req.Lng, projection.Lat, projection.Lng)
		if distance > radius {
			continue
		}
		users = append(users, domain.NearbyUser{
			UID:        projection.UID,
			Location:   projection.Location(),
			Distance:   math.Round(distance),
			LastUpdate: projection.LastLocationUpdate,
		})
	}
	return users, nil
}

func (s *Service) ClearHistory(ctx context.Context, uid string) (int64, error) {
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return 0, domain.ErrInvalidIdentity
	}
	return s.repo.DeleteSamples(ctx, s.db, uid)
}

func validateUpdate(req domain.UpdateLocationRequest) error {
	if req.Lat < -90 || req.Lat > 90 {
		return domain.ErrInvalidLatitude
	}
	if req.Lng < -180 || req.Lng > 180 {
		return domain.ErrInvalidLongitude
	}
	if req.Accuracy != nil && *req.Accuracy < 0 {
		return domain.ErrInvalidAccuracy
	}
	if req.Speed != nil && *req.Speed < 0 {
		return domain.ErrInvalidSpeed
	}
	if req.Heading != nil && (*req.Heading < 0 || *req.Heading > 360) {
		return domain.ErrInvalidHeading
	}
	return nil
}
