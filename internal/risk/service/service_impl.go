package service

import (
	"context"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/geo"
	incidentdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/incident/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/risk/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// incidentWindow is how far back Recompute looks for incidents to score.
const incidentWindow = 6 * time.Hour

// snapshotIDLayout renders the computation hour as yyyymmddHH.
const snapshotIDLayout = "2006010215"

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Repo      domain.Repository
	Incidents incidentdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	repo      domain.Repository
	incidents incidentdomain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("risk.service"),
		clock:     p.Clock,
		repo:      p.Repo,
		incidents: p.Incidents,
	}
}

func (s *Service) Recompute(ctx context.Context) error {
	now := s.clock.Now()
	cutoff := now.Add(-incidentWindow)

	incidents, err := s.incidents.ListSince(ctx, s.db, cutoff)
	if err != nil {
		return err
	}
	if len(incidents) == 0 {
		s.log.Info("no incidents in window, keeping previous snapshot")
		return nil
	}

	grid := make([]domain.GridCell, 0, len(incidents))
	for _, incident := range incidents {
		minutesOld := now.Sub(incident.CreatedAt).Minutes()
		grid = append(grid, domain.GridCell{
			Lat:       incident.Lat,
			Lng:       incident.Lng,
			RiskScore: geo.Round2(geo.DecayedRiskScore(float64(incident.Severity), minutesOld)),
		})
	}

	snapshot := domain.Snapshot{
		ID:        now.UTC().Format(snapshotIDLayout),
		Grid:      datatypes.NewJSONSlice(grid),
		CreatedAt: now,
	}
	if err := s.repo.Upsert(ctx, s.db, &snapshot); err != nil {
		return err
	}

	s.log.Info("risk snapshot written",
		zap.String("snapshot_id", snapshot.ID),
		zap.Int("cells", len(grid)),
	)
	return nil
}

func (s *Service) Latest(ctx context.Context) (domain.Assessment, error) {
	snapshot, err := s.repo.Latest(ctx, s.db)
	if err != nil {
		return domain.Assessment{}, err
	}
	if snapshot == nil {
		return domain.Assessment{NearbyIncidents: []domain.GridCell{}}, nil
	}

	peak := 0.0
	for _, cell := range snapshot.Grid {
		if cell.RiskScore > peak {
			peak = cell.RiskScore
		}
	}
	return domain.Assessment{
		RiskScore:       peak,
		NearbyIncidents: []domain.GridCell(snapshot.Grid),
	}, nil
}
