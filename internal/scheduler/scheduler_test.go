package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	obsmetrics "github.com/KaulanSerzhanuly/SafegUARD/internal/observability/metrics"
	riskdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/risk/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRiskService struct {
	recomputeCalls int
	recomputeErr   error
}

func (s *stubRiskService) Recompute(ctx context.Context) error {
	s.recomputeCalls++
	return s.recomputeErr
}

func (s *stubRiskService) Latest(ctx context.Context) (riskdomain.Assessment, error) {
	return riskdomain.Assessment{}, nil
}

func swapRegistry(t *testing.T) {
	t.Helper()
	obsmetrics.ResetSchedulerMetricsForTest()
	previous := prometheus.DefaultRegisterer
	prometheus.DefaultRegisterer = prometheus.NewRegistry()
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = previous
		obsmetrics.ResetSchedulerMetricsForTest()
	})
}

func newScheduler(t *testing.T, svc riskdomain.Service) *Scheduler {
	t.Helper()
	sched, err := New(Params{
		Log:     zap.NewNop(),
		Clock:   clock.NewFakeClock(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)),
		RiskSvc: svc,
	})
	require.NoError(t, err)
	return sched
}

func TestNewRequiresDependencies(t *testing.T) {
	swapRegistry(t)

	_, err := New(Params{Log: zap.NewNop()})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestConfigDefaults(t *testing.T) {
	swapRegistry(t)

	sched := newScheduler(t, &stubRiskService{})
	assert.Equal(t, 10*time.Minute, sched.cfg.RunInterval)
	assert.Equal(t, 30*time.Second, sched.cfg.JobTimeout)
}

func TestRunOnceRecomputes(t *testing.T) {
	swapRegistry(t)

	svc := &stubRiskService{}
	sched := newScheduler(t, svc)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, 1, svc.recomputeCalls)
}

func TestRunOncePropagatesJobError(t *testing.T) {
	swapRegistry(t)

	svc := &stubRiskService{recomputeErr: errors.New("boom")}
	sched := newScheduler(t, svc)

	err := sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "risk_recompute")
}

func TestRunOnceSwallowsTimeout(t *testing.T) {
	swapRegistry(t)

	svc := &stubRiskService{recomputeErr: context.DeadlineExceeded}
	sched := newScheduler(t, svc)

	assert.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, 1, svc.recomputeCalls)
}
