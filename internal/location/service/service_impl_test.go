package service

import (
	"context"
	"testing"
	"time"

	buddydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	buddyrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/repository"
	buddyservice "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/service"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/location/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/location/repository"
	proximitydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	proximityrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/repository"
	proximityservice "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/service"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixture struct {
	db    *gorm.DB
	clock *clock.FakeClock
	svc   domain.Service
	prox  proximitydomain.Service
	buddy buddydomain.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&domain.LocationSample{},
		&domain.UserLocation{},
		&domain.SessionLocation{},
		&proximitydomain.Watch{},
		&buddydomain.Session{},
		&buddydomain.CheckIn{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	prox := proximityservice.New(proximityservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  proximityrepository.Provide(),
	})
	buddy := buddyservice.New(buddyservice.Params{
		DB:    db,
		Log:   log,
		GenID: node,
		Clock: fake,
		Repo:  buddyrepository.Provide(),
	})
	svc := New(Params{
		DB:        db,
		Log:       log,
		GenID:     node,
		Clock:     fake,
		Repo:      repository.Provide(),
		Proximity: prox,
		Buddy:     buddy,
	})

	return &fixture{db: db, clock: fake, svc: svc, prox: prox, buddy: buddy}
}

func floatPtr(v float64) *float64 { return &v }

func TestUpdateLocationPersistsSampleAndProjection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{
		UID:      "user-1",
		Lat:      43.238949,
		Lng:      76.889709,
		Accuracy: floatPtr(12.5),
	})
	require.NoError(t, err)
	assert.NotZero(t, resp.LocationID)
	assert.Empty(t, resp.Alerts)

	var sample domain.LocationSample
	require.NoError(t, f.db.First(&sample, "id = ?", resp.LocationID).Error)
	assert.Equal(t, "user-1", sample.UID)
	assert.Equal(t, 43.238949, sample.Lat)
	assert.WithinDuration(t, f.clock.Now(), sample.Timestamp, time.Second)

	current, err := f.svc.CurrentLocation(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, sample.Lat, current.Lat)
	assert.Equal(t, sample.Lng, current.Lng)
	require.NotNil(t, current.Accuracy)
	assert.Equal(t, 12.5, *current.Accuracy)
}

func TestUpdateLocationOverwritesProjection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "user-1", Lat: 10, Lng: 20})
	require.NoError(t, err)

	f.clock.Advance(time.Minute)
	_, err = f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "user-1", Lat: 11, Lng: 21})
	require.NoError(t, err)

	var count int64
	require.NoError(t, f.db.Model(&domain.UserLocation{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	current, err := f.svc.CurrentLocation(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 11.0, current.Lat)
	assert.Equal(t, 21.0, current.Lng)
	assert.WithinDuration(t, f.clock.Now(), current.LastLocationUpdate, time.Second)

	var samples int64
	require.NoError(t, f.db.Model(&domain.LocationSample{}).Count(&samples).Error)
	assert.Equal(t, int64(2), samples)
}

func TestUpdateLocationValidatesRanges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Boundary values are accepted.
	_, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "u", Lat: 90, Lng: -180})
	require.NoError(t, err)

	cases := []struct {
		name string
		req  domain.UpdateLocationRequest
		want error
	}{
		{"latitude just above range", domain.UpdateLocationRequest{UID: "u", Lat: 90.0001, Lng: 0}, domain.ErrInvalidLatitude},
		{"latitude far above range", domain.UpdateLocationRequest{UID: "u", Lat: 91, Lng: 0}, domain.ErrInvalidLatitude},
		{"longitude below range", domain.UpdateLocationRequest{UID: "u", Lat: 0, Lng: -180.5}, domain.ErrInvalidLongitude},
		{"negative accuracy", domain.UpdateLocationRequest{UID: "u", Lat: 0, Lng: 0, Accuracy: floatPtr(-1)}, domain.ErrInvalidAccuracy},
		{"negative speed", domain.UpdateLocationRequest{UID: "u", Lat: 0, Lng: 0, Speed: floatPtr(-0.1)}, domain.ErrInvalidSpeed},
		{"heading above range", domain.UpdateLocationRequest{UID: "u", Lat: 0, Lng: 0, Heading: floatPtr(361)}, domain.ErrInvalidHeading},
		{"missing identity", domain.UpdateLocationRequest{UID: "  ", Lat: 0, Lng: 0}, domain.ErrInvalidIdentity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.UpdateLocation(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Rejected updates leave no trace.
	var samples int64
	require.NoError(t, f.db.Model(&domain.LocationSample{}).Count(&samples).Error)
	assert.Equal(t, int64(1), samples)
}

func TestUpdateLocationMirrorsSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	session, err := f.buddy.CreateSession(ctx, buddydomain.CreateSessionRequest{
		OwnerUID:           "owner",
		Participants:       []string{"friend"},
		CheckInIntervalSec: 300,
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{
		UID:       "owner",
		Lat:       43.2,
		Lng:       76.9,
		Accuracy:  floatPtr(8),
		SessionID: session.ID.String(),
	})
	require.NoError(t, err)

	mirrors, err := f.svc.SessionLocations(ctx, session.ID.String())
	require.NoError(t, err)
	require.Len(t, mirrors, 1)
	assert.Equal(t, "owner", mirrors[0].UID)
	assert.Equal(t, 43.2, mirrors[0].Lat)
	assert.Equal(t, 76.9, mirrors[0].Lng)
	require.NotNil(t, mirrors[0].Accuracy)
	assert.Equal(t, 8.0, *mirrors[0].Accuracy)
	assert.WithinDuration(t, f.clock.Now(), mirrors[0].Timestamp, time.Second)

	// A later update replaces the mirror row instead of appending.
	f.clock.Advance(30 * time.Second)
	_, err = f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{
		UID:       "owner",
		Lat:       43.3,
		Lng:       77.0,
		SessionID: session.ID.String(),
	})
	require.NoError(t, err)

	mirrors, err = f.svc.SessionLocations(ctx, session.ID.String())
	require.NoError(t, err)
	require.Len(t, mirrors, 1)
	assert.Equal(t, 43.3, mirrors[0].Lat)
	assert.Nil(t, mirrors[0].Accuracy)
}

func TestSessionLocationsUnknownSession(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SessionLocations(context.Background(), "1234567890")
	assert.ErrorIs(t, err, buddydomain.ErrSessionNotFound)
}

func TestUpdateLocationFiresWatchOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	watch, err := f.prox.RegisterWatch(ctx, proximitydomain.RegisterWatchRequest{
		UID:     "user-1",
		Kind:    "incident",
		Lat:     43.2400,
		Lng:     76.8900,
		Radius:  500,
		Message: "Reported incident near the library.",
	})
	require.NoError(t, err)

	resp, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{
		UID: "user-1",
		Lat: 43.2401,
		Lng: 76.8901,
	})
	require.NoError(t, err)
	require.Len(t, resp.Alerts, 1)
	assert.Equal(t, watch.ID, resp.Alerts[0].ID)
	assert.Equal(t, "Reported incident near the library.", resp.Alerts[0].Message)
	assert.LessOrEqual(t, resp.Alerts[0].Distance, 500.0)

	// The watch is one-shot: staying inside the zone fires nothing more.
	f.clock.Advance(10 * time.Second)
	resp, err = f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{
		UID: "user-1",
		Lat: 43.2400,
		Lng: 76.8900,
	})
	require.NoError(t, err)
	assert.Empty(t, resp.Alerts)
}

func TestUpdateLocationIgnoresOtherUsersWatches(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.prox.RegisterWatch(ctx, proximitydomain.RegisterWatchRequest{
		UID:     "user-2",
		Kind:    "safe_zone",
		Lat:     43.24,
		Lng:     76.89,
		Radius:  1000,
		Message: "Entering the dorm area.",
	})
	require.NoError(t, err)

	resp, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "user-1", Lat: 43.24, Lng: 76.89})
	require.NoError(t, err)
	assert.Empty(t, resp.Alerts)
}

func TestNearbyUsersFiltersByFreshnessAndRadius(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Stale user: last seen six minutes before the query.
	_, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "stale", Lat: 43.2400, Lng: 76.8900})
	require.NoError(t, err)

	f.clock.Advance(6 * time.Minute)

	// Fresh and close.
	_, err = f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "close", Lat: 43.2401, Lng: 76.8901})
	require.NoError(t, err)
	// Fresh but roughly 11 km away.
	_, err = f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "far", Lat: 43.34, Lng: 76.89})
	require.NoError(t, err)

	users, err := f.svc.NearbyUsers(ctx, domain.NearbyRequest{Lat: 43.2400, Lng: 76.8900})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "close", users[0].UID)
	assert.Equal(t, users[0].Distance, float64(int64(users[0].Distance)))

	// A big enough radius pulls in the far user but never the stale one.
	users, err = f.svc.NearbyUsers(ctx, domain.NearbyRequest{Lat: 43.2400, Lng: 76.8900, Radius: 20000})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestNearbyUsersValidatesCenter(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.NearbyUsers(context.Background(), domain.NearbyRequest{Lat: 95, Lng: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidLatitude)

	_, err = f.svc.NearbyUsers(context.Background(), domain.NearbyRequest{Lat: 0, Lng: 200})
	assert.ErrorIs(t, err, domain.ErrInvalidLongitude)
}

func TestHistoryOrderAndWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "user-1", Lat: float64(i), Lng: float64(i)})
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	samples, err := f.svc.History(ctx, domain.HistoryRequest{UID: "user-1"})
	require.NoError(t, err)
	require.Len(t, samples, 5)
	// Newest first.
	assert.Equal(t, 4.0, samples[0].Lat)
	assert.Equal(t, 0.0, samples[4].Lat)

	samples, err = f.svc.History(ctx, domain.HistoryRequest{UID: "user-1", Limit: 2})
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 4.0, samples[0].Lat)

	start := time.Date(2026, 2, 10, 12, 1, 0, 0, time.UTC)
	end := time.Date(2026, 2, 10, 12, 3, 0, 0, time.UTC)
	samples, err = f.svc.History(ctx, domain.HistoryRequest{UID: "user-1", StartTime: &start, EndTime: &end})
	require.NoError(t, err)
	assert.Len(t, samples, 3)
}

func TestClearHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "user-1", Lat: 1, Lng: 1})
		require.NoError(t, err)
	}
	_, err := f.svc.UpdateLocation(ctx, domain.UpdateLocationRequest{UID: "user-2", Lat: 1, Lng: 1})
	require.NoError(t, err)

	deleted, err := f.svc.ClearHistory(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	samples, err := f.svc.History(ctx, domain.HistoryRequest{UID: "user-2"})
	require.NoError(t, err)
	assert.Len(t, samples, 1)

	current, err := f.svc.CurrentLocation(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1.0, current.Lat)
}

func TestCurrentLocationUnknownUser(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CurrentLocation(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
