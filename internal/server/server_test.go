package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	alertdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/alert/domain"
	alertrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/alert/repository"
	alertservice "github.com/KaulanSerzhanuly/SafegUARD/internal/alert/service"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/auth"
	buddydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	buddyrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/repository"
	buddyservice "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/service"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/config"
	incidentdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/incident/domain"
	incidentrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/incident/repository"
	incidentservice "github.com/KaulanSerzhanuly/SafegUARD/internal/incident/service"
	locationdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/location/domain"
	locationrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/location/repository"
	locationservice "github.com/KaulanSerzhanuly/SafegUARD/internal/location/service"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/providers/email"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/providers/sms"
	proximitydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	proximityrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/repository"
	proximityservice "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/service"
	riskdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/risk/domain"
	riskrepository "github.com/KaulanSerzhanuly/SafegUARD/internal/risk/repository"
	riskservice "github.com/KaulanSerzhanuly/SafegUARD/internal/risk/service"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret"

type testServer struct {
	engine *gin.Engine
	clock  *clock.FakeClock
	risk   riskdomain.Service
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&locationdomain.LocationSample{},
		&locationdomain.UserLocation{},
		&locationdomain.SessionLocation{},
		&proximitydomain.Watch{},
		&incidentdomain.Incident{},
		&riskdomain.Snapshot{},
		&buddydomain.Session{},
		&buddydomain.CheckIn{},
		&alertdomain.Alert{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	fake := clock.NewFakeClock(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()
	cfg := config.Config{
		AuthJWTSecret: testJWTSecret,
		DispatchPhone: "+15550000000",
		DispatchEmail: "dispatch@example.com",
	}

	proximitySvc := proximityservice.New(proximityservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: proximityrepository.Provide(),
	})
	buddySvc := buddyservice.New(buddyservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: buddyrepository.Provide(),
	})
	locationSvc := locationservice.New(locationservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake,
		Repo: locationrepository.Provide(), Proximity: proximitySvc, Buddy: buddySvc,
	})
	incidentRepo := incidentrepository.Provide()
	incidentSvc := incidentservice.New(incidentservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Repo: incidentRepo,
	})
	riskSvc := riskservice.New(riskservice.Params{
		DB: db, Log: log, Clock: fake, Repo: riskrepository.Provide(), Incidents: incidentRepo,
	})
	alertSvc := alertservice.New(alertservice.Params{
		DB: db, Log: log, GenID: node, Clock: fake, Config: cfg,
		Repo: alertrepository.Provide(),
		SMS:  sms.NewConsoleSender(log), Email: email.NewConsoleSender(log),
	})

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	NewServer(ServerParams{
		Gin:          engine,
		Cfg:          cfg,
		Log:          log,
		Verifier:     auth.NewVerifier(cfg),
		LocationSvc:  locationSvc,
		ProximitySvc: proximitySvc,
		IncidentSvc:  incidentSvc,
		RiskSvc:      riskSvc,
		BuddySvc:     buddySvc,
		AlertSvc:     alertSvc,
	})

	return &testServer{engine: engine, clock: fake, risk: riskSvc}
}

func signToken(t *testing.T, uid string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": uid,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	ts.engine.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestUpdateLocationWithDeviceIdentity(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/location/update",
		gin.H{"lat": 43.24, "lng": 76.89},
		map[string]string{"X-Device-ID": "abc-123"},
	)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["locationId"])
	assert.NotContains(t, body, "alerts")

	w = ts.do(t, http.MethodGet, "/api/location/current/device:abc-123", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, "device:abc-123", body["uid"])
}

func TestUpdateLocationRequiresIdentity(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/location/update", gin.H{"lat": 1.0, "lng": 2.0}, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "identity_required")
}

func TestUpdateLocationRejectsOutOfRangeLatitude(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/location/update",
		gin.H{"lat": 91.0, "lng": 0.0},
		map[string]string{"X-Device-ID": "abc"},
	)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_latitude")
}

func TestCurrentLocationUnknownUserIs404(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/location/current/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProximityAlertFiresOnUpdate(t *testing.T) {
	ts := newTestServer(t)
	headers := map[string]string{"X-Device-ID": "walker"}

	w := ts.do(t, http.MethodPost, "/api/location/proximity-alert",
		gin.H{"type": "incident", "lat": 43.2400, "lng": 76.8900, "radius": 500, "message": "Stay alert near the gym."},
		headers,
	)
	require.Equal(t, http.StatusOK, w.Code)
	alertID := decodeBody(t, w)["alertId"]
	assert.NotEmpty(t, alertID)

	w = ts.do(t, http.MethodPost, "/api/location/update",
		gin.H{"lat": 43.2401, "lng": 76.8901}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	alerts, ok := body["alerts"].([]any)
	require.True(t, ok)
	require.Len(t, alerts, 1)

	// One-shot: the second update inside the zone reports nothing.
	w = ts.do(t, http.MethodPost, "/api/location/update",
		gin.H{"lat": 43.2400, "lng": 76.8900}, headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, decodeBody(t, w), "alerts")
}

func TestRiskNearRequiresAuth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/risk/near", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Device identity is not enough for risk queries.
	w = ts.do(t, http.MethodGet, "/api/risk/near", nil, map[string]string{"X-Device-ID": "abc"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRiskNearReflectsSnapshots(t *testing.T) {
	ts := newTestServer(t)
	token := signToken(t, "student-1")
	authHeader := map[string]string{"Authorization": "Bearer " + token}

	w := ts.do(t, http.MethodGet, "/api/risk/near", nil, authHeader)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 0.0, body["riskScore"])
	assert.Empty(t, body["nearbyIncidents"])

	w = ts.do(t, http.MethodPost, "/api/incidents",
		gin.H{"type": "theft", "description": "Bike stolen outside the dorm.", "lat": 43.24, "lng": 76.89, "severity": 5},
		authHeader,
	)
	require.Equal(t, http.StatusCreated, w.Code)

	ts.clock.Advance(time.Hour)
	require.NoError(t, ts.risk.Recompute(context.Background()))

	w = ts.do(t, http.MethodGet, "/api/risk/near", nil, authHeader)
	require.Equal(t, http.StatusOK, w.Code)
	body = decodeBody(t, w)
	assert.Equal(t, 3.03, body["riskScore"])
	assert.Len(t, body["nearbyIncidents"], 1)
}

func TestReportIncidentValidation(t *testing.T) {
	ts := newTestServer(t)
	authHeader := map[string]string{"Authorization": "Bearer " + signToken(t, "student-1")}

	w := ts.do(t, http.MethodPost, "/api/incidents",
		gin.H{"type": "theft", "description": "hm", "lat": 43.24, "lng": 76.89, "severity": 3},
		authHeader,
	)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_description")

	w = ts.do(t, http.MethodPost, "/api/incidents",
		gin.H{"type": "theft", "description": "Bike stolen near gym.", "lat": 43.24, "lng": 76.89, "severity": 6},
		authHeader,
	)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_severity")
}

func TestBuddySessionFlow(t *testing.T) {
	ts := newTestServer(t)
	owner := map[string]string{"Authorization": "Bearer " + signToken(t, "owner")}
	friend := map[string]string{"Authorization": "Bearer " + signToken(t, "friend")}
	stranger := map[string]string{"Authorization": "Bearer " + signToken(t, "stranger")}

	w := ts.do(t, http.MethodPost, "/api/buddy/sessions",
		gin.H{"participants": []string{"friend"}, "checkInInterval": 300},
		owner,
	)
	require.Equal(t, http.StatusCreated, w.Code)
	sessionID, _ := decodeBody(t, w)["id"].(string)
	require.NotEmpty(t, sessionID)

	w = ts.do(t, http.MethodPost, "/api/buddy/sessions/"+sessionID+"/checkin",
		gin.H{"status": "ok"}, friend)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["ok"])

	w = ts.do(t, http.MethodPost, "/api/buddy/sessions/"+sessionID+"/checkin",
		gin.H{"status": "ok"}, stranger)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Session locations become visible once a participant tags an update.
	w = ts.do(t, http.MethodPost, "/api/location/update",
		gin.H{"lat": 43.24, "lng": 76.89, "sessionId": sessionID}, friend)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/location/session/"+sessionID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["participants"], 1)
}

func TestSessionLocationsUnknownSessionIs404(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodGet, "/api/location/session/999999", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNearbyUsersEndpoint(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/location/update",
		gin.H{"lat": 43.2401, "lng": 76.8901},
		map[string]string{"X-Device-ID": "nearby"},
	)
	require.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodGet, "/api/location/nearby?lat=43.2400&lng=76.8900", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, 1.0, body["count"])
	assert.Equal(t, 1000.0, body["radius"])

	w = ts.do(t, http.MethodGet, "/api/location/nearby?lng=76.89", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearHistoryEndpoint(t *testing.T) {
	ts := newTestServer(t)
	headers := map[string]string{"X-Device-ID": "wiper"}

	for i := 0; i < 2; i++ {
		w := ts.do(t, http.MethodPost, "/api/location/update",
			gin.H{"lat": 43.24, "lng": 76.89}, headers)
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := ts.do(t, http.MethodDelete, "/api/location/history/device:wiper", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, 2.0, body["deletedCount"])

	// Nothing left to delete on a second pass.
	w = ts.do(t, http.MethodDelete, "/api/location/history/device:wiper", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0.0, decodeBody(t, w)["deletedCount"])
}

func TestCurrentLocationRepeatedReadsMatch(t *testing.T) {
	ts := newTestServer(t)
	headers := map[string]string{"X-Device-ID": "reader"}

	w := ts.do(t, http.MethodPost, "/api/location/update",
		gin.H{"lat": 43.24, "lng": 76.89}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	first := ts.do(t, http.MethodGet, "/api/location/current/device:reader", nil, nil)
	second := ts.do(t, http.MethodGet, "/api/location/current/device:reader", nil, nil)
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestMultiByteTextCountsCharactersNotBytes(t *testing.T) {
	ts := newTestServer(t)
	authHeader := map[string]string{"Authorization": "Bearer " + signToken(t, "student-1")}

	// 500 Cyrillic characters occupy 1000 bytes but sit exactly on the limit.
	w := ts.do(t, http.MethodPost, "/api/location/proximity-alert",
		gin.H{"type": "incident", "lat": 43.24, "lng": 76.89, "radius": 100, "message": strings.Repeat("ж", 500)},
		authHeader,
	)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(t, http.MethodPost, "/api/location/proximity-alert",
		gin.H{"type": "incident", "lat": 43.24, "lng": 76.89, "radius": 100, "message": strings.Repeat("ж", 501)},
		authHeader,
	)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(t, http.MethodPost, "/api/incidents",
		gin.H{"type": "other", "description": strings.Repeat("д", 2000), "lat": 43.24, "lng": 76.89, "severity": 2},
		authHeader,
	)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = ts.do(t, http.MethodPost, "/api/alerts/sos",
		gin.H{"message": strings.Repeat("щ", 500)}, authHeader)
	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestTriggerSOS(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(t, http.MethodPost, "/api/alerts/sos",
		gin.H{"lat": 43.24, "lng": 76.89, "message": "Help near the library"},
		map[string]string{"Authorization": "Bearer " + signToken(t, "student-1")},
	)
	require.Equal(t, http.StatusAccepted, w.Code)
	body := decodeBody(t, w)
	assert.NotEmpty(t, body["id"])
	assert.Equal(t, "Emergency services have been notified", body["message"])
}

func TestAuthRejectsForgedToken(t *testing.T) {
	ts := newTestServer(t)

	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "student-1",
	}).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := ts.do(t, http.MethodGet, "/api/risk/near", nil,
		map[string]string{"Authorization": "Bearer " + forged})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
