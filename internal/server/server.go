package server

import (
	"context"
	"net/http"
	"time"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/alert"
	alertdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/alert/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/auth"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/buddy"
	buddydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/config"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/incident"
	incidentdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/incident/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/location"
	locationdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/location/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/observability"
	obsmiddleware "github.com/KaulanSerzhanuly/SafegUARD/internal/observability/logger"
	obsmetrics "github.com/KaulanSerzhanuly/SafegUARD/internal/observability/metrics"
	obstracing "github.com/KaulanSerzhanuly/SafegUARD/internal/observability/tracing"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/providers/email"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/providers/sms"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/proximity"
	proximitydomain "github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/ratelimit"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/risk"
	riskdomain "github.com/KaulanSerzhanuly/SafegUARD/internal/risk/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	auth.Module,
	sms.Module,
	email.Module,
	location.Module,
	proximity.Module,
	incident.Module,
	risk.Module,
	buddy.Module,
	alert.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, r *gin.Engine) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	verifier        auth.Verifier
	locationSvc     locationdomain.Service
	proximitySvc    proximitydomain.Service
	incidentSvc     incidentdomain.Service
	riskSvc         riskdomain.Service
	buddySvc        buddydomain.Service
	alertSvc        alertdomain.Service
	locationLimiter *ratelimit.LocationIngestLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	Verifier        auth.Verifier
	LocationSvc     locationdomain.Service
	ProximitySvc    proximitydomain.Service
	IncidentSvc     incidentdomain.Service
	RiskSvc         riskdomain.Service
	BuddySvc        buddydomain.Service
	AlertSvc        alertdomain.Service
	LocationLimiter *ratelimit.LocationIngestLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		verifier:        p.Verifier,
		locationSvc:     p.LocationSvc,
		proximitySvc:    p.ProximitySvc,
		incidentSvc:     p.IncidentSvc,
		riskSvc:         p.RiskSvc,
		buddySvc:        p.BuddySvc,
		alertSvc:        p.AlertSvc,
		locationLimiter: p.LocationLimiter,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	loc := api.Group("/location")
	loc.POST("/update", s.IdentityResolver(), s.LocationIngestRateLimit(), s.UpdateLocation)
	loc.GET("/current/:uid", s.CurrentLocation)
	loc.GET("/history/:uid", s.LocationHistory)
	loc.DELETE("/history/:uid", s.ClearLocationHistory)
	loc.GET("/session/:sessionId", s.SessionLocations)
	loc.POST("/proximity-alert", s.IdentityResolver(), s.RegisterProximityAlert)
	loc.GET("/nearby", s.NearbyUsers)

	api.GET("/risk/near", s.AuthRequired(), s.RiskNear)

	api.POST("/incidents", s.AuthRequired(), s.ReportIncident)
	api.GET("/incidents", s.AuthRequired(), s.ListIncidents)

	buddyGroup := api.Group("/buddy", s.AuthRequired())
	buddyGroup.POST("/sessions", s.CreateBuddySession)
	buddyGroup.GET("/sessions/:sessionId", s.GetBuddySession)
	buddyGroup.POST("/sessions/:sessionId/checkin", s.BuddyCheckIn)

	api.POST("/alerts/sos", s.IdentityResolver(), s.TriggerSOS)
}
