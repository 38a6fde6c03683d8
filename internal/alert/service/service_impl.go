package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/KaulanSerzhanuly/SafegUARD/internal/alert/domain"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/config"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/providers/email"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/providers/sms"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Clock  clock.Clock
	Config config.Config
	Repo   domain.Repository
	SMS    sms.Sender
	Email  email.Sender
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	cfg   config.Config
	repo  domain.Repository
	sms   sms.Sender
	email email.Sender
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("alert.service"),
		genID: p.GenID,
		clock: p.Clock,
		cfg:   p.Config,
		repo:  p.Repo,
		sms:   p.SMS,
		email: p.Email,
	}
}

func (s *Service) TriggerSOS(ctx context.Context, req domain.SOSRequest) (domain.Alert, error) {
	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		return domain.Alert{}, domain.ErrInvalidIdentity
	}
	if req.Lat != nil && (*req.Lat < -90 || *req.Lat > 90) {
		return domain.Alert{}, domain.ErrInvalidLatitude
	}
	if req.Lng != nil && (*req.Lng < -180 || *req.Lng > 180) {
		return domain.Alert{}, domain.ErrInvalidLongitude
	}
	message := strings.TrimSpace(req.Message)
	if utf8.RuneCountInString(message) > 500 {
		return domain.Alert{}, domain.ErrInvalidMessage
	}

	payload := datatypes.JSONMap{}
	if message != "" {
		payload["message"] = message
	}
	if req.Lat != nil && req.Lng != nil {
		payload["lat"] = *req.Lat
		payload["lng"] = *req.Lng
	}

	alert := domain.Alert{
		ID:        s.genID.Generate(),
		UID:       uid,
		Type:      "sos",
		Payload:   payload,
		CreatedAt: s.clock.Now(),
	}
	if err := s.repo.Insert(ctx, s.db, &alert); err != nil {
		return domain.Alert{}, err
	}

	body := s.dispatchBody(alert, message, req.Lat, req.Lng)
	delivered := true
	if err := s.sms.Send(ctx, s.cfg.DispatchPhone, body); err != nil {
		delivered = false
		s.log.Error("sos sms dispatch failed", zap.String("alert_id", alert.ID.String()), zap.Error(err))
	}
	if err := s.email.Send(ctx, s.cfg.DispatchEmail, "SOS alert", body); err != nil {
		delivered = false
		s.log.Error("sos email dispatch failed", zap.String("alert_id", alert.ID.String()), zap.Error(err))
	}

	if delivered {
		if err := s.repo.MarkDelivered(ctx, s.db, alert.ID); err != nil {
			s.log.Error("marking alert delivered failed", zap.String("alert_id", alert.ID.String()), zap.Error(err))
		} else {
			alert.Delivered = true
		}
	}

	s.log.Warn("sos alert triggered",
		zap.String("alert_id", alert.ID.String()),
		zap.String("uid", uid),
		zap.Bool("delivered", alert.Delivered),
	)
	return alert, nil
}

func (s *Service) dispatchBody(alert domain.Alert, message string, lat, lng *float64) string {
	body := fmt.Sprintf("SOS from %s at %s.", alert.UID, alert.CreatedAt.Format("15:04:05 MST"))
	if lat != nil && lng != nil {
		body += fmt.Sprintf(" Location: %.6f,%.6f.", *lat, *lng)
	}
	if message != "" {
		body += " " + message
	}
	return body
}
