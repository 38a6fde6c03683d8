// Package sms sends text messages to campus dispatch. Only a console
// implementation exists for now; a gateway-backed one slots in behind the
// same interface.
package sms

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, to, body string) error
}

type consoleSender struct {
	log *zap.Logger
}

func NewConsoleSender(log *zap.Logger) Sender {
	return &consoleSender{log: log.Named("providers.sms")}
}

func (s *consoleSender) Send(ctx context.Context, to, body string) error {
	s.log.Info("sms dispatched",
		zap.String("to", to),
		zap.String("body", body),
	)
	return nil
}

var Module = fx.Module("providers.sms",
	fx.Provide(NewConsoleSender),
)
