// Package email notifies campus dispatch by mail. Console implementation
// only, same shape as the sms provider.
package email

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type consoleSender struct {
	log *zap.Logger
}

func NewConsoleSender(log *zap.Logger) Sender {
	return &consoleSender{log: log.Named("providers.email")}
}

func (s *consoleSender) Send(ctx context.Context, to, subject, body string) error {
	s.log.Info("email dispatched",
		zap.String("to", to),
		zap.String("subject", subject),
		zap.String("body", body),
	)
	return nil
}

var Module = fx.Module("providers.email",
	fx.Provide(NewConsoleSender),
)
