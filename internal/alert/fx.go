package alert

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/alert/repository"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/alert/service"
	"go.uber.org/fx"
)

var Module = fx.Module("alert.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
