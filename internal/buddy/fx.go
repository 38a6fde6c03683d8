package buddy

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/repository"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/buddy/service"
	"go.uber.org/fx"
)

var Module = fx.Module("buddy.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
