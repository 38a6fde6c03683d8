package proximity

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/repository"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/proximity/service"
	"go.uber.org/fx"
)

var Module = fx.Module("proximity.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
