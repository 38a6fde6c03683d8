package risk

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/risk/repository"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/risk/service"
	"go.uber.org/fx"
)

var Module = fx.Module("risk.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
