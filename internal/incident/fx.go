package incident

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/incident/repository"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/incident/service"
	"go.uber.org/fx"
)

var Module = fx.Module("incident.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
