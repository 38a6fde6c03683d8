package location

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/location/repository"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/location/service"
	"go.uber.org/fx"
)

var Module = fx.Module("location.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
