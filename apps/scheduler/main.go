package main

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/config"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/incident"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/migration"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/observability"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/risk"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/scheduler"
	"github.com/KaulanSerzhanuly/SafegUARD/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		// Domain services required by the recompute job.
		risk.Module,
		incident.Module,

		// No server module.
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
