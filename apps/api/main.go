package main

import (
	"github.com/KaulanSerzhanuly/SafegUARD/internal/clock"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/config"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/observability"
	"github.com/KaulanSerzhanuly/SafegUARD/internal/server"
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

		// No scheduler: the API serves reads and writes only, snapshots
		// come from the scheduler process.
		server.Module,
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
