package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/hopelink/hopelink/internal/clock"
	"github.com/hopelink/hopelink/internal/config"
	"github.com/hopelink/hopelink/internal/migration"
	"github.com/hopelink/hopelink/internal/observability"
	"github.com/hopelink/hopelink/internal/server"
	"github.com/hopelink/hopelink/pkg/db"
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
