package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/paylane/paylane/internal/config"
	"github.com/paylane/paylane/internal/migration"
	"github.com/paylane/paylane/internal/observability"
	"github.com/paylane/paylane/internal/server"
	"github.com/paylane/paylane/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
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
