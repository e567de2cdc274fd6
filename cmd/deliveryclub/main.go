package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/clock"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/config"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/currency"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/logger"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/migration"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/packagetype"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/parcel"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/redisconn"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/scheduler"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/server"
	"github.com/iliazhigalev/zhigalev-delivery-club/internal/session"
	"github.com/iliazhigalev/zhigalev-delivery-club/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		redisconn.Module,
		clock.Module,
		migration.Module,

		// Functional domains
		packagetype.Module,
		currency.Module,
		parcel.Module,
		session.Module,
		scheduler.Module,
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
