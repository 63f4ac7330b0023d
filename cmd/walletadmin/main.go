package main

import (
	"github.com/empresia/walletadmin/internal/clock"
	"github.com/empresia/walletadmin/internal/config"
	"github.com/empresia/walletadmin/internal/id"
	"github.com/empresia/walletadmin/internal/kv"
	"github.com/empresia/walletadmin/internal/locking"
	"github.com/empresia/walletadmin/internal/logger"
	"github.com/empresia/walletadmin/internal/server"
	"github.com/empresia/walletadmin/internal/telemetry"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		clock.Module,
		id.Module,
		telemetry.Module,
		kv.Module,
		locking.Module,

		// HTTP surface (pulls in the tenant store module)
		server.Module,
	)
	app.Run()
}
