package main

import (
	"context"
	"leadtime/config"
	"leadtime/di"
	"leadtime/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	housekeeper := di.InitializeHousekeeper()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go housekeeper.Run(ctx)

	http := di.InitializeService()
	http.Serve()
}
