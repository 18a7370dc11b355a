package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/quantfold/execore/params"
	"github.com/quantfold/execore/pkg/api"
	"github.com/quantfold/execore/pkg/engine"
	"github.com/quantfold/execore/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg := params.LoadFromEnv("")

	var logger *zap.Logger
	var err error
	if cfg.LogFile != "" {
		logger, err = util.NewLoggerWithFile(cfg.LogFile)
	} else {
		logger, err = util.NewLogger()
	}
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	eng := engine.New(engine.Options{
		TickInterval: cfg.Engine.TickInterval,
		InitialPrice: cfg.Engine.InitialPrice,
		Logger:       sugar,
	})
	eng.Start()
	defer eng.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Feeder.Enabled {
		cancelFeeder := engine.StartFeeder(ctx, eng, engine.FeederConfig{
			BatchSize: cfg.Feeder.BatchSize,
			Interval:  cfg.Feeder.Interval,
			Symbols:   cfg.Feeder.Symbols,
			BasePrice: cfg.Engine.InitialPrice,
			Spread:    cfg.Engine.InitialPrice * 0.05,
			MaxQty:    100,
		}, sugar)
		defer cancelFeeder()
	}

	if cfg.API.Enabled {
		server := api.NewServer(eng, sugar)
		go func() {
			if err := server.Start(cfg.API.Addr); err != nil {
				sugar.Fatalw("api_server_failed", "err", err)
			}
		}()
	}

	sugar.Infow("execored_running",
		"tick_interval_ms", cfg.Engine.TickInterval.Milliseconds(),
		"api_enabled", cfg.API.Enabled,
		"feeder_enabled", cfg.Feeder.Enabled)

	<-ctx.Done()
	sugar.Infow("shutdown_signal_received")
}
