package main

import (
	"context"
	"log"

	"github.com/clipforge/clipforge/internal/batch"
	clipsRepository "github.com/clipforge/clipforge/internal/clips/repository"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/server"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/clipforge/clipforge/pkg/logger"
)

func main() {
	log.Println("Starting clipforge server")
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	sequencer, err := batch.NewSequencer(cfg.Clips.Dir, cfg.Clips.TmpDir)
	if err != nil {
		appLogger.Fatalf("could not init batch sequencer: %v", err)
	}
	jobRepo := clipsRepository.NewJobMemoryRepo()

	media, err := pipeline.NewMediaAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("could not init media pipeline: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := worker.NewDispatcher(cfg, appLogger, jobRepo, media)
	dispatcher.Start(ctx)

	s := server.NewServer(cfg, jobRepo, sequencer, media, dispatcher, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Errorf("could not start server: %v", err)
	}

	cancel()
	dispatcher.Wait()
}
