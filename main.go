// @title Śabdakrīḍā Backend API
// @version 1.0
// @description Adaptive Sanskrit pronunciation and grammar tutoring backend.

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"sabdakrida_backend/internal/app"
	"sabdakrida_backend/internal/config"
	"sabdakrida_backend/pkg/configwatcher"
	"sabdakrida_backend/pkg/logger"
)

func main() {
	watchConfig := flag.Bool("watch-config", false, "hot-reload configs/config.yaml on change")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *watchConfig {
		go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)
	}

	application.Run()
}
