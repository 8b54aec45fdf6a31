package main

import (
	"log"

	"pixelpals_backend/internal/app"
	"pixelpals_backend/internal/config"
	"pixelpals_backend/pkg/configwatcher"
	"pixelpals_backend/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	go configwatcher.WatchConfig("configs/config.yaml", func(next *config.Config) {
		*cfg = *next
	})

	application.Run()
}
