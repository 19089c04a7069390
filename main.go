package main

import (
	"context"
	"log"

	"facilitydash/internal/config"
	"facilitydash/internal/container"
	"facilitydash/internal/ops"
	"facilitydash/ui"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appContainer, err := container.New(appConfig)
	if err != nil {
		log.Fatalf("Failed to create application container: %v", err)
	}
	defer appContainer.Shutdown(context.Background())

	if appConfig.Ops.Enabled {
		opsApp := ops.NewApp(appContainer.Cache)
		go func() {
			if err := opsApp.Start(":" + appConfig.Ops.Port); err != nil {
				appContainer.Logger.Error("Ops listener stopped: %v", err)
			}
		}()
	}

	server := ui.NewServer(appConfig, appContainer.Loader)
	if err := server.Initialize(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	appContainer.Warm(context.Background())

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
