package main

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/feed"
	"github.com/yeremiapane/reservation-app/router"
	"github.com/yeremiapane/reservation-app/utils"
)

func main() {
	utils.InitLogger()

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	utils.SetLevel(cfg.LogLevel)

	// Initialize DB
	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.DB.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
		}
		utils.InfoLogger.Println("AutoMigrate completed.")
	}

	if cfg.SeedFile != "" {
		n, err := database.ExecuteSQLFile(db, cfg.SeedFile)
		if err != nil {
			utils.ErrorLogger.Fatalf("Failed to seed from %s: %v", cfg.SeedFile, err)
		}
		utils.InfoLogger.Printf("Seeded %d statements from %s", n, cfg.SeedFile)
	}

	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	hub := feed.NewHub()
	r := router.SetupRouter(db, cfg, hub)

	// Set trusted proxies
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Printf("Error setting trusted proxies: %v", err)
	}

	utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}
