package main

import (
	"log"
	"os"
	"portfolio-api/config"
	"portfolio-api/internal/logs"
	"portfolio-api/internal/lookup"
	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
	"portfolio-api/internal/transfer"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func buildDisks(cfg config.Config) map[string]media.Disk {
	disks := map[string]media.Disk{
		"public": &media.LocalDisk{
			Root:    cfg.MediaRootPath(),
			BaseURL: "/storage",
		},
	}
	if cfg.MediaBucket != "" {
		disks["gcs"] = &media.GCSDisk{Bucket: cfg.MediaBucket}
	}
	return disks
}

func main() {
	cfg := config.LoadConfig()

	dsn := "host=" + cfg.DBHost +
		" user=" + cfg.DBUser +
		" password=" + cfg.DBPassword +
		" dbname=" + cfg.DBName +
		" port=" + cfg.DBPort +
		" sslmode=disable"

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(&portfolio.Portfolio{}, &media.Media{}, &logs.SystemLog{}); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	logService := &logs.LogService{DB: db}
	logs.RegisterRoutes(r, logService)

	disks := buildDisks(cfg)
	mediaService := &media.MediaService{
		DB:          db,
		Disks:       disks,
		DefaultDisk: cfg.MediaDiskName(),
	}

	portfolioService := &portfolio.PortfolioService{DB: db, Media: mediaService}
	portfolio.RegisterRoutes(r, portfolioService, mediaService)

	typeRegistry := lookup.NewTypeRegistry(cfg.PortfolioTypes)
	lookup.RegisterRoutes(r, typeRegistry)

	transferService := &transfer.TransferService{
		Portfolios:  portfolioService,
		Media:       mediaService,
		StagingDisk: disks[cfg.MediaDiskName()],
		Logs:        logService,
	}
	transfer.RegisterRoutes(r, transferService, disks[cfg.MediaDiskName()])

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting server on 0.0.0.0:%s ...", port)
	log.Fatal(r.Run("0.0.0.0:" + port))
}
