package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"portfolio-api/config"
	"portfolio-api/internal/logs"
	"portfolio-api/internal/media"
	"portfolio-api/internal/portfolio"
	"portfolio-api/internal/seeder"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// portfolio-seeder: the loader invoked by migration archives.
//
//	portfolio-seeder -docs DIR -images DIR [up]
//	portfolio-seeder -docs DIR -images DIR down
func main() {
	docsDir := flag.String("docs", "", "directory holding the portfolio markdown documents")
	imagesDir := flag.String("images", "", "directory holding the exported images")
	flag.Parse()

	if *docsDir == "" {
		fmt.Fprintln(os.Stderr, "usage: portfolio-seeder -docs DIR -images DIR [up|down]")
		os.Exit(2)
	}

	mode := flag.Arg(0)
	if mode == "" {
		mode = "up"
	}

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

	disks := map[string]media.Disk{
		"public": &media.LocalDisk{Root: cfg.MediaRootPath(), BaseURL: "/storage"},
	}
	if cfg.MediaBucket != "" {
		disks["gcs"] = &media.GCSDisk{Bucket: cfg.MediaBucket}
	}

	mediaService := &media.MediaService{
		DB:          db,
		Disks:       disks,
		DefaultDisk: cfg.MediaDiskName(),
	}
	portfolioService := &portfolio.PortfolioService{DB: db, Media: mediaService}
	logService := &logs.LogService{DB: db}

	s := &seeder.Seeder{
		Portfolios: portfolioService,
		Media:      mediaService,
		Logs:       logService,
		Out:        os.Stdout,
	}

	ctx := context.Background()

	switch mode {
	case "up":
		if _, err := s.Up(ctx, *docsDir, *imagesDir); err != nil {
			log.Fatal("Seeding failed:", err)
		}
	case "down":
		if _, err := s.Down(ctx, *docsDir); err != nil {
			log.Fatal("Reversal failed:", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q (want up or down)\n", mode)
		os.Exit(2)
	}
}
