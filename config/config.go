package config

import "os"

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	JWTSecret string

	// Media storage. MediaDisk selects the disk the media library writes to
	// ("public" local disk or "gcs"); MediaRoot is the local disk root and
	// MediaBucket the GCS bucket name.
	MediaDisk   string
	MediaRoot   string
	MediaBucket string

	// PortfolioTypes is a JSON object mapping type key -> {label, color}.
	PortfolioTypes string

	// AppHost is used in export archive filenames when no request host is available.
	AppHost string
}

func LoadConfig() Config {
	return Config{
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     os.Getenv("DB_PORT"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		MediaDisk:   os.Getenv("MEDIA_DISK"),
		MediaRoot:   os.Getenv("MEDIA_ROOT"),
		MediaBucket: os.Getenv("MEDIA_BUCKET"),

		PortfolioTypes: os.Getenv("PORTFOLIO_TYPES"),

		AppHost: os.Getenv("APP_HOST"),
	}
}

// MediaDiskName returns the configured media disk, falling back to "public".
func (c Config) MediaDiskName() string {
	if c.MediaDisk == "" {
		return "public"
	}
	return c.MediaDisk
}

// MediaRootPath returns the local media root, falling back to storage/app/public.
func (c Config) MediaRootPath() string {
	if c.MediaRoot == "" {
		return "storage/app/public"
	}
	return c.MediaRoot
}
