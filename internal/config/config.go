package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Weekly archive schedule: day of week + local time in ArchiveTZ.
	ArchiveDay  string // SUN, MON, ... (cron day-of-week names)
	ArchiveTime string // "23:30"
	ArchiveTZ   string // IANA zone, e.g. "Europe/Paris"
}

func Load() *Config {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DatabaseDSN: getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=hotelstock port=5432 sslmode=disable"),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		ArchiveDay:  getEnv("ARCHIVE_DAY", "SUN"),
		ArchiveTime: getEnv("ARCHIVE_TIME", "23:30"),
		ArchiveTZ:   getEnv("ARCHIVE_TZ", "Europe/Paris"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set. It is mandatory in production.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters long.")
	}
	if cfg.DatabaseDSN == "host=localhost user=postgres password=postgres dbname=hotelstock port=5432 sslmode=disable" {
		log.Println("[WARN] DATABASE_DSN is using the default value, set your own Postgres connection for production.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS is using the default value, set your own domain for production.")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
