package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

const (
	// DriverSQLite is the offline-first deployment: a single-user instance
	// backed by a local database file, with authentication disabled.
	DriverSQLite = "sqlite"
	// DriverPostgres is the hosted deployment: multi-user, JWT auth enabled.
	DriverPostgres = "postgres"
)

const (
	defaultDriver = DriverSQLite
	defaultDBPath = "./lavanderia.db"
	defaultPort   = "8080"
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env           string
	DBDriver      string
	DBPath        string
	DatabaseURL   string
	Port          string
	JWTSecret     string
	AdminEmail    string
	AdminPassword string
}

// Load reads environment variables and returns a populated Config.
// A local .env file is loaded first when present; production should use
// real env injection.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Env:           os.Getenv("APP_ENV"),
		DBDriver:      os.Getenv("DB_DRIVER"),
		DBPath:        os.Getenv("DB_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		Port:          os.Getenv("APP_PORT"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	if cfg.Env == "" {
		cfg.Env = "dev"
	}
	if cfg.DBDriver == "" {
		cfg.DBDriver = defaultDriver
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.DBDriver == DriverPostgres {
		if cfg.DatabaseURL == "" {
			log.Print("warning: DATABASE_URL is not set")
		}
		if cfg.JWTSecret == "" {
			log.Print("warning: JWT_SECRET is not set")
		}
	}

	return cfg
}

// IsDev reports whether the app runs in local development mode.
func (c Config) IsDev() bool { return c.Env == "dev" }

// AuthEnabled reports whether login and role checks apply. The offline
// (sqlite) generation is single-user and skips authentication entirely.
func (c Config) AuthEnabled() bool { return c.DBDriver == DriverPostgres }
