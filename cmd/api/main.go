package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lavanderia-app/lavanderia-backend/internal/config"
	"github.com/lavanderia-app/lavanderia-backend/internal/db"
	"github.com/lavanderia-app/lavanderia-backend/internal/migrations"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/auth"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/calculator"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/catalog"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/notes"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/orders"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/settings"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/stats"
	"github.com/lavanderia-app/lavanderia-backend/internal/modules/user"
	"github.com/lavanderia-app/lavanderia-backend/internal/seed"
)

const loginPath = "/api/v1/auth/login"

func main() {
	cfg := config.Load()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	if err := migrations.Up(conn, cfg.DBDriver, migrations.Dir(cfg)); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Database ready (%s)\n", cfg.DBDriver)

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Identity (hosted generation only) ───────────────────
	var userService user.Service
	if cfg.AuthEnabled() {
		userRepo := user.NewPostgresRepository(conn)
		userService = user.NewService(userRepo)

		tokenCheck := auth.Middleware(cfg.JWTSecret)
		router.Use(func(next http.Handler) http.Handler {
			protected := tokenCheck(next)
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == loginPath {
					next.ServeHTTP(w, r)
					return
				}
				protected.ServeHTTP(w, r)
			})
		})

		user.NewHandler(userService).RegisterRoutes(router)
		auth.NewHandler(auth.NewService(userRepo, cfg.JWTSecret)).RegisterRoutes(router)
	}

	// ── Catalogs ────────────────────────────────────────────
	var catalogRepo catalog.Repository
	var ordersRepo orders.Repository
	var notesRepo notes.Repository
	var settingsRepo settings.Repository
	if cfg.DBDriver == config.DriverPostgres {
		catalogRepo = catalog.NewPostgresRepository(conn)
		ordersRepo = orders.NewPostgresRepository(conn)
		notesRepo = notes.NewPostgresRepository(conn)
		settingsRepo = settings.NewPostgresRepository(conn)
	} else {
		catalogRepo = catalog.NewSQLiteRepository(conn)
		ordersRepo = orders.NewSQLiteRepository(conn)
		notesRepo = notes.NewSQLiteRepository(conn)
		settingsRepo = settings.NewSQLiteRepository(conn)
	}

	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router)

	// ── History ─────────────────────────────────────────────
	ordersService := orders.NewService(ordersRepo, nil, nil)
	orders.NewHandler(ordersService).RegisterRoutes(router)

	// ── Calculator sessions ─────────────────────────────────
	calcService := calculator.NewService(calculator.NewSessions(), catalogService, ordersService)
	calculator.NewHandler(calcService).RegisterRoutes(router)

	// ── Notes, settings, dashboard ──────────────────────────
	notesService := notes.NewService(notesRepo, ordersRepo, nil)
	notes.NewHandler(notesService).RegisterRoutes(router)

	settingsService := settings.NewService(settingsRepo)
	settings.NewHandler(settingsService).RegisterRoutes(router)

	statsService := stats.NewService(ordersService)
	stats.NewHandler(statsService).RegisterRoutes(router)

	// ── Seed ────────────────────────────────────────────────
	seedStats, err := seed.Run(context.Background(), catalogService, userService, seed.Config{
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	if err != nil {
		log.Fatal(err)
	}
	if seedStats.Catalogs > 0 || seedStats.Users > 0 {
		fmt.Printf("Seeded %d catalogs (%d items), %d users\n", seedStats.Catalogs, seedStats.Items, seedStats.Users)
	}

	// ── Start Server ────────────────────────────────────────
	fmt.Printf("Lavanderia API server starting on :%s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
