package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/pantry-tracker/internal/auth"
	"github.com/rogerio-castellano/pantry-tracker/internal/config"
	"github.com/rogerio-castellano/pantry-tracker/internal/db"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/handlers"
	rl "github.com/rogerio-castellano/pantry-tracker/internal/http/rate_limiter"
	"github.com/rogerio-castellano/pantry-tracker/internal/http/router"
	"github.com/rogerio-castellano/pantry-tracker/internal/mail"
	"github.com/rogerio-castellano/pantry-tracker/internal/redissvc"
	"github.com/rogerio-castellano/pantry-tracker/internal/repo"
)

// @title Pantry Tracker API
// @version 1.0
// @description REST API for tracking pantry stock, storages and shopping lists.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey CookieAuth
// @in cookie
// @name session
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	auth.SetSecret([]byte(cfg.JWTSecret))

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()

		redisService := redissvc.NewRedisService(rdb)
		if err := redisService.Ping(ctx); err != nil {
			log.Fatalf("Could not connect to Redis: %v", err)
		}
		handlers.SetLinkStore(redisService)
	} else {
		links := auth.NewMemoryLinkStore()
		go links.StartCleaner(ctx, 30*time.Minute)
		handlers.SetLinkStore(links)
		log.Println("REDIS_ADDR not set, keeping login links in memory")
	}

	if cfg.SMTPEnabled() {
		handlers.SetMailer(mail.NewSMTPMailer(mail.SMTPConfig{
			Server:   cfg.SMTPServer,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.MailFrom,
		}))
	} else {
		handlers.SetMailer(mail.NewLogMailer())
		log.Println("SMTP_SERVER not set, login links are written to the log")
	}

	handlers.SetAuthSettings(handlers.AuthSettings{
		AppURL:       cfg.AppURL,
		LoginLinkTTL: cfg.LoginLinkTTL,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
	})

	if cfg.RunMigrations {
		if err := db.Migrate(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			log.Fatalf("Could not migrate database: %v", err)
		}
	}

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Could not connect to database:", err)
	}
	defer database.Close()

	handlers.SetUserRepo(repo.NewPostgresUserRepository(database))
	handlers.SetBrandRepo(repo.NewPostgresBrandRepository(database))
	handlers.SetProductTypeRepo(repo.NewPostgresProductTypeRepository(database))
	handlers.SetUnitTypeRepo(repo.NewPostgresUnitTypeRepository(database))
	handlers.SetProductRepo(repo.NewPostgresProductRepository(database))
	handlers.SetStorageRepo(repo.NewPostgresStorageRepository(database))
	handlers.SetShoppingListRepo(repo.NewPostgresShoppingListRepository(database))
	handlers.SetPriceLogRepo(repo.NewPostgresPriceLogRepository(database))
	handlers.SetCompletionRepo(repo.NewPostgresCompletionRepository(database))
	handlers.SetMetricsRepo(repo.NewPostgresMetricsRepository(database))

	rl.Configure(cfg.RateLimitRPS, cfg.RateLimitBurst)
	go rl.StartVisitorCleanupLoop(ctx)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown: %v", err)
		}
	}()

	log.Printf("Server running on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
