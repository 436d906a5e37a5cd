package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"gamestore/internal/api"
	"gamestore/internal/api/handler"
	"gamestore/internal/api/middleware"
	"gamestore/internal/app/service"
	"gamestore/internal/app/worker"
	"gamestore/internal/common/security"
	"gamestore/internal/domain/repository"
	"gamestore/internal/platform/config"
	"gamestore/internal/platform/database"
	"gamestore/internal/platform/logging"
	"gamestore/internal/platform/queue"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)
	log.Info("configuration loaded", "port", cfg.APIPort)

	ctx := context.Background()

	// 2. Initialize Database
	db, err := database.Connect(ctx, cfg)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer database.Close(db, log)
	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx, db, log); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
	}

	// 3. Initialize Redis
	rdb, err := queue.Connect(ctx, cfg)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	defer queue.Close(rdb, log)
	mailQueue := queue.NewMailQueue(rdb, cfg.MailQueueName)

	// 4. Initialize Repositories
	userRepo := repository.NewPgUserRepository(db)
	gameRepo := repository.NewPgGameRepository(db)
	categoryRepo := repository.NewPgCategoryRepository(db)
	cartRepo := repository.NewPgCartRepository(db)
	wishlistRepo := repository.NewPgWishlistRepository(db)
	libraryRepo := repository.NewPgLibraryRepository(db)
	reviewRepo := repository.NewPgReviewRepository(db)
	friendshipRepo := repository.NewPgFriendshipRepository(db)
	notificationRepo := repository.NewPgNotificationRepository(db)

	// 5. Initialize Services
	tokens := security.NewTokenService(cfg.JWTKey, cfg.JWTExp)
	creds := service.NewCredentialStore(userRepo, security.NewPasswordHasher(cfg.BcryptCost))
	notifications := service.NewNotificationService(notificationRepo, log)

	deps := api.Deps{
		Log:         log,
		Auth:        middleware.NewAuth(tokens, creds, log),
		CORSOrigins: cfg.CORSOrigins,
		HealthChecks: map[string]handler.HealthCheck{
			"database": db.PingContext,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		AuthService:   service.NewAuthService(creds, tokens, mailQueue, log, cfg.EmailVerifyTTL, cfg.PasswordReset),
		Users:         service.NewUserService(creds),
		Games:         service.NewGameService(gameRepo, categoryRepo, wishlistRepo, notifications, log),
		Categories:    service.NewCategoryService(categoryRepo),
		Carts:         service.NewCartService(cartRepo, libraryRepo),
		Wishlists:     service.NewWishlistService(wishlistRepo),
		Library:       service.NewLibraryService(libraryRepo),
		Reviews:       service.NewReviewService(reviewRepo, gameRepo),
		Friendships:   service.NewFriendshipService(friendshipRepo, creds, notifications, log),
		Notifications: notifications,
	}
	if cfg.AuthRateLimit > 0 {
		limiter := queue.NewRateLimiter(rdb, "ratelimit:auth", cfg.AuthRateLimit, cfg.AuthRateWindow)
		deps.AuthLimiter = limiter
		log.Info("auth rate limit enabled", "limit", limiter.Limit(), "window", limiter.Window())
	}

	// 6. Optional in-process mail worker
	workerCtx, workerCancel := context.WithCancel(ctx)
	defer workerCancel()
	var wg sync.WaitGroup
	if cfg.InlineWorker {
		mailWorker := worker.NewMailWorker(mailQueue, worker.NewLogMailer(log), cfg.MailFrom, cfg.AppURL, log)
		wg.Add(1)
		go func() {
			defer wg.Done()
			mailWorker.Start(workerCtx)
		}()
	}

	// 7. Initialize Router & HTTP Server
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      api.NewRouter(deps),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 65 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("could not listen", "addr", server.Addr, "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	log.Info("shutting down server")
	workerCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
	wg.Wait()

	log.Info("server stopped")
}
