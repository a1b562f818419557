package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"surq/internal/cache"
	"surq/internal/config"
	"surq/internal/repository"
	"surq/internal/service"
	"surq/internal/transport/rest"
	"surq/internal/transport/ws"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg := config.Load()
	ctx := context.Background()

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoClient.Disconnect(ctx)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to ping MongoDB")
	}
	log.Info().Str("db", cfg.MongoDB).Msg("connected to MongoDB")

	db := mongoClient.Database(cfg.MongoDB)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping Redis")
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("connected to Redis")

	// Initialize WebSocket hub
	wsHub := ws.NewHub()

	// Initialize repositories
	userRepo := repository.NewUserRepo(db)
	surveyRepo := repository.NewSurveyRepo(db)
	responseRepo := repository.NewResponseRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	reportRepo := repository.NewReportRepo(db)
	notifRepo := repository.NewNotificationRepo(db)
	txRunner := repository.NewTxRunner(mongoClient)

	// Initialize caches
	profileCache := cache.NewProfileCache(rdb)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	userSvc := service.NewUserService(userRepo, profileCache)
	notifSvc := service.NewNotificationService(notifRepo)
	surveySvc := service.NewSurveyService(surveyRepo, userRepo, profileCache, cfg.IsAdmin)
	responseSvc := service.NewResponseService(responseRepo, surveyRepo, userRepo, notifSvc, profileCache)
	couponSvc := service.NewCouponService(couponRepo, userRepo, txRunner, profileCache)
	reportSvc := service.NewReportService(reportRepo, responseRepo, userRepo, surveyRepo, notifSvc, profileCache)
	sweeperSvc := service.NewSweeperService(surveyRepo)

	// Live delivery of stored notifications (wsHub implements service.NotificationPusher)
	notifSvc.SetPusher(wsHub)

	// Background expiry sweeper
	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go sweeperSvc.Run(sweepCtx, cfg.SweepInterval)

	// Create router with container
	container := &rest.Container{
		AuthService:         authSvc,
		UserService:         userSvc,
		SurveyService:       surveySvc,
		ResponseService:     responseSvc,
		CouponService:       couponSvc,
		ReportService:       reportSvc,
		NotificationService: notifSvc,
		SweeperService:      sweeperSvc,
		WSHub:               wsHub,
		IsAdmin:             cfg.IsAdmin,
	}

	router := rest.NewRouter(container)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	stopSweeper()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
