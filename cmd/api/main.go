package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/edumark/gradebook-go-api/internal/config"
	"github.com/edumark/gradebook-go-api/internal/database"
	"github.com/edumark/gradebook-go-api/internal/grading"
	"github.com/edumark/gradebook-go-api/internal/handler"
	"github.com/edumark/gradebook-go-api/internal/middleware"
	"github.com/edumark/gradebook-go-api/internal/router"
	"github.com/edumark/gradebook-go-api/internal/service"
	"github.com/edumark/gradebook-go-api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, class summary caching disabled")
	}

	var natsConn *nats.Conn
	if cfg.NatsURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NatsURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, activity events disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	rubricStore := store.NewRubricStore()
	rosterStore := store.NewRosterStore()
	policyRegistry := store.NewLatePolicyRegistry(logger)
	gradeLedger := store.NewGradeLedger()

	if err := service.LoadLatePoliciesFile(policyRegistry, cfg.LatePolicyFile, logger); err != nil {
		log.Fatalf("failed to load late policy file: %v", err)
	}

	engine := grading.NewEngine(logger)

	privacyService := service.NewPrivacySessionService(cfg.PrivacySessionDuration, []service.Clearer{
		rubricStore,
		rosterStore,
		gradeLedger,
	}, logger)
	defer privacyService.Shutdown()

	activity := service.NewActivityPublisher(natsConn, cfg.ActivitySubject, logger)

	rubricService := service.NewRubricService(rubricStore, privacyService, validate, activity, logger)
	rosterService := service.NewRosterService(rosterStore, privacyService, validate, activity, logger)
	policyService := service.NewLatePolicyService(policyRegistry, privacyService, validate, logger)
	summaryService := service.NewClassSummaryService(gradeLedger, rosterStore, rubricStore, policyRegistry, engine, redisClient, cfg.SummaryCacheTTL, logger)
	gradeService := service.NewGradeService(gradeLedger, rosterStore, rubricStore, policyRegistry, engine, privacyService, validate, activity, summaryService, logger)
	sessionService := service.NewSessionService(rosterStore, rubricStore, gradeService, privacyService, cfg.DebounceWindow, validate, activity, logger)

	rubricHandler := handler.NewRubricHandler(rubricService, logger)
	rosterHandler := handler.NewRosterHandler(rosterService, logger)
	policyHandler := handler.NewPolicyHandler(policyService, logger)
	gradeHandler := handler.NewGradeHandler(gradeService, logger)
	sessionHandler := handler.NewSessionHandler(sessionService, logger)
	privacyHandler := handler.NewPrivacyHandler(privacyService, cfg.TickInterval, logger)
	summaryHandler := handler.NewSummaryHandler(summaryService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		RubricHandler:  rubricHandler,
		RosterHandler:  rosterHandler,
		PolicyHandler:  policyHandler,
		GradeHandler:   gradeHandler,
		SessionHandler: sessionHandler,
		PrivacyHandler: privacyHandler,
		SummaryHandler: summaryHandler,
		JWTMiddleware:  middleware.JWTProtected(cfg.JWTSecret),
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 1m", privacyService.Sweep); err != nil {
		log.Fatalf("failed to schedule privacy sweep: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
