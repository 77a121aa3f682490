package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/database"
	"github.com/tripsit/tripsit-api/internal/discord"
	"github.com/tripsit/tripsit-api/internal/email"
	"github.com/tripsit/tripsit-api/internal/graph"
	"github.com/tripsit/tripsit-api/internal/handlers"
	"github.com/tripsit/tripsit-api/internal/middleware"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/scheduler"
	"github.com/tripsit/tripsit-api/internal/services"
	"github.com/tripsit/tripsit-api/internal/utils"
	"go.uber.org/zap"

	_ "github.com/tripsit/tripsit-api/docs/api" // Swagger docs
)

// @title TripSit API
// @version 1.0.0
// @description GraphQL and REST backend for the TripSit community
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url https://github.com/tripsit/tripsit-api

// @license.name MIT

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// rateLimiterIdle is how long a client may be silent before its limiter is dropped.
const rateLimiterIdle = 30 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logger.Init(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Dir:    cfg.Log.Path,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	apps, err := config.LoadApps(cfg.Apps.File)
	if err != nil {
		logger.Fatal("failed to load app table", zap.Error(err))
	}
	logger.Info("loaded app table", zap.Strings("apps", apps.IDs()))

	var cache discord.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := discord.NewRedisCache(cfg.Redis.URL)
		if err != nil {
			logger.Fatal("failed to configure redis", zap.Error(err))
		}
		defer redisCache.Close()
		cache = redisCache
	}
	discordClient := discord.NewClient(cfg.Discord, cache)

	opts := graph.Options{
		Permissions: graph.DefaultPermissions(),
		VerifyURL:   cfg.Email.VerifyURL,
	}
	if cfg.MailEnabled() {
		opts.Mailer = email.NewMailer(cfg.SMTP)
	} else {
		logger.Info("smtp not configured, verification mail disabled")
	}
	schema, err := graph.NewSchema(opts)
	if err != nil {
		logger.Fatal("failed to build graphql schema", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          middleware.ErrorHandler(cfg.IsProduction()),
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: cfg.IsProduction(),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "${time} ${locals:requestId} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("tripsit")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	health := &handlers.HealthHandler{Config: cfg, DB: db}
	app.Get("/health", health.Check)

	gql := &handlers.GraphQLHandler{
		Schema: schema,
		Builder: &reqctx.Builder{
			Apps:    apps,
			DB:      db,
			Discord: discordClient,
			Logger:  logger.L(),
		},
	}
	app.Post("/graphql", middleware.IdentifyApp(apps), limiter.Handler(), gql.Post)
	app.Get("/graphql", middleware.IdentifyApp(apps), limiter.Handler(), gql.Get)

	// Legacy REST routes
	users := &handlers.UserHandler{DB: db}
	api := app.Group("/api", middleware.AppToken(apps), limiter.Handler())
	api.Get("/user", users.List)
	api.Get("/user/:userId", users.Get)
	api.Post("/user", users.Create)
	api.Patch("/user/:userId", users.UpdatePassword)
	api.Delete("/user/:userId", users.Delete)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	sched := scheduler.New()
	err = sched.AddHealthCheck(cfg.Scheduler.HealthSpec, 10*time.Second, func(ctx context.Context) services.HealthCheckResult {
		return services.HealthCheck(ctx, cfg, db)
	})
	if err != nil {
		logger.Fatal("failed to schedule health check", zap.Error(err))
	}
	err = sched.AddFunc(cfg.Scheduler.CleanupSpec, "rate limiter cleanup", func() {
		if n := limiter.Cleanup(rateLimiterIdle); n > 0 {
			logger.Debug("dropped idle rate limiters", zap.Int("count", n))
		}
	})
	if err != nil {
		logger.Fatal("failed to schedule cleanup", zap.Error(err))
	}
	sched.Start()

	// SIGHUP re-reads configuration and applies the log level.
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	go func() {
		for range hup {
			reloadLogLevel()
		}
	}()

	// Graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigs
		logger.Info("gracefully shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		sched.Stop(ctx)
		if err := app.ShutdownWithContext(ctx); err != nil {
			logger.Error("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}

	logger.Info("server stopped")
}

func reloadLogLevel() {
	cfg, err := config.Load()
	if err != nil {
		logger.Error("config reload failed", zap.Error(err))
		return
	}
	if err := logger.SetLevel(cfg.Log.Level); err != nil {
		logger.Error("invalid log level", zap.String("level", cfg.Log.Level), zap.Error(err))
		return
	}
	logger.Info("log level reloaded", zap.String("level", logger.GetLevel().String()))
}
