package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/khansaheem825/grammar-evaluator/internal/api/handlers"
	"github.com/khansaheem825/grammar-evaluator/internal/cache/redis"
	"github.com/khansaheem825/grammar-evaluator/internal/evaluation"
	"github.com/khansaheem825/grammar-evaluator/internal/llm"
	"github.com/khansaheem825/grammar-evaluator/internal/metrics"
	"github.com/khansaheem825/grammar-evaluator/internal/middleware/ratelimit"
	"github.com/khansaheem825/grammar-evaluator/internal/middleware/security"
	"github.com/khansaheem825/grammar-evaluator/internal/middleware/sessions"
	"github.com/khansaheem825/grammar-evaluator/internal/session"
	"github.com/khansaheem825/grammar-evaluator/pkg/config"
	appLogger "github.com/khansaheem825/grammar-evaluator/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	err = appLogger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.OutputPath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	appLogger.Info("Starting Sentence Evaluator API Server")

	metrics.Init()

	llmClient := llm.NewClient(cfg.Gemini.APIKey, cfg.Gemini.BaseURL)

	var cache evaluation.FeedbackCache
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSec)*time.Second,
		)
		if err != nil {
			appLogger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer redisClient.Close()
		cache = redisClient
	}

	manager := session.NewManager(session.ManagerConfig{
		DefaultModel: cfg.Gemini.DefaultModel,
		MaxRecords:   cfg.History.MaxRecords,
		SessionTTL:   time.Duration(cfg.History.SessionTTLMin) * time.Minute,
		Logger:       appLogger.GetLogger(),
	})
	defer manager.Stop()

	evaluator := evaluation.NewEvaluator(llmClient, cache)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimit,
	})

	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.RateLimit.MaxRequestsPerMinute,
		Logger:               appLogger.GetLogger(),
	})
	defer limiter.Stop()

	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, X-Session-ID",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		IsDevelopment: cfg.Server.Development,
	}))
	app.Use(limiter.Middleware())

	evaluateHandler := handlers.NewEvaluateHandler(evaluator, cfg.Server.MaxTextLength)
	historyHandler := handlers.NewHistoryHandler()
	settingsHandler := handlers.NewSettingsHandler()
	modelsHandler := handlers.NewModelsHandler()
	wsHandler := handlers.NewWebSocketHandler(evaluator, manager)

	api := app.Group("/api/v1", sessions.Middleware(manager))

	api.Post("/evaluate", evaluateHandler.HandleEvaluate)
	api.Post("/evaluate/batch", evaluateHandler.HandleBatch)

	api.Get("/history", historyHandler.HandleList)
	api.Delete("/history", historyHandler.HandleClear)
	api.Get("/history/stats", historyHandler.HandleStats)

	api.Get("/models", modelsHandler.HandleList)
	api.Get("/settings", settingsHandler.HandleGet)
	api.Put("/settings", settingsHandler.HandleUpdate)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ready",
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/batch", websocket.New(wsHandler.HandleConnection))

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	appLogger.Info("Server starting", zap.String("address", addr))

	go func() {
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Server shutting down gracefully...")
	app.Shutdown()
	appLogger.Info("Server stopped")
}
