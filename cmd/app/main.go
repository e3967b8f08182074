package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"bukashka-bot/internal/common/config"
	"bukashka-bot/internal/common/logger"
	"bukashka-bot/internal/common/middleware"
	"bukashka-bot/internal/features/pet/catalog"
	pethttp "bukashka-bot/internal/features/pet/delivery/http"
	pettg "bukashka-bot/internal/features/pet/delivery/telegram"
	petredis "bukashka-bot/internal/features/pet/repository/redis"
	petservice "bukashka-bot/internal/features/pet/service"
	"bukashka-bot/internal/platform/redis"
	"bukashka-bot/internal/platform/telegram"
)

func main() {
	// Инициализируем конфигурацию и логгер
	cfg := config.Load()
	logger.Init("bukashka-bot", cfg.Debug)

	logger.Info().
		Bool("debug", cfg.Debug).
		Msg("Starting bukashka bot")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := redis.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")

	tgClient := telegram.NewClient(cfg.Telegram.BotToken)

	// Репозиторий и сервисы
	repo := petredis.NewRedisPetRepository(redisClient.Client)
	cat := catalog.Default()
	rng := petservice.NewRand(rand.NewSource(time.Now().UnixNano()))
	timers := petservice.NewTimers()

	notifier := pettg.NewNotifier(tgClient)
	roller := pettg.NewRoller(tgClient)

	mortality := petservice.NewMortalityService(repo, notifier, timers)
	adventures := petservice.NewAdventureService(repo, notifier, cat, timers, mortality, rng)
	pets := petservice.NewPetService(repo, cat, mortality, rng)
	economy := petservice.NewEconomyService(repo, roller, rng)
	sweep := petservice.NewSweepService(repo, notifier, adventures, mortality)

	logger.Info().Msg("Services initialized")

	// Восстанавливаем таймеры приключений, прерванные рестартом
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := adventures.Recover(bootCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to recover adventures")
	}
	bootCancel()

	// Запускаем фоновое голодание
	sweep.Start()
	defer sweep.Stop()
	defer timers.Shutdown()

	// Настраиваем Gin
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	// CORS нужен мини-приложению
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.Origin}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Accept", "X-Telegram-Init-Data"}
	router.Use(cors.New(corsConfig))

	botHandler := pettg.NewHandler(tgClient, pets, adventures, economy)
	setupRoutes(router, cfg, botHandler, pets, adventures, redisClient)

	// Регистрируем вебхук и меню команд
	if cfg.Telegram.WebhookURL != "" {
		setupCtx, setupCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := tgClient.SetWebhook(setupCtx, cfg.Telegram.WebhookURL, cfg.Telegram.WebhookSecret); err != nil {
			logger.Error().Err(err).Msg("Failed to register webhook")
		}
		if err := tgClient.SetMyCommands(setupCtx, pettg.Commands()); err != nil {
			logger.Error().Err(err).Msg("Failed to publish bot commands")
		}
		setupCancel()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Ждем сигнала для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	botHandler *pettg.Handler,
	pets *petservice.PetService,
	adventures *petservice.AdventureService,
	redisClient *redis.Client,
) {
	// Вебхук Telegram
	router.POST("/webhook", middleware.WebhookSecret(cfg.Telegram.WebhookSecret), botHandler.Webhook)

	// API мини-приложения
	v1 := router.Group("/api/v1")
	v1.Use(middleware.TelegramInitData(cfg.Telegram.BotToken))
	pethttp.NewPetHandler(pets, adventures).RegisterRoutes(v1)

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC(),
			"service":   "bukashka-bot",
		})
	})
	router.GET("/live", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive"})
	})
	router.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "redis unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
}
