package main

import (
	"context"
	"log"
	"time"

	"github.com/takumanken/feed/config"
	"github.com/takumanken/feed/internal/api"
	"github.com/takumanken/feed/internal/database"
	"github.com/takumanken/feed/internal/ratelimit"
	"github.com/takumanken/feed/internal/services"
	"github.com/takumanken/feed/internal/utils"
	"github.com/takumanken/feed/pkg/logger"
	"go.uber.org/zap"
)

// @title feed prompt relay
// @version 1.0
// @description Relays prompts to Gemini with a fixed system instruction.
// @BasePath /

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := logger.InitLogger(&logger.Config{
		Level:      cfg.LogLevel,
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}); err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync()

	instruction, err := config.LoadSystemInstruction(cfg.SystemInstructionFile)
	if err != nil {
		log.Fatalf("failed to load system instruction: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	models, err := services.NewGeminiModels(ctx, cfg.GeminiAPIKey, utils.NewHTTPClient(0))
	if err != nil {
		log.Fatalf("failed to create gemini client: %v", err)
	}

	limiter, err := newLimiter(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to create rate limiter: %v", err)
	}

	router := api.NewRouter(api.Deps{
		Options:   cfg.Relay,
		Processor: services.NewRelayService(models, cfg.GeminiModel, instruction),
		Limiter:   limiter,
	})

	logger.Log.Info("Starting relay",
		zap.String("addr", cfg.ListenAddr()),
		zap.String("model", cfg.GeminiModel),
		zap.Strings("cors_origins", cfg.Relay.CORSOrigins),
		zap.Bool("rate_limited", cfg.Relay.RateLimit != nil),
	)

	if err := router.Run(cfg.ListenAddr()); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

func newLimiter(ctx context.Context, cfg *config.Config) (ratelimit.Limiter, error) {
	rl := cfg.Relay.RateLimit
	if rl == nil {
		return nil, nil
	}

	if cfg.RedisEnabled() {
		client, err := database.ConnectRedis(ctx, cfg.RedisFullAddr(), cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		return ratelimit.NewRedisLimiter(client, rl.Count, rl.Window), nil
	}

	limiter := ratelimit.NewMemoryLimiter(rl.Count, rl.Window)
	go limiter.Run(ctx, time.Minute)
	return limiter, nil
}
