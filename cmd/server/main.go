package main

import (
	"context"
	"log"
	"os"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/maumlabs/anbu/internal/config"
	"github.com/maumlabs/anbu/internal/core/detector"
	"github.com/maumlabs/anbu/internal/core/insight"
	"github.com/maumlabs/anbu/internal/core/report"
	"github.com/maumlabs/anbu/internal/llm"
	"github.com/maumlabs/anbu/internal/scheduler"
	"github.com/maumlabs/anbu/internal/server"
	"github.com/maumlabs/anbu/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := store.Open(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.Error(err))
	}

	aiClient, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		logger.Fatal("failed to initialize llm client", zap.Error(err))
	}

	families := store.NewFamilyRepository(db, logger)
	messages := store.NewMessageRepository(db, logger)
	alerts := store.NewAlertRepository(db, logger)
	insights := store.NewInsightRepository(db, logger)
	reports := store.NewReportRepository(db, logger)

	det := detector.New(families, messages, alerts, aiClient,
		cfg.Risk.Keywords(), cfg.Prompts.Corroboration, logger)
	analyzer := insight.New(families, messages, insights, aiClient, insight.Prompts{
		Health:  cfg.Prompts.Health,
		Emotion: cfg.Prompts.Emotion,
		Needs:   cfg.Prompts.Needs,
	}, logger)
	reporter := report.New(families, insights, reports, aiClient, report.Prompts{
		Overview: cfg.Prompts.Overview,
		Tips:     cfg.Prompts.Tips,
	}, logger)

	guard := scheduler.NewRedisGuard(redisClient)
	sched := scheduler.New(families, det, analyzer, reportUnit{reporter}, guard, logger)
	sched.Start(ctx)

	jobs := scheduler.NewRegistry(logger)

	srv := server.New(det, analyzer, reporter, sched, jobs, logger)
	router := srv.SetupRouter()

	logger.Info("starting server", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

// reportUnit adapts the aggregator's (report, error) return to the
// scheduler's error-only batch unit.
type reportUnit struct {
	agg *report.Aggregator
}

func (r reportUnit) Generate(ctx context.Context, familyID string) error {
	_, err := r.agg.Generate(ctx, familyID)
	return err
}
