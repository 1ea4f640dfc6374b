package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"kitten-game/ai"
	"kitten-game/config"
	"kitten-game/controller"
	"kitten-game/game"
	"kitten-game/middleware"
	"kitten-game/repository"
	"kitten-game/router"
	"kitten-game/service"
	"kitten-game/stats"
	"kitten-game/utils"
	"kitten-game/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}
	logger, err := utils.NewLogger(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var rdb *redis.Client
	if cfg.UsesRedis() {
		if rdb, err = repository.InitRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); err != nil {
			logger.Fatal("connect redis failed", zap.Error(err))
		}
		defer rdb.Close()
	}

	store, err := openStore(ctx, cfg, rdb)
	if err != nil {
		logger.Fatal("open match store failed", zap.String("driver", string(cfg.StoreDriver)), zap.Error(err))
	}
	defer store.Close()

	var statsStore service.StatsStore = stats.NopSink{}
	if rdb != nil {
		statsStore = stats.NewRedisSink(rdb, logger.Named("stats"))
	}

	engine := game.NewEngine(game.DefaultRand)
	bots := ai.NewOrchestrator(engine, ai.NewPolicy(engine.Rand()), cfg.BotMaxSteps, logger.Named("bots"))
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.MatchTTL)
	svc := service.NewMatchService(store, engine, bots, statsStore, tokens, logger.Named("match"))

	go svc.RunJanitor(ctx, cfg.CleanupInterval, cfg.MatchTTL)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger.Named("http")))

	// 设置 CORS 中间件，允许所有域名、所有方法、所有 header
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:   []string{"Content-Length"},
		MaxAge:          12 * time.Hour,
	}))

	router.InitRouter(r, controller.NewMatchController(svc), ws.NewHandler(svc, tokens, logger.Named("ws")), tokens)

	logger.Info("server starting", zap.String("addr", cfg.HTTPAddr), zap.String("store", string(cfg.StoreDriver)))
	if err := r.Run(cfg.HTTPAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func openStore(ctx context.Context, cfg *config.Config, rdb *redis.Client) (repository.MatchStore, error) {
	switch cfg.StoreDriver {
	case config.StoreRedis:
		return repository.NewRedisMatchStore(rdb, cfg.MatchTTL), nil
	case config.StoreMemory:
		return repository.NewMemoryMatchStore(cfg.MemoryStoreSize)
	default:
		return repository.OpenSQLMatchStore(ctx, string(cfg.StoreDriver), cfg.StoreDSN)
	}
}
