package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"vidtube-go/internal/api/handler"
	"vidtube-go/internal/api/middleware"
	"vidtube-go/internal/api/router"
	"vidtube-go/internal/config"
	"vidtube-go/internal/infra/database"
	infraES "vidtube-go/internal/infra/elasticsearch"
	infraKafka "vidtube-go/internal/infra/kafka"
	infraMinio "vidtube-go/internal/infra/minio"
	infraRedis "vidtube-go/internal/infra/redis"
	"vidtube-go/internal/repository"
	"vidtube-go/internal/service"
	"vidtube-go/pkg/logger"
	"vidtube-go/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// @title VidTube API
// @version 1.0
// @description 视频分享平台 API 服务
// @termsOfService http://swagger.io/terms/

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host 127.0.0.1:8000
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description 输入格式: Bearer {token}，浏览器端也可以直接使用 accessToken Cookie

func main() {
	// 加载配置文件
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 初始化日志系统
	if err := logger.Init(
		cfg.Log.Level,
		cfg.Log.Format,
		cfg.Log.Output,
		cfg.Log.FilePath,
	); err != nil {
		panic(fmt.Sprintf("Failed to init logger: %v", err))
	}
	defer logger.Sync()

	// 初始化数据库
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("Failed to init database", zap.Error(err))
	}
	defer database.Close()

	if err := database.AutoMigrate(); err != nil {
		logger.Fatal("Failed to auto migrate", zap.Error(err))
	}

	// 初始化Redis
	if err := infraRedis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to init redis", zap.Error(err))
	}
	defer infraRedis.Close()

	// 初始化MinIO
	storage, err := infraMinio.Init(&cfg.MinIO)
	if err != nil {
		logger.Fatal("Failed to init minio", zap.Error(err))
	}

	// 初始化Kafka生产者
	producer := infraKafka.NewProducer(&cfg.Kafka)
	defer producer.Close()

	// 初始化 Elasticsearch（可选，失败则搜索降级到 DB）
	var (
		indexer  service.VideoIndexer
		searcher service.VideoSearcher
	)
	if esClient, err := infraES.Init(&cfg.Elasticsearch); err != nil {
		logger.Warn("Elasticsearch init failed, search will fallback to DB", zap.Error(err))
	} else {
		index := infraES.NewVideoIndex(esClient, infraES.IndexName(&cfg.Elasticsearch, "videos"))
		if err := index.EnsureIndex(context.Background()); err != nil {
			logger.Warn("Elasticsearch index init failed, search will fallback to DB", zap.Error(err))
		} else {
			indexer, searcher = index, index
		}
	}

	// 设置Gin模式
	gin.SetMode(cfg.App.Mode)

	// 创建Gin路由器（不使用默认中间件）
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// 初始化依赖（Repository -> Service -> Handler）
	db := database.Get()
	userRepo := repository.NewUserRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	tweetRepo := repository.NewTweetRepository(db)
	playlistRepo := repository.NewPlaylistRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)

	tokens := utils.NewTokenManager(
		cfg.App.Name,
		cfg.JWT.AccessSecret, cfg.JWT.AccessExpireDuration(),
		cfg.JWT.RefreshSecret, cfg.JWT.RefreshExpireDuration(),
	)
	statsCache := infraRedis.NewJSONCache(infraRedis.Get(), cfg.App.Name)

	authService := service.NewAuthService(userRepo, storage, tokens)
	userService := service.NewUserService(userRepo, channelRepo, storage)
	searchService := service.NewSearchService(videoRepo, searcher, indexer)
	commentService := service.NewCommentService(commentRepo, videoRepo)
	likeService := service.NewLikeService(likeRepo, videoRepo, commentRepo, tweetRepo)
	tweetService := service.NewTweetService(tweetRepo, videoRepo, userRepo)
	playlistService := service.NewPlaylistService(playlistRepo, videoRepo, userRepo)
	subscriptionService := service.NewSubscriptionService(subRepo, userRepo)
	dashboardService := service.NewDashboardService(videoRepo, subRepo, statsCache, cfg.Cache.DashboardStatsTTLDuration())
	videoService := service.NewVideoService(videoRepo, channelRepo, storage, indexer, producer, dashboardService)

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	// 启动探测结果消费者（后台 goroutine）
	resultReader := infraKafka.NewReader(
		cfg.Kafka.Brokers,
		cfg.Kafka.Topic(infraKafka.TopicMediaProbed),
		cfg.Kafka.GroupID,
	)
	go infraKafka.Consume(bgCtx, resultReader, videoService.HandleProbeResult)

	// 索引可用时后台全量同步一次
	if indexer != nil {
		go func() {
			success, failed, err := searchService.Reindex(bgCtx)
			if err != nil {
				logger.Warn("Video reindex aborted", zap.Error(err))
				return
			}
			logger.Info("Video reindex finished", zap.Int("success", success), zap.Int("failed", failed))
		}()
	}

	uploader := handler.NewUploader(cfg.Upload)
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, uploader, cfg.Cookie, cfg.JWT),
		User:         handler.NewUserHandler(userService, uploader),
		Video:        handler.NewVideoHandler(videoService, searchService, uploader),
		Comment:      handler.NewCommentHandler(commentService),
		Like:         handler.NewLikeHandler(likeService),
		Tweet:        handler.NewTweetHandler(tweetService),
		Playlist:     handler.NewPlaylistHandler(playlistService),
		Subscription: handler.NewSubscriptionHandler(subscriptionService),
		Dashboard:    handler.NewDashboardHandler(dashboardService),
	}

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// 注册基础路由
	r.GET("/healthz", healthCheckHandler)
	r.GET("/", rootHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 注册业务路由
	router.Setup(r, handlers, authService, limiter)

	// 启动服务器
	addr := fmt.Sprintf(":%d", cfg.App.Port)
	logger.Info("Starting application",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("mode", cfg.App.Mode),
		zap.String("addr", addr),
	)
	logger.Info("Configuration loaded",
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)),
		zap.String("redis", cfg.Redis.Addr()),
		zap.String("minio", cfg.MinIO.Endpoint),
		zap.Strings("kafka", cfg.Kafka.Brokers),
		zap.Bool("search_index", searcher != nil),
	)

	if err := r.Run(addr); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// healthCheckHandler 健康检查接口，数据库或 Redis 不可用时返回 503
func healthCheckHandler(c *gin.Context) {
	cfg := config.Get()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	status, message := http.StatusOK, "Service is healthy"
	if err := database.Ping(ctx); err != nil {
		checks["database"] = err.Error()
		status, message = http.StatusServiceUnavailable, "Dependency unavailable"
	}
	if err := infraRedis.Ping(ctx); err != nil {
		checks["redis"] = err.Error()
		status, message = http.StatusServiceUnavailable, "Dependency unavailable"
	}
	if status != http.StatusOK {
		logger.Warn("Health check failed", zap.Any("checks", checks))
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"message":   message,
		"checks":    checks,
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   cfg.App.Name,
		"version":   cfg.App.Version,
		"mode":      cfg.App.Mode,
	})
}

// rootHandler 根路径处理器
func rootHandler(c *gin.Context) {
	cfg := config.Get()

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Welcome to %s API", cfg.App.Name),
		"project": cfg.App.Name,
		"version": cfg.App.Version,
		"mode":    cfg.App.Mode,
		"docs":    fmt.Sprintf("http://localhost:%d/healthz", cfg.App.Port),
	})
}
