package app

import (
	"context"
	"interview_prep_backend/internal/config"
	"interview_prep_backend/internal/controller"
	"interview_prep_backend/internal/curriculum"
	"interview_prep_backend/internal/repository"
	"interview_prep_backend/internal/scoring"
	"interview_prep_backend/internal/service"
	"interview_prep_backend/pkg/configwatcher"
	"interview_prep_backend/pkg/database"
	"interview_prep_backend/pkg/logger"
	"interview_prep_backend/pkg/monitoring"
	"interview_prep_backend/pkg/security"
	"interview_prep_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 配置文件所在目录，热更新时监听
const configDir = "configs"

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	// 后台协程（限流清理等）随服务关闭退出
	background     context.Context
	stopBackground context.CancelFunc
}

type repositories struct {
	user     *repository.UserRepository
	topic    *repository.TopicRepository
	progress *repository.ProgressRepository
	target   *repository.PerformanceTargetRepository
	question *repository.QuestionRepository
	chat     *repository.ChatRepository
}

type services struct {
	auth        *service.AuthService
	storage     *service.StorageService
	ai          *service.AIService
	runner      *service.Judge0Runner
	performance *service.PerformanceService
	tracker     *service.TopicProgressService
	question    *service.QuestionService
	chat        *service.ChatService
}

type controllers struct {
	auth     *controller.AuthController
	chat     *controller.ChatController
	progress *controller.ProgressController
	question *controller.QuestionController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	cacheTTL := time.Duration(cfg.Redis.TopicCacheMinutes) * time.Minute
	return &repositories{
		user:     repository.NewUserRepository(db),
		topic:    repository.NewTopicRepository(db, rdb, cacheTTL),
		progress: repository.NewProgressRepository(db),
		target:   repository.NewPerformanceTargetRepository(db),
		question: repository.NewQuestionRepository(db),
		chat:     repository.NewChatRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.ai = service.NewAIService(cfg.AI)
	s.runner = service.NewJudge0Runner(cfg.Judge0)

	s.performance = service.NewPerformanceService(
		repos.target,
		repos.chat,
		scoring.NewLevelResolver(scoring.DefaultLevelTable()),
		scoring.NewTitleExtractor(scoring.DefaultTitlePatterns()),
		scoring.NewComparator(),
		cfg.Interview.DefaultJobTitle,
		cfg.Interview.AreasLookback,
	)
	s.tracker = service.NewTopicProgressService(repos.topic, repos.progress)
	s.question = service.NewQuestionService(repos.question, repos.topic, s.tracker, s.ai, cfg.Interview.QuestionDifficulty)
	s.chat = service.NewChatService(repos.chat, s.performance, s.ai, s.runner, s.storage, cfg.Storage.ArchiveSubmissions)

	// 外部服务的地址与密钥支持热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		s.ai.UpdateConfig(newCfg.AI)
		s.runner.UpdateConfig(newCfg.Judge0)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		chat:     controller.NewChatController(s.chat),
		progress: controller.NewProgressController(s.tracker),
		question: controller.NewQuestionController(s.question),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS))
	router.Use(security.Secure())

	if cfg.RateLimit.MaxRequests > 0 && cfg.RateLimit.WindowMinutes > 0 {
		router.Use(security.RateLimiter(a.background, cfg.RateLimit))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	// release 模式下只有显式指定才迁移
	if cfg.Server.Mode != gin.ReleaseMode || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	background, stopBackground := context.WithCancel(context.Background())
	app := &App{
		Config:         cfg,
		DB:             db,
		background:     background,
		stopBackground: stopBackground,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	repos := app.initRepositories(db, rdb, cfg)
	// 课程树可能随迁移更新，清掉旧缓存
	for _, category := range curriculum.CategorySlugs {
		if err := repos.topic.InvalidateCategory(context.Background(), category); err != nil {
			logger.Log.Warn("invalidate topic cache failed", zap.String("category", category), zap.Error(err))
		}
	}

	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) watchConfig(ctx context.Context) {
	err := configwatcher.WatchConfig(ctx, configDir, func(newCfg *config.Config) {
		for _, callback := range a.configCallbacks {
			callback(newCfg)
		}
	})
	if err != nil {
		logger.Log.Warn("config hot reload disabled", zap.Error(err))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	defer a.stopBackground()
	go a.watchConfig(a.background)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")
	a.stopBackground()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Log.Info("Server exiting")
}
