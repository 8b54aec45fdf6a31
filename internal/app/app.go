package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"pixelpals_backend/internal/config"
	"pixelpals_backend/internal/controller"
	"pixelpals_backend/internal/repository"
	"pixelpals_backend/internal/service"
	"pixelpals_backend/pkg/database"
	"pixelpals_backend/pkg/logger"
	"pixelpals_backend/pkg/monitoring"
	"pixelpals_backend/pkg/security"
	"pixelpals_backend/pkg/tracing"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	friendship *repository.FriendshipRepository
	match      *repository.MatchRepository
	message    *repository.MessageRepository
	game       *repository.GameRepository
	platform   *repository.PlatformRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	friendship *service.FriendshipService
	match      *service.MatchService
	message    *service.MessageService
	registry   *service.PresenceRegistry
	presence   *service.PresenceEventRouter
	hub        *service.Hub
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	friendship *controller.FriendshipController
	match      *controller.MatchController
	message    *controller.MessageController
	chat       *controller.ChatController
	health     *controller.HealthController
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	svcs := app.initServices(repos, cfg, rdb)
	app.services = svcs
	ctrls := app.initControllers(svcs, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("pixelpals-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, ctrls, cfg)

	go svcs.hub.Run()

	return app
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		friendship: repository.NewFriendshipRepository(db),
		match:      repository.NewMatchRepository(db),
		message:    repository.NewMessageRepository(db),
		game:       repository.NewGameRepository(db),
		platform:   repository.NewPlatformRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	registry := service.NewPresenceRegistry()
	presence := service.NewPresenceEventRouter(registry, repos.user, nil)
	hub := service.NewHub(rdb, presence)
	// The hub is both the notification transport and a presence consumer.
	presence.Notifier = hub

	return &services{
		auth:       service.NewAuthService(repos.user, cfg),
		user:       service.NewUserService(repos.user, repos.game, repos.platform, registry),
		friendship: service.NewFriendshipService(repos.friendship, repos.user, registry, hub),
		match:      service.NewMatchService(repos.match, repos.user, repos.game, registry, hub, logger.Log),
		message:    service.NewMessageService(repos.message, repos.user, hub),
		registry:   registry,
		presence:   presence,
		hub:        hub,
	}
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user, s.friendship),
		friendship: controller.NewFriendshipController(s.friendship),
		match:      controller.NewMatchController(s.match),
		message:    controller.NewMessageController(s.message),
		chat:       controller.NewChatController(s.hub),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Close websocket sessions before the listener so presence flags are
	// persisted by the disconnect path.
	if a.services != nil && a.services.hub != nil {
		a.services.hub.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
