package main

import (
	"github.com/DocksDocks/oauth-api/internal/config"
	"github.com/DocksDocks/oauth-api/internal/handlers"
	"github.com/DocksDocks/oauth-api/internal/models"
	"github.com/DocksDocks/oauth-api/internal/services"
	"github.com/DocksDocks/oauth-api/internal/utils"
	"github.com/DocksDocks/oauth-api/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg         *config.Config
	redisClient *redis.Client
	taskQueue   services.TaskQueue
	worker      *services.Worker
	cleanup     *services.CleanupService

	systemLogService *services.SystemLogService
	apiKeyService    *services.APIKeyService

	authHandler         *handlers.AuthHandler
	accountHandler      *handlers.AccountHandler
	apiKeyHandler       *handlers.APIKeyHandler
	setupHandler        *handlers.SetupHandler
	userHandler         *handlers.UserHandler
	systemConfigHandler *handlers.SystemConfigHandler
	systemLogHandler    *handlers.SystemLogHandler
	collectionHandler   *handlers.CollectionHandler
	healthHandler       *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, cache,
// queue, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedDefaultData(); err != nil {
		logger.Warnf("Failed to seed default data: %v", err)
	}

	db := models.GetDB()

	// Redis cache (API key validation) when enabled
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		logger.Infof("[Bootstrap] Redis cache enabled at %s", cfg.Redis.Addr)
	}

	systemLogService := services.NewSystemLogService(db)

	// Security event queue: async through Redis when available, in-process
	// otherwise. Either way events land in system_logs.
	taskQueue := services.NewTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(systemLogService.ProcessSecurityEvent)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(systemLogService.ProcessSecurityEvent)
			worker.Start()
		}
	}

	tokenService := services.NewTokenService(db, &cfg.JWT)
	tokenService.SetEventQueue(taskQueue)

	authService := services.NewAuthService(db, tokenService)
	accountService := services.NewAccountService(db)
	apiKeyService := services.NewAPIKeyService(db, redisClient)
	setupService := services.NewSetupService(db, apiKeyService)
	userService := services.NewUserService(db, tokenService)
	configService := services.NewSystemConfigService(db)
	collectionService := services.NewCollectionService(db)

	cleanup := services.NewCleanupService(db, services.NewRefreshTokenStore(db), systemLogService)
	if err := cleanup.Start(); err != nil {
		logger.Warnf("Failed to start cleanup scheduler: %v", err)
	}

	return &appServices{
		cfg:         cfg,
		redisClient: redisClient,
		taskQueue:   taskQueue,
		worker:      worker,
		cleanup:     cleanup,

		systemLogService: systemLogService,
		apiKeyService:    apiKeyService,

		authHandler:         handlers.NewAuthHandler(authService, tokenService),
		accountHandler:      handlers.NewAccountHandler(accountService),
		apiKeyHandler:       handlers.NewAPIKeyHandler(apiKeyService),
		setupHandler:        handlers.NewSetupHandler(setupService),
		userHandler:         handlers.NewUserHandler(userService),
		systemConfigHandler: handlers.NewSystemConfigHandler(configService),
		systemLogHandler:    handlers.NewSystemLogHandler(systemLogService),
		collectionHandler:   handlers.NewCollectionHandler(collectionService),
		healthHandler:       handlers.NewHealthHandler(db, taskQueue, cfg.Redis.Enabled),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.cleanup.Stop()

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
	if s.redisClient != nil {
		s.redisClient.Close()
	}
	logger.Infof("[Bootstrap] All services stopped")
}
