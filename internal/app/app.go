package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"portfolio_backend/database"
	_ "portfolio_backend/docs" // swagger doc registration
	"portfolio_backend/internal/auth"
	"portfolio_backend/internal/config"
	"portfolio_backend/internal/email"
	"portfolio_backend/internal/events"
	"portfolio_backend/internal/handlers"
	"portfolio_backend/internal/imageprocessor"
	"portfolio_backend/internal/logger"
	"portfolio_backend/internal/middleware"
	"portfolio_backend/internal/repositories"
	"portfolio_backend/internal/routes"
	"portfolio_backend/internal/services"
	"portfolio_backend/internal/storage"
	"portfolio_backend/internal/validator"
	"portfolio_backend/pkg/apperrors"
	"portfolio_backend/ws"

	"github.com/Depado/ginprom"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

const (
	serviceName       = "portfolio-backend"
	devJWTSecret      = "dev-secret-change-me"
	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
)

// Server - собранное приложение: роутер и фоновые компоненты
type Server struct {
	Router    *gin.Engine
	Services  *services.ServiceContainer
	WSManager *ws.WebSocketManager
}

// Option меняет зависимости при сборке, в основном для тестов
type Option func(*buildOptions)

type buildOptions struct {
	emailProvider email.Provider
	storage       storage.Storage
	tokens        *auth.TokenManager
}

// WithEmailProvider подменяет почтовый провайдер из конфига
func WithEmailProvider(p email.Provider) Option {
	return func(o *buildOptions) { o.emailProvider = p }
}

// WithStorage подменяет файловое хранилище из конфига
func WithStorage(s storage.Storage) Option {
	return func(o *buildOptions) { o.storage = s }
}

// WithTokenManager подменяет выпуск JWT
func WithTokenManager(m *auth.TokenManager) Option {
	return func(o *buildOptions) { o.tokens = m }
}

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}
	logger.Info("Database connected")

	if err := seedFirstAdmin(ctx, gormDB, cfg, validator.New()); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	srv, err := Build(ctx, cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to build application", "error", err)
	}
	defer srv.Services.EmailService.Close()

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           srv.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	logger.Info("Server stopped")
}

// Build собирает сервисы, хэндлеры и роутер. Хаб websocket живет, пока жив ctx.
func Build(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, opts ...Option) (*Server, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	if o.storage == nil {
		storageInstance, err := storage.NewStorage(ctx, storage.Config{
			Type:      cfg.Storage.Type,
			BasePath:  cfg.Storage.BasePath,
			BaseURL:   cfg.Storage.BaseURL,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Endpoint:  cfg.Storage.Endpoint,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		o.storage = storageInstance
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	if o.tokens == nil {
		secret, err := jwtSecret(cfg)
		if err != nil {
			return nil, err
		}
		o.tokens = auth.NewTokenManager(secret)
	}

	wsManager := ws.NewWebSocketManager()
	go wsManager.Run(ctx)

	serviceContainer, err := initializeServices(cfg, o, wsManager)
	if err != nil {
		return nil, err
	}

	appHandlers := initializeHandlers(cfg, serviceContainer)
	wsHandler := ws.NewWebSocketHandler(wsManager, cfg.Server.CORSOrigins)

	ginRouter := initializeGinRouter(cfg, gormDB)
	if local, ok := o.storage.(*storage.LocalStorage); ok {
		ginRouter.Static(cfg.Storage.BaseURL, local.BasePath())
	}

	routes.RegisterRoutes(ginRouter, appHandlers, serviceContainer.AuthService, wsHandler)

	return &Server{
		Router:    ginRouter,
		Services:  serviceContainer,
		WSManager: wsManager,
	}, nil
}

func initializeServices(cfg *config.Config, o buildOptions, publisher events.Publisher) (*services.ServiceContainer, error) {
	var emailService *services.EmailService
	if o.emailProvider != nil {
		templateManager, err := email.NewTemplateManager()
		if err != nil {
			return nil, err
		}
		emailService = services.NewEmailService(o.emailProvider, templateManager)
	} else {
		var err error
		emailService, err = services.NewEmailServiceWithConfig(services.EmailServiceConfig{
			Provider:     cfg.Email.Provider,
			SMTPHost:     cfg.Email.SMTPHost,
			SMTPPort:     cfg.Email.SMTPPort,
			SMTPUsername: cfg.Email.SMTPUsername,
			SMTPPassword: cfg.Email.SMTPPassword,
			FromEmail:    cfg.Email.FromEmail,
			FromName:     cfg.Email.FromName,
			TemplatesDir: cfg.Email.TemplatesDir,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize email service: %w", err)
		}
	}
	logger.Info("Email service initialized", "provider", cfg.Email.Provider)

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository()
	projectRepo := repositories.NewProjectRepository()
	serviceRepo := repositories.NewServiceRepository()

	// --- Сервисы ---
	processor := imageprocessor.NewProcessor(cfg.Upload.ImageQuality, cfg.Upload.MaxWidth)
	uploadService := services.NewUploadService(o.storage, processor, services.UploadConfig{
		MaxFileSize:  cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})

	return &services.ServiceContainer{
		AuthService:     services.NewAuthService(userRepo, o.tokens, emailService, cfg.FrontendURL()),
		ProjectService:  services.NewProjectService(projectRepo, publisher),
		OfferingService: services.NewOfferingService(serviceRepo, publisher),
		UploadService:   uploadService,
		EmailService:    emailService,
	}, nil
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, services.AuthService),
		ProjectHandler: handlers.NewProjectHandler(baseHandler, services.ProjectService),
		ServiceHandler: handlers.NewServiceHandler(baseHandler, services.OfferingService),
		UploadHandler:  handlers.NewUploadHandler(baseHandler, services.UploadService, cfg.Upload.MaxSize),
		HealthHandler:  handlers.NewHealthHandler(baseHandler),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	// своя registry: роутер можно собрать несколько раз в одном процессе
	p := ginprom.New(
		ginprom.Engine(router),
		ginprom.Registry(prometheus.NewRegistry()),
		ginprom.Subsystem("gin"),
		ginprom.Path("/metrics"),
		ginprom.Ignore("/docs/*any"),
	)
	router.Use(p.Instrument())

	router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// corsConfig: "*" или пустой список - любой Origin, но без credentials
func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Content-Type", "Authorization", "X-Requested-With", "X-Request-ID", "Origin", "Accept"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func jwtSecret(cfg *config.Config) (string, error) {
	if cfg.JWT.Secret != "" {
		return cfg.JWT.Secret, nil
	}
	if cfg.IsProduction() {
		return "", errors.New("JWT_SECRET must be set in production")
	}
	logger.Warn("JWT_SECRET is not set, using an insecure development secret")
	return devJWTSecret, nil
}
