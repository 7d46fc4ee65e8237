package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abreuwilliam/Desafio/config"
	deliveryHttp "github.com/abreuwilliam/Desafio/internal/delivery/http"
	"github.com/abreuwilliam/Desafio/internal/delivery/http/handler"
	"github.com/abreuwilliam/Desafio/internal/delivery/http/middleware"
	ws "github.com/abreuwilliam/Desafio/internal/delivery/websocket"
	"github.com/abreuwilliam/Desafio/internal/infrastructure/cache"
	"github.com/abreuwilliam/Desafio/internal/infrastructure/database"
	"github.com/abreuwilliam/Desafio/internal/repository"
	"github.com/abreuwilliam/Desafio/internal/service"
	"github.com/abreuwilliam/Desafio/internal/usecase"
	"github.com/abreuwilliam/Desafio/pkg/crypto"
	"github.com/abreuwilliam/Desafio/pkg/jwt"
	"github.com/abreuwilliam/Desafio/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	Broadcaster *service.RedisBroadcaster
	Relay       *ws.Relay
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	setupLogger()

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// The cipher validates the key length up front; a bad key must
	// stop the process before any reading is accepted.
	fieldCipher, err := crypto.NewFieldCipher(cfg.Crypto.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize field cipher: %w", err)
	}

	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, err
	}

	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.initializeServer(cfg, db, redisClient, fieldCipher)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

func (app *App) initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, fieldCipher *crypto.FieldCipher) {
	log := logrus.StandardLogger()

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	recordRepo := repository.NewVitalSignRecordRepository()
	resolver := service.NewIdentityResolver(fieldCipher)

	broadcaster := service.NewRedisBroadcaster(redisClient, log, cfg.Broadcast.QueueSize)
	app.Broadcaster = broadcaster

	hub := ws.NewHub()
	relay := ws.NewRelay(redisClient, hub, log)
	relay.Start()
	app.Relay = relay

	vitalSignUsecase := usecase.NewVitalSignUsecase(db, log, recordRepo, resolver, fieldCipher, broadcaster, cfg.Query)
	authUsecase := usecase.NewAuthUsecase(log, cfg.Auth, jwtService, redisClient)

	vitalSignHandler := handler.NewVitalSignHandler(vitalSignUsecase, customValidator)
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	wsHandler := ws.NewHandler(hub, log)

	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)
	corsMiddleware := middleware.NewCORSMiddleware("")

	router := deliveryHttp.NewRouter(authHandler, vitalSignHandler, wsHandler, authMiddleware, corsMiddleware)
	httpRouter := router.Setup()

	app.Server = &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.App.Port),
		Handler: httpRouter,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Drain pending broadcasts before dropping the Redis connection.
	app.Broadcaster.Stop()
	app.Relay.Stop()

	if err := app.RedisClient.Close(); err != nil {
		logrus.Errorf("Failed to close Redis connection: %v", err)
	}

	if sqlDB, err := app.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("Failed to close database connection: %v", err)
		}
	}

	logrus.Info("Server exited")
}
