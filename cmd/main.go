package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/shenikar/jalanguard/internal/auth"
	"github.com/shenikar/jalanguard/internal/config"
	"github.com/shenikar/jalanguard/internal/detection"
	v1 "github.com/shenikar/jalanguard/internal/handler/http/v1"
	"github.com/shenikar/jalanguard/internal/repository"
	"github.com/shenikar/jalanguard/internal/service"
	"github.com/shenikar/jalanguard/internal/storage"
	"github.com/shenikar/jalanguard/pkg/logger"
	"github.com/shenikar/jalanguard/pkg/postgres"
	redisclient "github.com/shenikar/jalanguard/pkg/redis"
	"github.com/sirupsen/logrus"

	"github.com/shenikar/jalanguard/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title JalanGuard API
// @version 1.0
// @description Road defect reporting backend.
// @host localhost:8000
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func runMigrations(cfg *config.Config, log *logrus.Logger) error {
	log.Info("Running database migrations...")

	migrationURL := cfg.DatabaseURL
	if !strings.HasPrefix(migrationURL, "pgx5://") {
		migrationURL = strings.Replace(migrationURL, "postgres://", "pgx5://", 1)
		migrationURL = strings.Replace(migrationURL, "postgresql://", "pgx5://", 1)
	}

	m, err := migrate.New("file://"+cfg.MigrationsPath, migrationURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Info("Database migrations applied successfully")
	return nil
}

// newDetectionPublisher подключает очередь Redis, если она настроена
func newDetectionPublisher(ctx context.Context, cfg *config.Config, log *logrus.Logger) (detection.Publisher, func()) {
	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR is empty, detection jobs are not published")
		return detection.NoopPublisher{}, func() {}
	}

	redisClient, err := redisclient.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Info("Successfully connected to Redis")
	return detection.NewRedisPublisher(redisClient, cfg.DetectionQueueKey), func() { _ = redisClient.Close() }
}

func main() {
	// Загрузка конфигурации
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	log := logger.New(cfg.LogLevel, cfg.Debug)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Запуск миграций
	if err := runMigrations(cfg, log); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Подключение к PostgreSQL
	dbpool, err := postgres.NewPostgresDB(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer dbpool.Close()
	log.Info("Successfully connected to PostgreSQL")

	// Очередь задач детекции (опционально)
	publisher, closePublisher := newDetectionPublisher(ctx, cfg, log)
	defer closePublisher()

	// Токены и пароли
	credentials, err := auth.NewManager(cfg)
	if err != nil {
		log.Fatalf("Failed to init credentials: %v", err)
	}

	// Хранилище фото
	images, err := storage.NewLocalStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to init upload storage: %v", err)
	}

	// Инициализация репозиториев
	userRepo := repository.NewUserRepository(dbpool)
	reportRepo := repository.NewReportRepository(dbpool)

	// Инициализация сервисов
	services := v1.Services{
		Auth:    service.NewAuthService(userRepo, credentials, log),
		Reports: service.NewReportService(reportRepo, publisher, log, cfg),
		Users:   service.NewUserService(userRepo, log),
	}

	// Инициализация хэндлеров
	handler := v1.NewHandler(services, credentials, images, log, cfg)

	// Настройка Gin роутера
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), v1.RequestLogger(log), v1.CORSMiddleware(cfg))
	router.MaxMultipartMemory = cfg.MaxFileSize + 1<<20

	handler.RegisterSystemRoutes(router)
	handler.RegisterRoutes(router.Group("/api/v1"))
	router.Static(storage.PublicPrefix, images.Dir())

	// Добавление маршрута для Swagger UI
	docs.SwaggerInfo.Version = cfg.AppVersion
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Запуск HTTP-сервера
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Запуск сервера в горутине
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()
	log.Infof("%s %s started on port %s", cfg.AppName, cfg.AppVersion, cfg.HTTPPort)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Received shutdown signal, shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server gracefully stopped")
}
