package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config - структура для хранения конфигурации приложения.
// Создается один раз при старте и дальше передается по указателю, не изменяясь.
type Config struct {
	AppName    string `env:"APP_NAME" envDefault:"JalanGuard API"`
	AppVersion string `env:"APP_VERSION" envDefault:"1.0.0"`
	Debug      bool   `env:"DEBUG" envDefault:"false"`

	DatabaseURL    string `env:"DATABASE_URL"`
	DBMaxConns     int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"migrations"`
	HTTPPort       string `env:"HTTP_PORT" envDefault:"8000"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`

	// Security Config
	SecretKey       string        `env:"SECRET_KEY"`
	Algorithm       string        `env:"ALGORITHM" envDefault:"HS256"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"30"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`

	// CORS
	CORSOrigins []string `env:"CORS_ORIGINS"`

	// File Upload Config
	MaxFileSize       int64    `env:"MAX_FILE_SIZE" envDefault:"10485760"`
	UploadDir         string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" envDefault:"jpg,jpeg,png,webp"`

	// AI Detection Config (используется только при постановке задачи во внешнюю очередь)
	YOLOModelPath       string  `env:"YOLO_MODEL_PATH" envDefault:"models/yolov8n.pt"`
	ConfidenceThreshold float64 `env:"CONFIDENCE_THRESHOLD" envDefault:"0.5"`

	// Redis Config. Пустой адрес отключает очередь детекции
	RedisAddr         string `env:"REDIS_ADDR"`
	RedisPass         string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" envDefault:"0"`
	DetectionQueueKey string `env:"DETECTION_QUEUE_KEY" envDefault:"detection_jobs"`

	// Reports
	StatusUpdateOwnerOnly bool `env:"REPORT_STATUS_OWNER_ONLY" envDefault:"false"`
}

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:5173", "http://localhost:8081"}

// LoadConfig загружает конфигурацию из переменных окружения и .env файла
func LoadConfig() (*Config, error) {
	// Загрузка переменных окружения из .env файла (если есть)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("ошибка загрузки файла .env: %w", err)
	}

	cfg := &Config{
		AppName:               getEnv("APP_NAME", "JalanGuard API"),
		AppVersion:            getEnv("APP_VERSION", "1.0.0"),
		Debug:                 getEnvAsBool("DEBUG", false),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		DBMaxConns:            int32(getEnvAsInt("DB_MAX_CONNS", 10)),
		MigrationsPath:        getEnv("MIGRATIONS_PATH", "migrations"),
		HTTPPort:              getEnv("HTTP_PORT", "8000"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		SecretKey:             os.Getenv("SECRET_KEY"),
		Algorithm:             strings.ToUpper(getEnv("ALGORITHM", "HS256")),
		AccessTokenTTL:        time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		RefreshTokenTTL:       time.Duration(getEnvAsInt("REFRESH_TOKEN_EXPIRE_DAYS", 7)) * 24 * time.Hour,
		CORSOrigins:           getEnvAsList("CORS_ORIGINS", defaultCORSOrigins),
		MaxFileSize:           int64(getEnvAsInt("MAX_FILE_SIZE", 10*1024*1024)),
		UploadDir:             getEnv("UPLOAD_DIR", "uploads"),
		AllowedExtensions:     getEnvAsList("ALLOWED_EXTENSIONS", []string{"jpg", "jpeg", "png", "webp"}),
		YOLOModelPath:         getEnv("YOLO_MODEL_PATH", "models/yolov8n.pt"),
		ConfidenceThreshold:   getEnvAsFloat("CONFIDENCE_THRESHOLD", 0.5),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPass:             os.Getenv("REDIS_PASSWORD"),
		RedisDB:               getEnvAsInt("REDIS_DB", 0),
		DetectionQueueKey:     getEnv("DETECTION_QUEUE_KEY", "detection_jobs"),
		StatusUpdateOwnerOnly: getEnvAsBool("REPORT_STATUS_OWNER_ONLY", false),
	}

	for i, ext := range cfg.AllowedExtensions {
		cfg.AllowedExtensions[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("SECRET_KEY environment variable is required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, fmt.Errorf("token lifetimes must be positive")
	}

	return cfg, nil
}

// IsExtensionAllowed проверяет расширение файла без учета регистра и ведущей точки
func (c *Config) IsExtensionAllowed(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, allowed := range c.AllowedExtensions {
		if allowed == ext {
			return true
		}
	}
	return false
}

// getEnv возвращает значение переменной окружения или значение по умолчанию
func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt возвращает значение переменной окружения как int или значение по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsList разбирает список, разделенный запятыми; пустые элементы отбрасываются
func getEnvAsList(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return append([]string(nil), defaultValue...)
	}
	parts := strings.Split(value, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			items = append(items, item)
		}
	}
	return items
}
