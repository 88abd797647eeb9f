package detection

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Job - задача для внешнего сервиса детекции дефектов по фотографиям заявки
type Job struct {
	ReportID            uuid.UUID `json:"report_id"`
	ImageURIs           []string  `json:"image_uris"`
	ModelPath           string    `json:"model_path"`
	ConfidenceThreshold float64   `json:"confidence_threshold"`
	RequestedAt         time.Time `json:"requested_at"`
}

// Publisher - интерфейс для передачи задач детекции
type Publisher interface {
	Publish(ctx context.Context, job Job) error
}

// RedisPublisher - реализация Publisher, использующая список Redis как очередь
type RedisPublisher struct {
	redisClient *redis.Client
	queueKey    string
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client, queueKey string) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
		queueKey:    queueKey,
	}
}

// Publish кладет задачу в очередь Redis; потребитель находится вне этого сервиса
func (p *RedisPublisher) Publish(ctx context.Context, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal detection job: %w", err)
	}

	// LPUSH добавляет в голову списка, потребитель забирает с хвоста через BRPOP
	if err := p.redisClient.LPush(ctx, p.queueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish detection job to Redis: %w", err)
	}
	return nil
}

// NoopPublisher используется, когда очередь детекции не настроена
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Job) error {
	return nil
}
