package detection

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Тест требует запущенный Redis: TEST_REDIS_ADDR=localhost:6379
func TestRedisPublisher_Publish(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR is not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	defer client.Close()
	require.NoError(t, client.Ping(ctx).Err())

	queueKey := "detection_jobs_test_" + uuid.NewString()
	defer client.Del(ctx, queueKey)

	job := Job{
		ReportID:            uuid.New(),
		ImageURIs:           []string{"a.jpg", "b.jpg"},
		ModelPath:           "models/yolov8n.pt",
		ConfidenceThreshold: 0.5,
		RequestedAt:         time.Now().UTC().Truncate(time.Second),
	}

	publisher := NewRedisPublisher(client, queueKey)
	require.NoError(t, publisher.Publish(ctx, job))

	result, err := client.BRPop(ctx, time.Second, queueKey).Result()
	require.NoError(t, err)
	require.Len(t, result, 2)

	var got Job
	require.NoError(t, json.Unmarshal([]byte(result[1]), &got))
	assert.Equal(t, job.ReportID, got.ReportID)
	assert.Equal(t, job.ImageURIs, got.ImageURIs)
	assert.True(t, job.RequestedAt.Equal(got.RequestedAt))
}

func TestNoopPublisher_Publish(t *testing.T) {
	var publisher Publisher = NoopPublisher{}
	assert.NoError(t, publisher.Publish(context.Background(), Job{ReportID: uuid.New()}))
}
