package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/redis/go-redis/v9"
)

// RedisService holds short-lived session state, most importantly the
// server-side quiz answer keys. The correct option index never leaves the
// backend; clients submit indexes and we resolve them here.
type RedisService struct {
	appContext.DefaultService
	redis *redis.Client
}

const REDIS_SVC = "redis_svc"

const answerKeyPrefix = "quiz_key:"

func (svc RedisService) Id() string {
	return REDIS_SVC
}

func (svc *RedisService) Configure(ctx *appContext.Context) error {
	svc.initRedisClient()
	return svc.DefaultService.Configure(ctx)
}

func (svc *RedisService) Start() error {
	if svc.redis != nil {
		ctx := context.Background()
		_, err := svc.redis.Ping(ctx).Result()
		if err != nil {
			return fmt.Errorf("failed to connect to Redis: %w", err)
		}
	}
	return nil
}

func (svc *RedisService) Shutdown() {
	if svc.redis != nil {
		_ = svc.redis.Close()
	}
}

func (svc *RedisService) initRedisClient() {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisPassword := os.Getenv("REDIS_PASSWORD")

	redisDB := 0
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			redisDB = db
		}
	}

	svc.redis = redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       redisDB,
	})
}

func (svc *RedisService) GetClient() *redis.Client {
	return svc.redis
}

// PutAnswerKey stores the word-id -> correct-option-index map for a session.
func (svc *RedisService) PutAnswerKey(ctx context.Context, sessionID string, key map[string]int, ttl time.Duration) error {
	if svc.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}

	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to marshal answer key: %w", err)
	}

	return svc.redis.Set(ctx, answerKeyPrefix+sessionID, data, ttl).Err()
}

func (svc *RedisService) GetAnswerKey(ctx context.Context, sessionID string) (map[string]int, error) {
	if svc.redis == nil {
		return nil, fmt.Errorf("redis client not initialized")
	}

	result, err := svc.redis.Get(ctx, answerKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var key map[string]int
	if err := json.Unmarshal([]byte(result), &key); err != nil {
		return nil, err
	}
	return key, nil
}

func (svc *RedisService) DeleteAnswerKey(ctx context.Context, sessionID string) error {
	if svc.redis == nil {
		return fmt.Errorf("redis client not initialized")
	}
	return svc.redis.Del(ctx, answerKeyPrefix+sessionID).Err()
}
