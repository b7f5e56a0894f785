package app

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	timeFormat = "2006-01-02 15:04:05"
	keyPrefix  = "sk-kursbord-"
)

type APIKeyInfo struct {
	Key             string `json:"key"`
	RequestCount    int    `json:"request_count"`
	LastRequestDttm string `json:"last_request_dttm_utc"`
	CreatedDttm     string `json:"created_dttm_utc"`
}

// KeyManager provisions per-client API keys in Redis for the Redis auth
// mode. The server only reads these; cmd/apikey writes them.
type KeyManager struct {
	redis       *redis.Client
	keyTemplate string
}

func NewKeyManager(config *Config) (*KeyManager, error) {
	if config.Auth.RedisURL == "" {
		return nil, fmt.Errorf("auth.redis_url is not configured")
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	keyTemplate := config.Auth.KeyTemplate
	if keyTemplate == "" {
		keyTemplate = defaultKeyTemplate
	}

	return &KeyManager{redis: client, keyTemplate: keyTemplate}, nil
}

func (m *KeyManager) Close() error {
	return m.redis.Close()
}

func generateKey() (string, error) {
	randomBytes := make([]byte, 12)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	return keyPrefix + hex.EncodeToString(randomBytes), nil
}

// FetchOrCreateKey returns the client's API key, minting one on first
// request. Reports whether the key is newly created.
func (m *KeyManager) FetchOrCreateKey(ctx context.Context, email string) (*APIKeyInfo, bool, error) {
	redisKey := strings.NewReplacer("{email}", email).Replace(m.keyTemplate)

	key, err := m.redis.HGet(ctx, redisKey, "key").Result()
	if err != nil && err != redis.Nil {
		return nil, false, fmt.Errorf("failed to check key: %w", err)
	}

	now := time.Now().UTC()
	isNewKey := false

	if err == redis.Nil {
		key, err = generateKey()
		if err != nil {
			return nil, false, err
		}

		pipe := m.redis.Pipeline()
		pipe.HSet(ctx, redisKey, map[string]interface{}{
			"key":                   key,
			"request_count":         1,
			"last_request_dttm_utc": now.Format(timeFormat),
			"created_dttm_utc":      now.Format(timeFormat),
		})

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to create key: %w", err)
		}

		isNewKey = true
	} else {
		pipe := m.redis.Pipeline()
		pipe.HIncrBy(ctx, redisKey, "request_count", 1)
		pipe.HSet(ctx, redisKey, "last_request_dttm_utc", now.Format(timeFormat))

		if _, err := pipe.Exec(ctx); err != nil {
			return nil, false, fmt.Errorf("failed to update key stats: %w", err)
		}
	}

	values, err := m.redis.HGetAll(ctx, redisKey).Result()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read key info: %w", err)
	}

	count, _ := strconv.Atoi(values["request_count"])
	info := &APIKeyInfo{
		Key:             values["key"],
		RequestCount:    count,
		LastRequestDttm: values["last_request_dttm_utc"],
		CreatedDttm:     values["created_dttm_utc"],
	}

	return info, isNewKey, nil
}
