package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/shrimpsizemoose/trekker/logger"
)

const defaultKeyTemplate = "apikey:{email}"

// Auth checks the API key header on submissions. Two modes: a static
// secret from config, or, when auth.redis_url is set, a per-client key
// looked up in Redis (provisioned with cmd/apikey). With neither
// configured, auth is disabled.
type Auth struct {
	staticKey   string
	redis       *redis.Client
	keyTemplate string
}

func NewAuth(config *Config) (*Auth, error) {
	a := &Auth{staticKey: config.API.Key}

	if config.Auth.RedisURL == "" {
		return a, nil
	}

	opt, err := redis.ParseURL(config.Auth.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	a.redis = client
	a.keyTemplate = config.Auth.KeyTemplate
	if a.keyTemplate == "" {
		a.keyTemplate = defaultKeyTemplate
	}

	return a, nil
}

func (a *Auth) Enabled() bool {
	return a.staticKey != "" || a.redis != nil
}

func (a *Auth) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

// VerifyKey validates the submitted API key for the given client email.
func (a *Auth) VerifyKey(ctx context.Context, email, key string) error {
	if !a.Enabled() {
		return nil
	}

	if key == "" {
		return fmt.Errorf("missing API key")
	}

	if a.redis == nil {
		if key != a.staticKey {
			return fmt.Errorf("invalid API key")
		}
		return nil
	}

	redisKey := strings.NewReplacer("{email}", email).Replace(a.keyTemplate)

	stored, err := a.redis.HGet(ctx, redisKey, "key").Result()
	if err == redis.Nil {
		logger.Debug.Printf("No API key provisioned for %s", redisKey)
		return fmt.Errorf("API key not found")
	}
	if err != nil {
		logger.Debug.Printf("Redis error: %v", err)
		return fmt.Errorf("redis error: %w", err)
	}

	if stored != key {
		logger.Debug.Printf("API key mismatch for %s", email)
		return fmt.Errorf("invalid API key")
	}

	return nil
}
