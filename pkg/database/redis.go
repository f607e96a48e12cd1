package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go-recruiter/pkg/config"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type Redis struct {
	Client *redis.Client
	tracer trace.Tracer
}

func NewRedis(ctx context.Context) (*Redis, error) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("Connected to Redis", "addr", opt.Addr)
	return NewRedisFromClient(client), nil
}

// NewRedisFromClient wraps an existing client.
func NewRedisFromClient(client *redis.Client) *Redis {
	r := &Redis{Client: client}
	if config.GetBoolEnv("ENABLE_TELEMETRY", false) {
		r.tracer = otel.Tracer("redis-client")
	}
	return r
}

func (r *Redis) Close() error {
	return r.Client.Close()
}

// span starts a tracing span when telemetry is enabled. The returned finish func
// records err on the span and is always safe to call.
func (r *Redis) span(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	if r.tracer == nil {
		return ctx, func(error) {}
	}
	ctx, span := r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil && err != redis.Nil {
			span.RecordError(err)
		}
		span.End()
	}
}

func (r *Redis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	ctx, finish := r.span(ctx, "redis.set",
		attribute.String("redis.key", key),
		attribute.String("redis.operation", "SET"),
	)
	err := r.Client.Set(ctx, key, value, expiration).Err()
	finish(err)
	return err
}

// SetNX stores value only when key does not exist yet and reports whether it was stored.
func (r *Redis) SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	ctx, finish := r.span(ctx, "redis.setnx",
		attribute.String("redis.key", key),
		attribute.String("redis.operation", "SETNX"),
		attribute.String("redis.expiration", expiration.String()),
	)
	ok, err := r.Client.SetNX(ctx, key, value, expiration).Result()
	finish(err)
	return ok, err
}

func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	ctx, finish := r.span(ctx, "redis.get",
		attribute.String("redis.key", key),
		attribute.String("redis.operation", "GET"),
	)
	result, err := r.Client.Get(ctx, key).Result()
	finish(err)
	return result, err
}

func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	ctx, finish := r.span(ctx, "redis.delete",
		attribute.StringSlice("redis.keys", keys),
		attribute.String("redis.operation", "DEL"),
	)
	err := r.Client.Del(ctx, keys...).Err()
	finish(err)
	return err
}

func (r *Redis) Exists(ctx context.Context, keys ...string) (int64, error) {
	ctx, finish := r.span(ctx, "redis.exists",
		attribute.StringSlice("redis.keys", keys),
		attribute.String("redis.operation", "EXISTS"),
	)
	result, err := r.Client.Exists(ctx, keys...).Result()
	finish(err)
	return result, err
}

func (r *Redis) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return r.Client.Ping(ctx).Err()
}

// SetJSON stores a JSON-serializable object in Redis with expiration
func (r *Redis) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return r.Set(ctx, key, jsonData, expiration)
}

// GetJSON retrieves and unmarshals a JSON object from Redis
func (r *Redis) GetJSON(ctx context.Context, key string, dest interface{}) error {
	jsonData, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(jsonData), dest); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return nil
}

// GetTTL returns the remaining time to live for a key
func (r *Redis) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	ctx, finish := r.span(ctx, "redis.get_ttl",
		attribute.String("redis.key", key),
		attribute.String("redis.operation", "TTL"),
	)
	ttl, err := r.Client.TTL(ctx, key).Result()
	finish(err)
	return ttl, err
}
