// Package cache contiene el acceso a Redis: hoy, el límite de intentos de login por IP.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "auditoria:ratelimit:"

// NewRedisClient abre la conexión a partir de una URL redis:// y verifica con PING.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis: URL vacía")
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: parse URL: %w", err)
	}

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// RateLimiter ventana fija: como máximo Limit eventos por clave cada Window.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

// NewRateLimiter construye el limitador. limit <= 0 deja pasar todo.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{rdb: rdb, limit: int64(limit), window: window}
}

// Allow registra un evento para key e informa si sigue dentro del límite.
func (l *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.limit <= 0 {
		return true, nil
	}
	k := windowKey(key, l.window, time.Now())

	var incr *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("redis: rate limit %s: %w", key, err)
	}
	return incr.Val() <= l.limit, nil
}

// windowKey agrupa los eventos de key en la ventana que contiene now.
func windowKey(key string, window time.Duration, now time.Time) string {
	if window <= 0 {
		window = time.Minute
	}
	return fmt.Sprintf("%s%s:%d", keyPrefix, key, now.Unix()/int64(window.Seconds()))
}
