package redis

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	monitorInterval      = 5 * time.Second
	slowCommandThreshold = 100 * time.Millisecond
)

// RedisProvider wraps a go-redis client with a default TTL, JSON helpers and
// a background connectivity monitor.
type RedisProvider struct {
	Client    *redis.Client
	URL       string
	logger    *zap.SugaredLogger
	ttl       time.Duration
	connected atomic.Bool
	cancel    context.CancelFunc
}

// NewRedisProvider accepts either a redis:// URL or a bare host:port address.
// An unreachable server is logged, not returned; commands fail until it comes up.
func NewRedisProvider(redisURL string, logger *zap.Logger, ttl time.Duration) *RedisProvider {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{Addr: redisURL}
	}
	opts.MaxRetries = 3
	opts.MinRetryBackoff = 100 * time.Millisecond
	opts.MaxRetryBackoff = 500 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	p := &RedisProvider{
		Client: redis.NewClient(opts),
		URL:    redisURL,
		logger: logger.Sugar(),
		ttl:    ttl,
		cancel: cancel,
	}
	p.Client.AddHook(&loggerHook{logger: p.logger})

	if err := p.Ping(ctx); err != nil {
		p.logger.Errorw("Redis connection failed at startup", "addr", opts.Addr, "error", err)
	} else {
		p.logger.Infow("Redis connected", "addr", opts.Addr, "db", opts.DB, "default_ttl", ttl.String())
	}

	go p.monitor(ctx)

	return p
}

func (r *RedisProvider) Ping(ctx context.Context) error {
	err := r.Client.Ping(ctx).Err()
	r.connected.Store(err == nil)
	return err
}

// Connected reports the result of the most recent ping.
func (r *RedisProvider) Connected() bool {
	return r.connected.Load()
}

// Set stores value under key. A non-positive ttl falls back to the provider default.
func (r *RedisProvider) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) *redis.StatusCmd {
	if ttl <= 0 {
		ttl = r.ttl
	}
	return r.Client.Set(ctx, key, value, ttl)
}

func (r *RedisProvider) Get(ctx context.Context, key string) *redis.StringCmd {
	return r.Client.Get(ctx, key)
}

func (r *RedisProvider) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	return r.Client.Del(ctx, keys...)
}

func (r *RedisProvider) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.Set(ctx, key, data, ttl).Err()
}

// GetJSON decodes the value under key into dst. A missing key returns false with a nil error.
func (r *RedisProvider) GetJSON(ctx context.Context, key string, dst interface{}) (bool, error) {
	data, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *RedisProvider) Close() error {
	r.cancel()
	return r.Client.Close()
}

func (r *RedisProvider) monitor(ctx context.Context) {
	ticker := time.NewTicker(monitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wasConnected := r.Connected()
			err := r.Ping(ctx)
			switch {
			case err != nil && wasConnected:
				r.logger.Errorw("Redis disconnected", "error", err)
			case err == nil && !wasConnected:
				r.logger.Infow("Redis reconnected", "url", r.URL)
			}
		}
	}
}

type loggerHook struct {
	logger *zap.SugaredLogger
}

func (h *loggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.logger.Errorw("Redis dial failed", "network", network, "addr", addr, "error", err)
		}
		return conn, err
	}
}

func (h *loggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		switch {
		// redis.Nil is a cache miss, not a failure.
		case err != nil && !errors.Is(err, redis.Nil) && cmd.Name() != "ping":
			h.logger.Errorw("Redis command failed", "command", cmd.Name(), "duration_ms", elapsed.Milliseconds(), "error", err)
		case elapsed > slowCommandThreshold:
			h.logger.Warnw("Slow Redis command", "command", cmd.Name(), "duration_ms", elapsed.Milliseconds())
		}
		return err
	}
}

func (h *loggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}
