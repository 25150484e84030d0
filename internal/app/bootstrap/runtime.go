package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/luxe-salon/internal/booking"
	"github.com/wolfman30/luxe-salon/internal/catalog"
	appconfig "github.com/wolfman30/luxe-salon/internal/config"
	"github.com/wolfman30/luxe-salon/internal/schedule"
	"github.com/wolfman30/luxe-salon/pkg/logging"
)

// Session store backends accepted by SESSION_STORE.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

// BuildSessionStore picks the wizard session backend. The in-memory store is
// returned as its concrete type too so the caller can run its sweeper.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (booking.SessionStore, *booking.InMemorySessionStore, error) {
	if cfg == nil {
		return nil, nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionStore {
	case "", StoreMemory:
		mem := booking.NewInMemorySessionStore(cfg.SessionTTL)
		logger.Info("session store ready", "backend", StoreMemory, "ttl", cfg.SessionTTL.String())
		return mem, mem, nil
	case StoreRedis:
		client := BuildRedisClient(ctx, cfg, logger, true)
		if client == nil {
			return nil, nil, fmt.Errorf("bootstrap: redis session store unavailable at %s", cfg.RedisAddr)
		}
		logger.Info("session store ready", "backend", StoreRedis, "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
		return booking.NewRedisSessionStore(client, cfg.SessionTTL), nil, nil
	default:
		return nil, nil, fmt.Errorf("bootstrap: unknown session store %q", cfg.SessionStore)
	}
}

// BuildSalon returns the salon identity shown on confirmations and emails.
func BuildSalon(cfg *appconfig.Config) catalog.Salon {
	salon := catalog.DefaultSalon()
	if cfg == nil {
		return salon
	}
	if v := strings.TrimSpace(cfg.SalonName); v != "" {
		salon.Name = v
	}
	if v := strings.TrimSpace(cfg.SalonPhone); v != "" {
		salon.Phone = v
	}
	if v := strings.TrimSpace(cfg.SalonEmail); v != "" {
		salon.Email = v
	}
	if v := strings.TrimSpace(cfg.SalonAddress); v != "" {
		salon.Address = v
	}
	return salon
}

// BuildScheduleRules loads the salon timezone and returns the booking calendar.
func BuildScheduleRules(cfg *appconfig.Config) (schedule.Rules, error) {
	name := "UTC"
	if cfg != nil && strings.TrimSpace(cfg.SalonTimezone) != "" {
		name = strings.TrimSpace(cfg.SalonTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return schedule.Rules{}, fmt.Errorf("bootstrap: load salon timezone %q: %w", name, err)
	}
	return schedule.DefaultRules(loc), nil
}
