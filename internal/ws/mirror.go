package ws

import (
	"context"
	"log"
	"strconv"

	"telecare/config"

	"github.com/redis/go-redis/v9"
)

const onlineSetKey = "presence:online"

// Mirror publishes reachability flags to Redis for external consumers
// (ops tooling, other services). The in-memory registry stays authoritative
// for connection handles; the mirror is observational only. All methods are
// nil-safe so callers never need to check whether Redis is configured.
type Mirror struct {
	rdb *redis.Client
}

// NewMirror returns nil when no Redis address is configured.
func NewMirror(cfg *config.RedisConfig) *Mirror {
	if cfg == nil || cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &Mirror{rdb: rdb}
}

// Reset clears the online set. Called on startup since presence is
// rebuilt from scratch on every process restart.
func (m *Mirror) Reset(ctx context.Context) {
	if m == nil {
		return
	}
	if err := m.rdb.Del(ctx, onlineSetKey).Err(); err != nil {
		log.Printf("[presence] mirror reset failed: %v", err)
	}
}

func (m *Mirror) SetOnline(userID uint) {
	if m == nil {
		return
	}
	if err := m.rdb.SAdd(context.Background(), onlineSetKey, strconv.FormatUint(uint64(userID), 10)).Err(); err != nil {
		log.Printf("[presence] mirror online failed for user %d: %v", userID, err)
	}
}

func (m *Mirror) SetOffline(userID uint) {
	if m == nil {
		return
	}
	if err := m.rdb.SRem(context.Background(), onlineSetKey, strconv.FormatUint(uint64(userID), 10)).Err(); err != nil {
		log.Printf("[presence] mirror offline failed for user %d: %v", userID, err)
	}
}

func (m *Mirror) Close() error {
	if m == nil {
		return nil
	}
	return m.rdb.Close()
}
