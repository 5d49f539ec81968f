package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/talkbase/talkbase-backend/internal/identity"
	"github.com/talkbase/talkbase-backend/internal/platform/envutil"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

// DedupeCache holds the most recent duplicate-detection result per account so
// repeated dashboard loads do not rescan the whole contact table. Entries are
// invalidated whenever contacts change (merge, dismiss, import, CRUD).
type DedupeCache interface {
	Get(ctx context.Context, accountID uuid.UUID) ([]identity.DuplicateSet, bool)
	Set(ctx context.Context, accountID uuid.UUID, sets []identity.DuplicateSet) error
	Invalidate(ctx context.Context, accountID uuid.UUID) error
	Close() error
}

type dedupeCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewDedupeCache(log *logger.Logger) (DedupeCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttlSec := envutil.GetInt("DEDUPE_CACHE_TTL_SECONDS", 300, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &dedupeCache{
		log: log.With("client", "DedupeCache"),
		rdb: rdb,
		ttl: time.Duration(ttlSec) * time.Second,
	}, nil
}

func (dc *dedupeCache) key(accountID uuid.UUID) string {
	return "dedupe:sets:" + accountID.String()
}

func (dc *dedupeCache) Get(ctx context.Context, accountID uuid.UUID) ([]identity.DuplicateSet, bool) {
	raw, err := dc.rdb.Get(ctx, dc.key(accountID)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			dc.log.Warn("Dedupe cache read failed", "error", err)
		}
		return nil, false
	}
	var sets []identity.DuplicateSet
	if err := json.Unmarshal(raw, &sets); err != nil {
		dc.log.Warn("Dedupe cache entry corrupt, dropping", "error", err)
		_ = dc.rdb.Del(ctx, dc.key(accountID)).Err()
		return nil, false
	}
	return sets, true
}

func (dc *dedupeCache) Set(ctx context.Context, accountID uuid.UUID, sets []identity.DuplicateSet) error {
	raw, err := json.Marshal(sets)
	if err != nil {
		return fmt.Errorf("marshal duplicate sets: %w", err)
	}
	return dc.rdb.Set(ctx, dc.key(accountID), raw, dc.ttl).Err()
}

func (dc *dedupeCache) Invalidate(ctx context.Context, accountID uuid.UUID) error {
	return dc.rdb.Del(ctx, dc.key(accountID)).Err()
}

func (dc *dedupeCache) Close() error {
	return dc.rdb.Close()
}
