package app

import (
	"github.com/talkbase/talkbase-backend/internal/clients/gcp"
	"github.com/talkbase/talkbase-backend/internal/clients/redis"
	"github.com/talkbase/talkbase-backend/internal/clients/wapi"
	"github.com/talkbase/talkbase-backend/internal/platform/logger"
)

// Clients holds external-system handles. Every client is optional: a missing
// env config degrades the feature it backs instead of failing boot.
type Clients struct {
	GcpBucket   gcp.BucketService
	DedupeCache redis.DedupeCache
	Wapi        wapi.Client
}

func wireClients(log *logger.Logger) Clients {
	log.Info("Wiring clients...")

	bucket, err := gcp.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, avatar storage disabled", "error", err)
	}

	cache, err := redis.NewDedupeCache(log)
	if err != nil {
		log.Warn("Could not init DedupeCache, duplicate detection uncached", "error", err)
	}

	wapiClient, err := wapi.NewFromEnv(log)
	if err != nil {
		log.Warn("Could not init wapi client, inbox imports disabled", "error", err)
	}

	return Clients{
		GcpBucket:   bucket,
		DedupeCache: cache,
		Wapi:        wapiClient,
	}
}
