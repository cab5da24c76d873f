package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"sifter/internal/extract"
	"sifter/internal/support"
)

// PublicMemo is the instance the HTTP handlers share. It stays nil until the
// bootstrap wires it; callers fall back to direct extraction in that case.
var PublicMemo *Memo

type recordSetEntry struct {
	records extract.RecordSet
	expires time.Time
}

// Memo caches record sets per raw input so re-renders of the same text never
// re-run the pipeline. The extraction itself is deterministic, which makes the
// cache purely an optimization: a miss and a hit are indistinguishable to
// callers. An optional redis tier shares rendered output between instances.
type Memo struct {
	ttl          time.Duration
	entries      sync.Map // cache key -> recordSetEntry
	buildGroup   singleflight.Group
	redisClient  *redis.Client
	redisTimeout time.Duration
}

func New(ttl time.Duration, redisClient *redis.Client) *Memo {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Memo{
		ttl:          ttl,
		redisClient:  redisClient,
		redisTimeout: 250 * time.Millisecond,
	}
}

// RecordSet returns the memoized record set for rawText, building it at most
// once per key even under concurrent identical requests. Callers must treat the
// returned set as immutable.
func (memo *Memo) RecordSet(rawText string) extract.RecordSet {
	key := support.HashKey(rawText)
	now := time.Now()

	if cached, ok := memo.entries.Load(key); ok {
		entry := cached.(recordSetEntry)
		if now.Before(entry.expires) {
			return entry.records
		}
	}

	result, _, _ := memo.buildGroup.Do(key, func() (interface{}, error) {
		records := extract.BuildRecordSet(rawText)
		memo.entries.Store(key, recordSetEntry{
			records: records,
			expires: now.Add(memo.ttl),
		})
		return records, nil
	})

	return result.(extract.RecordSet)
}

// Render returns the filtered rendering for rawText, consulting the redis tier
// first when one is configured. Redis being down only costs the shared hit, the
// local derivation always succeeds.
func (memo *Memo) Render(rawText, selectedCountry string, hidePort bool) string {
	redisKey := memo.renderKey(rawText, selectedCountry, hidePort)

	if memo.redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), memo.redisTimeout)
		cached, err := memo.redisClient.Get(ctx, redisKey).Result()
		cancel()
		if err == nil {
			return cached
		}
	}

	output := extract.Render(memo.RecordSet(rawText), selectedCountry, hidePort)

	if memo.redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), memo.redisTimeout)
		_ = memo.redisClient.Set(ctx, redisKey, output, memo.ttl).Err()
		cancel()
	}

	return output
}

func (memo *Memo) renderKey(rawText, selectedCountry string, hidePort bool) string {
	return fmt.Sprintf("sifter:render:%s:%s:%t", support.HashKey(rawText), selectedCountry, hidePort)
}
