package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "showfinder:"
	opTimeout        = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache keeps every entry in two keys regardless of entry count:
//
//   - {prefix}data is a hash of user key to value with per-field expiry
//     (HPEXPIRE, Redis 7.4+ or Valkey 8+).
//   - {prefix}lru is a sorted set of user key to last-access µs timestamp.
//
// Writes and increments run as Lua scripts so the capacity check and eviction
// happen atomically with the write.
type redisCache struct {
	client  *redis.Client
	ttl     time.Duration
	maxSize int
	onEvict EvictCallback
	logger  Logger
	dataKey string
	lruKey  string
}

// KEYS[1] = data hash, KEYS[2] = LRU set
// ARGV[1] = µs timestamp, ARGV[2] = member
var getAndTouch = redis.NewScript(`
local val = redis.call('HGET', KEYS[1], ARGV[2])
if val then
    redis.call('ZADD', KEYS[2], ARGV[1], ARGV[2])
end
return val
`)

// evictScript is shared by the write scripts. It trims the LRU set down to
// maxSize and appends the evicted members to the table named evicted.
const evictScript = `
local size = redis.call('ZCARD', KEYS[2])
while size > maxSize do
    local oldest = redis.call('ZPOPMIN', KEYS[2], 1)
    if #oldest == 0 then break end
    redis.call('HDEL', KEYS[1], oldest[1])
    table.insert(evicted, oldest[1])
    size = size - 1
end
`

// KEYS[1] = data hash, KEYS[2] = LRU set
// ARGV[1] = value, ARGV[2] = µs timestamp, ARGV[3] = member,
// ARGV[4] = maxSize, ARGV[5] = TTL ms
//
// Returns the evicted members.
var setAndEvict = redis.NewScript(`
local member  = ARGV[3]
local maxSize = tonumber(ARGV[4])
local evicted = {}

redis.call('HSET', KEYS[1], member, ARGV[1])
redis.call('HPEXPIRE', KEYS[1], tonumber(ARGV[5]), 'FIELDS', 1, member)
redis.call('ZADD', KEYS[2], ARGV[2], member)
` + evictScript + `
return evicted
`)

// KEYS[1] = data hash, KEYS[2] = LRU set
// ARGV[1] = µs timestamp, ARGV[2] = member, ARGV[3] = maxSize, ARGV[4] = TTL ms
//
// Returns {new value, evicted members...}. The incremented member has the
// newest score so it is never evicted by its own increment.
var incrAndEvict = redis.NewScript(`
local member  = ARGV[2]
local maxSize = tonumber(ARGV[3])
local evicted = {}

local n = redis.call('HINCRBY', KEYS[1], member, 1)
redis.call('HPEXPIRE', KEYS[1], tonumber(ARGV[4]), 'FIELDS', 1, member)
redis.call('ZADD', KEYS[2], ARGV[1], member)
` + evictScript + `
table.insert(evicted, 1, n)
return evicted
`)

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	prefix := cfg.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &redisCache{
		client:  client,
		ttl:     cfg.TTL,
		maxSize: cfg.Size,
		onEvict: cfg.OnEvict,
		logger:  cfg.Logger,
		dataKey: prefix + "data",
		lruKey:  prefix + "lru",
	}, nil
}

func (r *redisCache) keys() []string {
	return []string{r.dataKey, r.lruKey}
}

func (r *redisCache) logError(msg string, err error) {
	if r.logger != nil {
		r.logger.Error(msg, err)
	}
}

func (r *redisCache) limits() (maxSize, ttlMs string) {
	size := r.maxSize
	if size <= 0 {
		size = int(^uint32(0) >> 1)
	}
	ttl := r.ttl
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return strconv.Itoa(size), strconv.FormatInt(ttl.Milliseconds(), 10)
}

func now() string {
	return strconv.FormatInt(time.Now().UnixMicro(), 10)
}

func (r *redisCache) notifyEvicted(keys []string) {
	if r.onEvict == nil {
		return
	}
	for _, key := range keys {
		r.onEvict(key, nil)
	}
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	result, err := getAndTouch.Run(ctx, r.client, r.keys(), now(), key).Text()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logError("redis cache Get failed", err)
		}
		return nil, false
	}
	return []byte(result), true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	maxSize, ttlMs := r.limits()
	evicted, err := setAndEvict.Run(ctx, r.client, r.keys(),
		value, now(), key, maxSize, ttlMs,
	).StringSlice()
	if err != nil {
		r.logError("redis cache Set failed", err)
		return
	}
	r.notifyEvicted(evicted)
}

func (r *redisCache) Incr(key string) (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	maxSize, ttlMs := r.limits()
	reply, err := incrAndEvict.Run(ctx, r.client, r.keys(), now(), key, maxSize, ttlMs).Slice()
	if err != nil {
		return 0, fmt.Errorf("redis cache Incr failed: %w", err)
	}
	if len(reply) == 0 {
		return 0, fmt.Errorf("redis cache Incr: empty reply for %q", key)
	}

	n, ok := reply[0].(int64)
	if !ok || n < 0 {
		return 0, fmt.Errorf("redis cache Incr: unexpected counter %v for %q", reply[0], key)
	}

	evicted := make([]string, 0, len(reply)-1)
	for _, member := range reply[1:] {
		if s, ok := member.(string); ok {
			evicted = append(evicted, s)
		}
	}
	r.notifyEvicted(evicted)
	return uint64(n), nil
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()

	n, err := r.client.HLen(ctx, r.dataKey).Result()
	if err != nil {
		r.logError("redis cache Len failed", err)
		return 0
	}
	return int(n)
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
