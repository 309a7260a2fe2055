package deduplication

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"eventguard/logging"
	"eventguard/types"

	"github.com/redis/go-redis/v9"
)

// BloomConfig configures RedisBloom connection and key
type BloomConfig struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Key      string // redis key for bloom filter
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of items)
	Capacity int
	// ErrorRate sets the desired false positive probability (e.g. 0.001)
	ErrorRate float64
	// If true, BF.RESERVE NONSCALING flag will be used
	NonScaling bool
}

// DefaultBloomConfig returns the settings used when nothing is configured
func DefaultBloomConfig() BloomConfig {
	return BloomConfig{
		Addr:      "localhost:6379",
		Key:       "events:seen",
		TTL:       7 * 24 * time.Hour,
		Capacity:  100000,
		ErrorRate: 0.001,
	}
}

// RedisBloom remembers event fingerprints across runs using RedisBloom commands.
// It is probabilistic: Seen may report false positives, never false negatives
// within the TTL window.
type RedisBloom struct {
	client bloomClient
	key    string
	ttl    time.Duration
	closer func() error
}

// NewRedisBloom creates a RedisBloom wrapper and verifies connectivity
func NewRedisBloom(ctx context.Context, cfg BloomConfig) (*RedisBloom, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	rb := newRedisBloom(client, cfg)
	rb.closer = client.Close
	rb.reserve(pingCtx, cfg)
	return rb, nil
}

// bloomClient is the subset of *redis.Client the filter needs
type bloomClient interface {
	Do(ctx context.Context, args ...interface{}) *redis.Cmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

func newRedisBloom(client bloomClient, cfg BloomConfig) *RedisBloom {
	return &RedisBloom{client: client, key: cfg.Key, ttl: cfg.TTL}
}

// reserve creates the filter with the configured capacity if the key is new.
// Failure is not fatal; BF.ADD auto-creates a filter with module defaults.
func (r *RedisBloom) reserve(ctx context.Context, cfg BloomConfig) {
	exists, err := r.client.Exists(ctx, cfg.Key).Result()
	if err != nil || exists != 0 {
		return
	}

	// BF.RESERVE <key> <error_rate> <capacity> [NONSCALING]
	args := []interface{}{"BF.RESERVE", cfg.Key, strconv.FormatFloat(cfg.ErrorRate, 'f', -1, 64), cfg.Capacity}
	if cfg.NonScaling {
		args = append(args, "NONSCALING")
	}
	if err := r.client.Do(ctx, args...).Err(); err != nil {
		logging.Warn("BF.RESERVE failed, falling back to auto-created filter", "key", cfg.Key, "err", err)
	}
}

// Close closes the underlying Redis client
func (r *RedisBloom) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer()
}

// Seen reports whether the fingerprint is probably in the filter (BF.EXISTS)
func (r *RedisBloom) Seen(ctx context.Context, fingerprint string) (bool, error) {
	res, err := r.client.Do(ctx, "BF.EXISTS", r.key, fingerprint).Result()
	if err != nil {
		return false, fmt.Errorf("BF.EXISTS %s: %w", r.key, err)
	}
	return truthy(res)
}

// Mark inserts the fingerprint (BF.ADD) and slides the key's TTL forward
func (r *RedisBloom) Mark(ctx context.Context, fingerprint string) error {
	if err := r.client.Do(ctx, "BF.ADD", r.key, fingerprint).Err(); err != nil {
		return fmt.Errorf("BF.ADD %s: %w", r.key, err)
	}

	// Sliding window: the filter stays alive for ttl after the latest insertion.
	if r.ttl > 0 {
		if err := r.client.Expire(ctx, r.key, r.ttl).Err(); err != nil {
			return fmt.Errorf("EXPIRE %s: %w", r.key, err)
		}
	}
	return nil
}

func truthy(res interface{}) (bool, error) {
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case bool:
		return v, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Fingerprint identifies an event across runs: sha256(canonicalURL|eventKey) in hex
func Fingerprint(event types.EventRecord) string {
	combined := CanonicalizeURL(event.SourceURL) + "|" + GenerateEventKey(event).Key
	h := sha256.Sum256([]byte(combined))
	return hex.EncodeToString(h[:])
}
