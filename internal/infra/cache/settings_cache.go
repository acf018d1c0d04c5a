package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xavierca1/ligue-leads/internal/entity"
)

const DefaultSettingsTTL = 5 * time.Minute

var errMiss = errors.New("cache miss")

type store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type redisStore struct {
	rdb *redis.Client
}

func (s redisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errMiss
	}
	return v, err
}

func (s redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

// NewRedisClient parses a redis:// URL. An empty URL returns a nil client.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	if url == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// CachedSettingsRepository is a read-through cache over team calendar
// settings. Cache failures fall through to the wrapped repository.
type CachedSettingsRepository struct {
	next   entity.SettingsRepositoryInterface
	store  store
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSettingsRepository returns next unchanged when rdb is nil.
func NewCachedSettingsRepository(next entity.SettingsRepositoryInterface, rdb *redis.Client, ttl time.Duration, logger *zap.Logger) entity.SettingsRepositoryInterface {
	if rdb == nil {
		return next
	}
	return newCached(next, redisStore{rdb: rdb}, ttl, logger)
}

func newCached(next entity.SettingsRepositoryInterface, s store, ttl time.Duration, logger *zap.Logger) *CachedSettingsRepository {
	if ttl <= 0 {
		ttl = DefaultSettingsTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSettingsRepository{next: next, store: s, ttl: ttl, logger: logger}
}

func (c *CachedSettingsRepository) GetCalendarSettings(ctx context.Context, teamID string) (entity.CalendarSettings, error) {
	key := "leads:settings:calendar:" + teamID

	raw, err := c.store.Get(ctx, key)
	if err == nil {
		var settings entity.CalendarSettings
		if err := json.Unmarshal([]byte(raw), &settings); err == nil {
			return settings, nil
		}
	} else if !errors.Is(err, errMiss) {
		c.logger.Warn("settings cache read failed", zap.String("team_id", teamID), zap.Error(err))
	}

	settings, err := c.next.GetCalendarSettings(ctx, teamID)
	if err != nil {
		return entity.CalendarSettings{}, err
	}

	if b, err := json.Marshal(settings); err == nil {
		if err := c.store.Set(ctx, key, string(b), c.ttl); err != nil {
			c.logger.Warn("settings cache write failed", zap.String("team_id", teamID), zap.Error(err))
		}
	}
	return settings, nil
}
