package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
)

// DefaultMaxEntries - предел записей, если конфигурация не задала свой
const DefaultMaxEntries = 1000

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero - без срока
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// MemoryCache - кеш внутри процесса со строгим TTL и ограничением числа записей.
// Просроченные записи вычищаются при записи; если места нет, вытесняется запись,
// которая истекает раньше всех.
type MemoryCache struct {
	mu         sync.Mutex
	entries    map[string]memoryEntry
	maxEntries int
	now        func() time.Time
	logger     *zap.Logger
}

var _ repository.CacheRepository = (*MemoryCache)(nil)

func NewMemoryCache(maxEntries int, logger *zap.Logger) *MemoryCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryCache{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
		now:        time.Now,
		logger:     logger,
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, nil
	}
	if entry.expired(c.now()) {
		delete(c.entries, key)
		return nil, nil
	}

	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.sweepLocked(now)
		if len(c.entries) >= c.maxEntries {
			c.evictLocked()
		}
	}

	entry := memoryEntry{value: make([]byte, len(value))}
	copy(entry.value, value)
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}
	c.entries[key] = entry
	return nil
}

func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

func (c *MemoryCache) DeletePrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	deleted := 0
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
			deleted++
		}
	}

	c.logger.Debug("Cache prefix deleted", zap.String("prefix", prefix), zap.Int("keys", deleted))
	return nil
}

func (c *MemoryCache) GetStats(ctx context.Context) (*domain.Statistics, error) {
	data, err := c.Get(ctx, StatsKey)
	if err != nil {
		return nil, err
	}
	return decodeStats(data)
}

func (c *MemoryCache) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	return c.Set(ctx, StatsKey, data, ttl)
}

// Len - число записей, включая еще не вычищенные просроченные
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) sweepLocked(now time.Time) {
	for key, entry := range c.entries {
		if entry.expired(now) {
			delete(c.entries, key)
		}
	}
}

// evictLocked вытесняет запись с ближайшим сроком; бессрочные - в последнюю очередь
func (c *MemoryCache) evictLocked() {
	var (
		victim    string
		victimExp time.Time
		found     bool
	)
	for key, entry := range c.entries {
		if !found {
			victim, victimExp, found = key, entry.expiresAt, true
			continue
		}
		if expiresEarlier(entry.expiresAt, victimExp) {
			victim, victimExp = key, entry.expiresAt
		}
	}
	if found {
		delete(c.entries, victim)
		c.logger.Debug("Cache entry evicted", zap.String("key", victim))
	}
}

func expiresEarlier(a, b time.Time) bool {
	switch {
	case a.IsZero():
		return false
	case b.IsZero():
		return true
	default:
		return a.Before(b)
	}
}
