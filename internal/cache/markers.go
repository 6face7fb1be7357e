package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/jam/internal/models"
)

func sessionKey(userUID string) string {
	return "session:" + userUID
}

// MarkerStore хранит маркеры сессии пользователя в хэше session:<uid>.
type MarkerStore struct {
	cache *Cache
	ttl   time.Duration
}

// NewMarkerStore создает MarkerStore. Хэш живёт ttl после последней записи.
func NewMarkerStore(c *Cache, ttl time.Duration) *MarkerStore {
	return &MarkerStore{cache: c, ttl: ttl}
}

// GetMarker возвращает значение маркера или models.ErrNotFound, если его нет.
func (m *MarkerStore) GetMarker(ctx context.Context, userUID, name string) (string, error) {
	const op = "cache.GetMarker"

	val, err := m.cache.Db.HGet(ctx, sessionKey(userUID), name).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return val, nil
}

// SetMarker записывает маркер и продлевает срок жизни хэша.
func (m *MarkerStore) SetMarker(ctx context.Context, userUID, name, value string) error {
	const op = "cache.SetMarker"

	key := sessionKey(userUID)
	pipe := m.cache.Db.TxPipeline()
	pipe.HSet(ctx, key, name, value)
	if m.ttl > 0 {
		pipe.Expire(ctx, key, m.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteMarker удаляет маркер. Отсутствие маркера не ошибка.
func (m *MarkerStore) DeleteMarker(ctx context.Context, userUID, name string) error {
	const op = "cache.DeleteMarker"

	if err := m.cache.Db.HDel(ctx, sessionKey(userUID), name).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
