package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/jam/internal/models"
)

func verifyKey(token string) string {
	return "verify:" + token
}

func revokedKey(jti string) string {
	return "revoked:" + jti
}

// SaveVerificationToken связывает одноразовый токен подтверждения почты с пользователем.
func (c *Cache) SaveVerificationToken(ctx context.Context, token, userUID string, ttl time.Duration) error {
	const op = "cache.SaveVerificationToken"

	if err := c.Db.Set(ctx, verifyKey(token), userUID, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ConsumeVerificationToken возвращает UID владельца токена и удаляет токен.
// Неизвестный или истёкший токен даёт models.ErrInvalidToken.
func (c *Cache) ConsumeVerificationToken(ctx context.Context, token string) (string, error) {
	const op = "cache.ConsumeVerificationToken"

	uid, err := c.Db.GetDel(ctx, verifyKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidToken)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return uid, nil
}

// RevokeToken помечает jti отозванным на оставшееся время жизни токена.
func (c *Cache) RevokeToken(ctx context.Context, jti string, ttl time.Duration) error {
	const op = "cache.RevokeToken"

	if ttl <= 0 {
		return nil
	}
	if err := c.Db.Set(ctx, revokedKey(jti), 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// IsTokenRevoked сообщает, отозван ли токен с данным jti.
func (c *Cache) IsTokenRevoked(ctx context.Context, jti string) (bool, error) {
	const op = "cache.IsTokenRevoked"

	n, err := c.Db.Exists(ctx, revokedKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}
