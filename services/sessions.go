package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"hobbynet/config"

	"github.com/go-redis/redis/v8"
)

const sessionKeyPrefix = "session:"

func sessionTTL() time.Duration {
	if config.AppConfig != nil && config.AppConfig.Session.TTLHours > 0 {
		return time.Duration(config.AppConfig.Session.TTLHours) * time.Hour
	}
	return 24 * time.Hour
}

// CreateSession stores a fresh opaque token -> user id mapping in Redis.
func CreateSession(ctx context.Context, userID int64) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	token := hex.EncodeToString(tokenBytes)

	err := RedisClient.Set(ctx, sessionKeyPrefix+token, userID, sessionTTL()).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}
	return token, nil
}

// GetSession resolves a token to a user id; 0 means missing or expired.
func GetSession(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	val, err := RedisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func DeleteSession(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return RedisClient.Del(ctx, sessionKeyPrefix+token).Err()
}

// RotateSession replaces a token after a credential change so the acting
// session stays valid while anything bound to the old token dies.
func RotateSession(ctx context.Context, oldToken string, userID int64) (string, error) {
	if err := DeleteSession(ctx, oldToken); err != nil {
		return "", err
	}
	return CreateSession(ctx, userID)
}
