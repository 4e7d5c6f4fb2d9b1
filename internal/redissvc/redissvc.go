package redissvc

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginLinkPrefix = "login_link:"

// RedisService stores single-use login links in Redis.
type RedisService struct {
	rdb *redis.Client
}

func NewRedisService(rdb *redis.Client) *RedisService {
	return &RedisService{rdb: rdb}
}

func (s *RedisService) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisService) Save(ctx context.Context, jti string, ttl time.Duration) error {
	return s.rdb.Set(ctx, loginLinkPrefix+jti, "1", ttl).Err()
}

// Consume deletes the link atomically so concurrent requests cannot both redeem it.
func (s *RedisService) Consume(ctx context.Context, jti string) (bool, error) {
	err := s.rdb.GetDel(ctx, loginLinkPrefix+jti).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
