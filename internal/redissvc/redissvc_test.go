package redissvc

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestService(t *testing.T) *RedisService {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { rdb.Close() })

	s := NewRedisService(rdb)
	if err := s.Ping(context.Background()); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}
	return s
}

func TestLoginLink_SingleUse(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	jti := uuid.NewString()

	if err := s.Save(ctx, jti, time.Minute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ok, err := s.Consume(ctx, jti)
	if err != nil || !ok {
		t.Fatalf("expected first consume to succeed, got %v %v", ok, err)
	}
	ok, err = s.Consume(ctx, jti)
	if err != nil || ok {
		t.Errorf("expected second consume to fail, got %v %v", ok, err)
	}
}

func TestLoginLink_Expires(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()
	jti := uuid.NewString()

	if err := s.Save(ctx, jti, 50*time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	time.Sleep(150 * time.Millisecond)
	if ok, _ := s.Consume(ctx, jti); ok {
		t.Error("expected expired link to be rejected")
	}
}
