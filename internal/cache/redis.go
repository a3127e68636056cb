package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/getcharzp/go-patchsim/similarity"
	"github.com/redis/go-redis/v9"
)

// Redis 以 TTL 方式把网格存入 Redis
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis 通过 redis:// URL 连接并 Ping 校验
//
// # Params:
//
//	ctx: 连接校验的 context
//	url: redis 地址
//	ttl: 缓存过期时间
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	slog.Info("Redis grid cache connected", "address", opts.Addr, "db", opts.DB, "ttl", ttl)
	return NewRedisWithClient(client, ttl), nil
}

// NewRedisWithClient 包装已有的客户端
func NewRedisWithClient(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Get 读取网格，键不存在时视为未命中
func (r *Redis) Get(ctx context.Context, key string) (*similarity.PatchGrid, bool, error) {
	buf, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	grid, err := UnmarshalGrid(buf)
	if err != nil {
		return nil, false, err
	}
	return grid, true, nil
}

// Set 写入网格并设置过期时间
func (r *Redis) Set(ctx context.Context, key string, grid *similarity.PatchGrid) error {
	return r.client.Set(ctx, key, MarshalGrid(grid), r.ttl).Err()
}

// Close 关闭连接
func (r *Redis) Close() error {
	return r.client.Close()
}
