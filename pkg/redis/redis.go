package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/michaelos02/mroFormLimiter/config"
)

// Client Redis 客户端封装
// 用于提交限流；policy.settings_store=redis 时同时作为截止策略设置存储
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient 创建 Redis 连接并执行 Ping 健康检查
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis 连接失败: %w", err)
	}

	logger.Info("Redis 连接成功", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── 截止策略设置（Hash） ──

const settingsKey = "closing:settings"

// GetAll 读取全部设置字段，键不存在时返回空 map
func (c *Client) GetAll(ctx context.Context) (map[string]string, error) {
	values, err := c.rdb.HGetAll(ctx, settingsKey).Result()
	if err != nil {
		return nil, err
	}
	return values, nil
}

// SetAll 整体覆盖设置记录（DEL + HSET 在同一事务中执行）
func (c *Client) SetAll(ctx context.Context, values map[string]string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, settingsKey)
		if len(values) > 0 {
			fields := make(map[string]interface{}, len(values))
			for k, v := range values {
				fields[k] = v
			}
			pipe.HSet(ctx, settingsKey, fields)
		}
		return nil
	})
	return err
}

// ── 滑动窗口限流 ──

// CheckRateLimit 基于 ZSET 的滑动窗口计数，返回本次请求是否放行
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window).UnixNano()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now.UnixNano()), Member: uuid.New().String()})
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	return count.Val() < int64(limit), nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
