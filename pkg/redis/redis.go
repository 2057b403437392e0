package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/rhazelina/TA-12-sub000/config"
)

// Client Redis 客户端封装
// 用于 Token 黑名单与写接口限流
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

// ── Token 黑名单 ──

// 黑名单键由统一认证服务在注销时写入，本服务只读
const blacklistPrefix = "pkl:token:blacklist:"

// IsBlacklisted 检查 JWT ID 是否在黑名单中
func (c *Client) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := c.rdb.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── 限流 ──

const rateLimitPrefix = "pkl:"

// CheckRateLimit 滑动窗口限流
// 以毫秒时间戳为 score 写入 ZSET，先剔除窗口外成员再计数；超限时撤回本次写入
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 {
		return true, nil
	}
	key = rateLimitPrefix + key
	now := time.Now().UnixMilli()
	min := now - window.Milliseconds()
	member := strconv.FormatInt(now, 10) + "-" + uuid.NewString()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(min, 10))
	pipe.ZAdd(ctx, key, goredis.Z{Score: float64(now), Member: member})
	card := pipe.ZCard(ctx, key)
	pipe.PExpire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if card.Val() > int64(limit) {
		if err := c.rdb.ZRem(ctx, key, member).Err(); err != nil {
			c.logger.Warn("撤回限流计数失败", zap.String("key", key), zap.Error(err))
		}
		return false, nil
	}
	return true, nil
}

// Close 关闭 Redis 连接
func (c *Client) Close() error {
	return c.rdb.Close()
}
