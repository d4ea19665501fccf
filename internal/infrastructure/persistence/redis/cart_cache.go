package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartCache 购物车角标缓存
// 设计说明：
// 1. Cache-Aside模式：未命中回源数据库并回填
// 2. 只缓存数量角标（页面头部高频展示），购物车明细不缓存
// 3. 写路径（加购/移除/结账）直接删Key，下次读取回填
// 4. 缓存故障降级为直查数据库，不阻塞业务
type CartCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartCache 创建购物车缓存
func NewCartCache(client *redis.Client) *CartCache {
	return &CartCache{
		client: client,
		ttl:    30 * time.Minute,
	}
}

func (c *CartCache) key(ownerID uint) string {
	return fmt.Sprintf("cart:badge:%d", ownerID)
}

// GetBadge 读取角标数量
// 返回值：(数量, 是否命中, 错误)
func (c *CartCache) GetBadge(ctx context.Context, ownerID uint) (int, bool, error) {
	val, err := c.client.Get(ctx, c.key(ownerID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		// 脏数据当未命中处理,顺手清掉
		c.client.Del(ctx, c.key(ownerID))
		return 0, false, nil
	}
	return n, true, nil
}

// SetBadge 回填角标数量
func (c *CartCache) SetBadge(ctx context.Context, ownerID uint, count int) error {
	return c.client.Set(ctx, c.key(ownerID), count, c.ttl).Err()
}

// Invalidate 使角标缓存失效（购物车写路径调用）
func (c *CartCache) Invalidate(ctx context.Context, ownerID uint) error {
	return c.client.Del(ctx, c.key(ownerID)).Err()
}
