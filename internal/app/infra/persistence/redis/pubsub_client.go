package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PubSubClient Redis Pub/Sub 客户端封装
type PubSubClient struct {
	rdb    *redis.Client
	prefix string
}

// NewPubSubClient 创建 Pub/Sub 客户端，支持密码认证
// prefix 为批次通知频道前缀，例如 "marcas:batch:"
func NewPubSubClient(ctx context.Context, addr, password string, db int, prefix string) (*PubSubClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s failed: %w", addr, err)
	}

	return &PubSubClient{rdb: rdb, prefix: prefix}, nil
}

// BatchChannel 批次通知频道名
func (c *PubSubClient) BatchChannel(batchID string) string {
	return c.prefix + batchID
}

// Publish 向指定 channel 发布消息
func (c *PubSubClient) Publish(ctx context.Context, channel string, message string) error {
	return c.rdb.Publish(ctx, channel, message).Err()
}

// WaitBatch 订阅批次频道并等待一条通知，超时返回 ctx 错误
func (c *PubSubClient) WaitBatch(ctx context.Context, batchID string, timeout time.Duration) (string, error) {
	sub := c.rdb.Subscribe(ctx, c.BatchChannel(batchID))
	defer sub.Close()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case msg := <-sub.Channel():
		return msg.Payload, nil
	case <-timeoutCtx.Done():
		return "", timeoutCtx.Err()
	}
}

// Close 关闭连接
func (c *PubSubClient) Close() error {
	return c.rdb.Close()
}
