package lmstfy

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bitleak/lmstfy/client"
)

const (
	defaultTTL   uint32 = 3600 // 消息存活时间（秒）
	defaultTries uint16 = 3
)

// Client Lmstfy 客户端封装
type Client struct {
	cli       *client.LmstfyClient
	namespace string
}

// NewClient 创建 Lmstfy 客户端
func NewClient(host string, port int, namespace, token string) *Client {
	return &Client{
		cli:       client.NewLmstfyClient(host, port, namespace, token),
		namespace: namespace,
	}
}

// Message 队列消息
type Message struct {
	JobID string
	Queue string
	Data  json.RawMessage
}

// Publish 序列化后发布到队列
func (c *Client) Publish(ctx context.Context, queue string, data interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal job failed: %w", err)
	}

	if _, apiErr := c.cli.Publish(queue, payload, defaultTTL, defaultTries, 0); apiErr != nil {
		return fmt.Errorf("lmstfy publish failed: %w", apiErr)
	}
	return nil
}

// Consume 从队列拉取一条消息，超时未拉到返回 (nil, nil)
// timeout: 长轮询等待时间（秒），ttr: 消息处理超时时间（秒）
func (c *Client) Consume(ctx context.Context, queue string, timeout, ttr uint32) (*Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	job, apiErr := c.cli.Consume(queue, ttr, timeout)
	if apiErr != nil {
		return nil, fmt.Errorf("lmstfy consume failed: %w", apiErr)
	}
	if job == nil {
		return nil, nil
	}

	return &Message{
		JobID: job.ID,
		Queue: job.Queue,
		Data:  json.RawMessage(job.Data),
	}, nil
}

// Ack 确认消息已处理
func (c *Client) Ack(ctx context.Context, queue, jobID string) error {
	if apiErr := c.cli.Ack(queue, jobID); apiErr != nil {
		return fmt.Errorf("lmstfy ack failed: %w", apiErr)
	}
	return nil
}
