package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"courier/marcas/common/model"
	"courier/marcas/internal/app/infra/mq/lmstfy"
	"courier/marcas/internal/app/pkg/logger"
)

// JobSource 队列拉取与确认（lmstfy.Client 实现）
type JobSource interface {
	Consume(ctx context.Context, queue string, timeout, ttr uint32) (*lmstfy.Message, error)
	Ack(ctx context.Context, queue, jobID string) error
}

// AuditHandler 审计消息处理（svaudit.AuditService 实现）
type AuditHandler interface {
	HandleBatchAudit(ctx context.Context, audit *model.MarkBatchAudit) error
}

// AuditConsumer 审计消费者
// 职责：
// 1. 从 lmstfy 队列消费批次审计消息
// 2. 解析消息并交给 AuditHandler 落账
// 3. 确认消息（ACK）
type AuditConsumer struct {
	source  JobSource
	handler AuditHandler
	queue   string
	logger  logger.Logger

	timeout      uint32 // 拉取消息超时（秒）
	ttr          uint32 // Time-To-Run（秒）
	pollInterval time.Duration
}

// Config 消费者配置
type Config struct {
	QueueName    string
	Timeout      uint32
	TTR          uint32
	PollInterval time.Duration
}

// NewAuditConsumer 创建审计消费者
func NewAuditConsumer(source JobSource, handler AuditHandler, config *Config, logger logger.Logger) *AuditConsumer {
	return &AuditConsumer{
		source:       source,
		handler:      handler,
		queue:        config.QueueName,
		timeout:      config.Timeout,
		ttr:          config.TTR,
		pollInterval: config.PollInterval,
		logger:       logger,
	}
}

// Start 启动消费循环，ctx 取消后返回
func (c *AuditConsumer) Start(ctx context.Context) error {
	c.logger.Infof(ctx, "[AuditConsumer] started: queue=%s timeout=%ds ttr=%ds", c.queue, c.timeout, c.ttr)

	for {
		select {
		case <-ctx.Done():
			c.logger.Infof(ctx, "[AuditConsumer] stopped")
			return ctx.Err()
		default:
		}

		if err := c.consumeOne(ctx); err != nil {
			c.logger.Errorf(ctx, "[AuditConsumer] consume failed: %v", err)
			select {
			case <-ctx.Done():
			case <-time.After(c.pollInterval):
			}
		}
	}
}

// consumeOne 消费一条消息
func (c *AuditConsumer) consumeOne(ctx context.Context) error {
	msg, err := c.source.Consume(ctx, c.queue, c.timeout, c.ttr)
	if err != nil {
		return fmt.Errorf("consume message failed: %w", err)
	}
	if msg == nil {
		return nil
	}

	audit, err := parseMessage(msg.Data)
	if err != nil {
		c.logger.Errorf(ctx, "[AuditConsumer] drop unparsable job %s: %v", msg.JobID, err)
		// 解析失败直接 ACK，避免反复投递
		_ = c.source.Ack(ctx, c.queue, msg.JobID)
		return err
	}

	if err := c.handler.HandleBatchAudit(ctx, audit); err != nil {
		// 处理失败不 ACK，由 lmstfy TTR 机制重投
		return fmt.Errorf("handle batch %s (job %s) failed: %w", audit.BatchID, msg.JobID, err)
	}

	if err := c.source.Ack(ctx, c.queue, msg.JobID); err != nil {
		return fmt.Errorf("ack job %s failed: %w", msg.JobID, err)
	}

	c.logger.Infof(ctx, "[AuditConsumer] job %s processed: batch=%s", msg.JobID, audit.BatchID)
	return nil
}

// parseMessage 解析并校验审计消息
func parseMessage(data json.RawMessage) (*model.MarkBatchAudit, error) {
	var audit model.MarkBatchAudit
	if err := json.Unmarshal(data, &audit); err != nil {
		return nil, fmt.Errorf("unmarshal audit failed: %w", err)
	}

	if audit.BatchID == "" {
		return nil, errors.New("batch_id is required")
	}
	if audit.Kind != model.AuditKindMark && audit.Kind != model.AuditKindChange {
		return nil, fmt.Errorf("unknown kind %q", audit.Kind)
	}
	return &audit, nil
}
