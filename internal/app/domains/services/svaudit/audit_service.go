package svaudit

import (
	"context"
	"encoding/json"
	"fmt"

	"courier/marcas/common/model"
	"courier/marcas/internal/app/domains/modules/mdaudit"
	"courier/marcas/internal/app/pkg/logger"
)

// Notifier 批次通知发布能力（redis.PubSubClient 实现）
type Notifier interface {
	BatchChannel(batchID string) string
	Publish(ctx context.Context, channel string, message string) error
}

// AuditService 审计消息处理服务
// 职责：
// 1. 将批次成功条目写入本地台账
// 2. 发送 Redis PubSub 批次完成通知
type AuditService struct {
	auditModule *mdaudit.AuditModule
	notifier    Notifier
	logger      logger.Logger
}

// NewAuditService 创建审计服务实例
func NewAuditService(auditModule *mdaudit.AuditModule, notifier Notifier, logger logger.Logger) *AuditService {
	return &AuditService{
		auditModule: auditModule,
		notifier:    notifier,
		logger:      logger,
	}
}

// HandleBatchAudit 处理一条审计消息
// 返回 error 表示处理失败（需要重试）
func (s *AuditService) HandleBatchAudit(ctx context.Context, audit *model.MarkBatchAudit) error {
	ctx = logger.WithRequestID(ctx, audit.RequestID)
	ctx = logger.WithBatchID(ctx, audit.BatchID)

	s.logger.Infof(ctx, "[AuditService] processing %s batch: succeeded=%d errored=%d", audit.Kind, audit.Succeeded, audit.Errored)

	recorded, err := s.auditModule.Record(ctx, audit)
	if err != nil {
		s.logger.Errorf(ctx, "[AuditService] record ledger failed: %v", err)
		return err
	}

	// 台账已写入，通知失败只记录日志
	if err := s.publishNotification(ctx, audit, recorded); err != nil {
		s.logger.Warnf(ctx, "[AuditService] publish notification failed: %v", err)
	}

	return nil
}

func (s *AuditService) publishNotification(ctx context.Context, audit *model.MarkBatchAudit, recorded int) error {
	if s.notifier == nil {
		return nil
	}

	payload, err := json.Marshal(&model.MarkBatchNotification{
		BatchID:   audit.BatchID,
		Kind:      audit.Kind,
		Recorded:  recorded,
		Succeeded: audit.Succeeded,
		Errored:   audit.Errored,
	})
	if err != nil {
		return fmt.Errorf("marshal notification failed: %w", err)
	}

	channel := s.notifier.BatchChannel(audit.BatchID)
	if err := s.notifier.Publish(ctx, channel, string(payload)); err != nil {
		return fmt.Errorf("publish to %s failed: %w", channel, err)
	}
	s.logger.Debugf(ctx, "[AuditService] notification sent to %s", channel)
	return nil
}
