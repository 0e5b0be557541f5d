package mdaudit

import (
	"context"
	"errors"
	"fmt"

	"courier/marcas/common/model"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/domains/repo/rpmark"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/logger"
)

// JobPublisher 队列发布能力（lmstfy.Client 实现）
type JobPublisher interface {
	Publish(ctx context.Context, queue string, data interface{}) error
}

// AuditModule 批次审计：投递审计消息、写入本地台账、查询标记历史
// apiserver 侧只用到 Publish / History，audit_consumer 侧只用到 Record
type AuditModule struct {
	publisher JobPublisher
	queue     string
	marks     rpmark.MarkRepository
	logger    logger.Logger
}

// NewAuditModule 创建审计模块，publisher 或 marks 可为 nil（对应能力不可用）
func NewAuditModule(publisher JobPublisher, queue string, marks rpmark.MarkRepository, logger logger.Logger) *AuditModule {
	return &AuditModule{
		publisher: publisher,
		queue:     queue,
		marks:     marks,
		logger:    logger,
	}
}

// BuildAudit 由命令与批次结果构造审计消息
func BuildAudit(requestID string, cmd *etmark.MarkCommand, result *etmark.BatchResult) *model.MarkBatchAudit {
	items := make([]model.MarkAuditItem, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, model.MarkAuditItem{
			GuideID:        item.GuideID,
			DocumentNumber: item.DocumentNumber,
			Success:        item.Success,
			Result:         item.Result,
			ErrorCode:      string(item.ErrorCode),
		})
	}

	return &model.MarkBatchAudit{
		RequestID:     requestID,
		BatchID:       result.BatchID,
		Kind:          string(result.Kind),
		ManifestID:    int64(cmd.ManifestID),
		Motive:        string(result.Motive),
		DiscardReason: result.DiscardReason,
		PersonID:      cmd.PersonID,
		Observation:   cmd.Observation,
		Meta: model.MarkAuditMeta{
			InspectionType: cmd.Meta.InspectionType,
			Description:    cmd.Meta.Description,
			Proposal:       cmd.Meta.Proposal,
		},
		Succeeded:   result.Succeeded,
		Errored:     result.Errored,
		Items:       items,
		ProcessedAt: result.Timestamp.Unix(),
	}
}

// Publish 投递审计消息
func (m *AuditModule) Publish(ctx context.Context, audit *model.MarkBatchAudit) error {
	if m.publisher == nil {
		return errors.New("audit publisher not configured")
	}
	if err := m.publisher.Publish(ctx, m.queue, audit); err != nil {
		return fmt.Errorf("publish audit for batch %s failed: %w", audit.BatchID, err)
	}
	m.logger.Infof(ctx, "[AuditModule] batch %s published to %s (%d items)", audit.BatchID, m.queue, len(audit.Items))
	return nil
}

// LedgerMarks 审计消息中需要落账的标记：只包含成功条目
func LedgerMarks(audit *model.MarkBatchAudit) []*etmark.Mark {
	marks := make([]*etmark.Mark, 0, audit.Succeeded)
	seen := make(map[int64]struct{}, audit.Succeeded)
	for _, item := range audit.Items {
		if !item.Success {
			continue
		}
		// 同批次重复提交的运单只落账一次
		if _, ok := seen[item.GuideID]; ok {
			continue
		}
		seen[item.GuideID] = struct{}{}
		marks = append(marks, &etmark.Mark{
			GuideID:        item.GuideID,
			DocumentNumber: item.DocumentNumber,
			Motive:         etmark.MotiveCode(audit.Motive),
			Observation:    audit.Observation,
			PersonID:       audit.PersonID,
			Meta: etmark.Meta{
				InspectionType: audit.Meta.InspectionType,
				Description:    audit.Meta.Description,
				Proposal:       audit.Meta.Proposal,
			},
			BatchID: audit.BatchID,
			Active:  true,
		})
	}
	return marks
}

// Record 将审计消息中的成功条目写入台账，返回写入条数
// 批次已落账时视为成功（返回 0），保证消息重投幂等
func (m *AuditModule) Record(ctx context.Context, audit *model.MarkBatchAudit) (int, error) {
	marks := LedgerMarks(audit)
	if len(marks) == 0 {
		m.logger.Infof(ctx, "[AuditModule] batch %s has no succeeded items, nothing to record", audit.BatchID)
		return 0, nil
	}

	replace := audit.Kind == model.AuditKindChange
	err := m.marks.RecordBatch(ctx, audit.BatchID, marks, audit.DiscardReason, replace)
	if errors.Is(err, rpmark.ErrBatchRecorded) {
		m.logger.Warnf(ctx, "[AuditModule] batch %s already recorded, skip", audit.BatchID)
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("record batch %s failed: %w", audit.BatchID, err)
	}

	m.logger.Infof(ctx, "[AuditModule] batch %s recorded: %d marks (replace=%t)", audit.BatchID, len(marks), replace)
	return len(marks), nil
}

// History 运单标记历史，最新在前
func (m *AuditModule) History(ctx context.Context, guideID int64) ([]*etmark.Mark, error) {
	if guideID <= 0 {
		return nil, errorx.GuideNotFound(guideID)
	}
	return m.marks.ListByGuide(ctx, guideID)
}
