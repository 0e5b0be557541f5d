package rpmark

import (
	"context"
	"errors"

	"courier/marcas/internal/app/domains/entity/etmark"
)

// ErrBatchRecorded 批次已落账（消息重投时出现）
var ErrBatchRecorded = errors.New("batch already recorded")

// MarkRepository 本地标记台账
type MarkRepository interface {
	// RecordBatch 单事务写入整批标记
	// replace=true 时按改标处理：先作废运单当前有效标记（写入作废原因）再追加
	// (batch_id, guide_id) 唯一，同一批次重复写入时返回 ErrBatchRecorded，整批回滚
	RecordBatch(ctx context.Context, batchID string, marks []*etmark.Mark, discardReason string, replace bool) error

	// ListByGuide 运单的标记历史，最新在前
	ListByGuide(ctx context.Context, guideID int64) ([]*etmark.Mark, error)
}
