package etmark

import (
	"fmt"
	"time"

	"courier/marcas/internal/app/pkg/errorx"
)

// BatchKind 批次类型
type BatchKind string

const (
	BatchKindMark   BatchKind = "MARK"
	BatchKindChange BatchKind = "CHANGE"
)

// ItemOutcome 单条运单的处理结果
type ItemOutcome struct {
	GuideID        int64
	DocumentNumber string
	Result         string // 存储过程返回值或错误信息
	Success        bool
	ErrorCode      errorx.Code
}

// Tally 执行器的累加结果，Items 与输入顺序一致
type Tally struct {
	Items     []ItemOutcome
	Succeeded int
	Errored   int
}

// BatchResult 批次聚合结果
// 不变量: Total == Succeeded + Errored, Success == (Errored == 0)
type BatchResult struct {
	BatchID       string
	Kind          BatchKind
	Success       bool
	Message       string
	Total         int
	Succeeded     int
	Errored       int
	Motive        MotiveCode
	DiscardReason string
	Timestamp     time.Time
	Items         []ItemOutcome
}

// NewBatchResult 由执行器累加结果构造聚合结果
func NewBatchResult(batchID string, kind BatchKind, motive MotiveCode, discardReason string, tally Tally, now time.Time) *BatchResult {
	return &BatchResult{
		BatchID:       batchID,
		Kind:          kind,
		Success:       tally.Errored == 0,
		Message:       summarize(kind, tally.Succeeded, tally.Errored),
		Total:         tally.Succeeded + tally.Errored,
		Succeeded:     tally.Succeeded,
		Errored:       tally.Errored,
		Motive:        motive,
		DiscardReason: discardReason,
		Timestamp:     now,
		Items:         tally.Items,
	}
}

func summarize(kind BatchKind, succeeded, errored int) string {
	if kind == BatchKindChange {
		if errored == 0 {
			return fmt.Sprintf("Marca modificada exitosamente en %d guía(s)", succeeded)
		}
		return fmt.Sprintf("%d guía(s) modificada(s), %d con error", succeeded, errored)
	}
	if errored == 0 {
		return fmt.Sprintf("%d guía(s) marcada(s) exitosamente", succeeded)
	}
	return fmt.Sprintf("%d guía(s) marcada(s), %d con error", succeeded, errored)
}
