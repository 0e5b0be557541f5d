package mdmarking

import (
	"context"
	"strings"
	"time"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/domains/repo/rpguide"
	"courier/marcas/internal/app/pkg/logger"
)

// MarkingModule 批量打标 / 改标
// 两种操作共用校验器与执行器，只在单条调用与结果字段上不同
type MarkingModule struct {
	store     rpguide.GuideStore
	validator *Validator
	executor  *Executor
	logger    logger.Logger
	now       func() time.Time
}

// NewMarkingModule 创建打标模块
func NewMarkingModule(
	store rpguide.GuideStore,
	validator *Validator,
	executor *Executor,
	logger logger.Logger,
) *MarkingModule {
	return &MarkingModule{
		store:     store,
		validator: validator,
		executor:  executor,
		logger:    logger,
		now:       time.Now,
	}
}

// Mark 批量打标
// 校验失败整批拒绝（不发起任何远程调用）；部分失败体现在结果中
func (m *MarkingModule) Mark(ctx context.Context, batchID string, cmd *etmark.MarkCommand) (*etmark.BatchResult, error) {
	if err := m.validator.ValidateMark(ctx, cmd); err != nil {
		return nil, err
	}

	m.logger.Infof(ctx, "[MarkingModule] mark batch: motive=%s guides=%d person=%d", cmd.Motive, len(cmd.Guides), cmd.PersonID)

	tally := m.executor.Run(ctx, cmd.Guides, func(ctx context.Context, ref etguide.GuideRef) (*rpguide.RemoteResult, error) {
		return m.store.MarkGuide(ctx, newMarkRequest(ref, cmd))
	})

	result := etmark.NewBatchResult(batchID, etmark.BatchKindMark, cmd.Motive, "", tally, m.now())
	m.logger.Infof(ctx, "[MarkingModule] mark batch done: total=%d ok=%d failed=%d", result.Total, result.Succeeded, result.Errored)

	return result, nil
}

// Change 批量改标：作废当前标记（附原因）并重新打标
func (m *MarkingModule) Change(ctx context.Context, batchID string, cmd *etmark.ChangeCommand) (*etmark.BatchResult, error) {
	if err := m.validator.ValidateChange(ctx, cmd); err != nil {
		return nil, err
	}

	reason := strings.TrimSpace(cmd.DiscardReason)
	m.logger.Infof(ctx, "[MarkingModule] change batch: motive=%s guides=%d person=%d", cmd.Motive, len(cmd.Guides), cmd.PersonID)

	tally := m.executor.Run(ctx, cmd.Guides, func(ctx context.Context, ref etguide.GuideRef) (*rpguide.RemoteResult, error) {
		return m.store.ChangeGuideMark(ctx, newMarkRequest(ref, &cmd.MarkCommand), reason)
	})

	result := etmark.NewBatchResult(batchID, etmark.BatchKindChange, cmd.Motive, reason, tally, m.now())
	m.logger.Infof(ctx, "[MarkingModule] change batch done: total=%d ok=%d failed=%d", result.Total, result.Succeeded, result.Errored)

	return result, nil
}

func newMarkRequest(ref etguide.GuideRef, cmd *etmark.MarkCommand) *rpguide.MarkRequest {
	return &rpguide.MarkRequest{
		Ref:         ref,
		Motive:      cmd.Motive,
		PersonID:    cmd.PersonID,
		Observation: cmd.Observation,
		Meta:        cmd.Meta,
	}
}
