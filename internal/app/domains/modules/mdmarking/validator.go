package mdmarking

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/pkg/errorx"
)

// MinDiscardReasonLength 改标作废原因最小长度（去除首尾空白后按字符计）
const MinDiscardReasonLength = 3

// ConsolidationChecker manifest整合状态判定
type ConsolidationChecker interface {
	IsManifestConsolidated(ctx context.Context, manifestID etguide.ManifestID) (bool, error)
}

// ConsolidationFunc 函数适配器
type ConsolidationFunc func(ctx context.Context, manifestID etguide.ManifestID) (bool, error)

// IsManifestConsolidated 实现 ConsolidationChecker
func (f ConsolidationFunc) IsManifestConsolidated(ctx context.Context, manifestID etguide.ManifestID) (bool, error) {
	return f(ctx, manifestID)
}

// AlwaysConsolidated 默认判定：视为已整合
// TODO: 接入manifest状态表（docestados 中 CONSOLIDADO 状态）后替换
var AlwaysConsolidated ConsolidationChecker = ConsolidationFunc(func(context.Context, etguide.ManifestID) (bool, error) {
	return true, nil
})

// Validator 批次级前置校验，每批只执行一次
type Validator struct {
	consolidation ConsolidationChecker
}

// NewValidator 创建校验器，checker 为空时使用 AlwaysConsolidated
func NewValidator(checker ConsolidationChecker) *Validator {
	if checker == nil {
		checker = AlwaysConsolidated
	}
	return &Validator{consolidation: checker}
}

// ValidateMark 打标校验
func (v *Validator) ValidateMark(ctx context.Context, cmd *etmark.MarkCommand) error {
	if !cmd.Motive.Valid() {
		return errorx.InvalidMotive(string(cmd.Motive), etmark.ValidMotives())
	}
	if len(cmd.Guides) == 0 {
		return errorx.EmptyGuideSet()
	}
	return v.checkConsolidated(ctx, cmd.ManifestID)
}

// ValidateChange 改标校验，额外要求作废原因
func (v *Validator) ValidateChange(ctx context.Context, cmd *etmark.ChangeCommand) error {
	if !cmd.Motive.Valid() {
		return errorx.InvalidMotive(string(cmd.Motive), etmark.ValidMotives())
	}
	if len(cmd.Guides) == 0 {
		return errorx.EmptyGuideSet()
	}
	if utf8.RuneCountInString(strings.TrimSpace(cmd.DiscardReason)) < MinDiscardReasonLength {
		return errorx.DiscardReasonTooShort(MinDiscardReasonLength)
	}
	return v.checkConsolidated(ctx, cmd.ManifestID)
}

func (v *Validator) checkConsolidated(ctx context.Context, manifestID etguide.ManifestID) error {
	if manifestID <= 0 {
		return nil
	}
	ok, err := v.consolidation.IsManifestConsolidated(ctx, manifestID)
	if err != nil {
		return fmt.Errorf("check manifest consolidated failed: %w", err)
	}
	if !ok {
		return errorx.ManifestNotConsolidated(int64(manifestID))
	}
	return nil
}
