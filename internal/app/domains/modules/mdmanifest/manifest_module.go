package mdmanifest

import (
	"context"
	"regexp"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/repo/rpguide"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/logger"
)

var manifestNumberPattern = regexp.MustCompile(`^[0-9]+$`)

// ManifestModule manifest编号解析
type ManifestModule struct {
	store  rpguide.GuideStore
	logger logger.Logger
}

// NewManifestModule 创建manifest模块
func NewManifestModule(store rpguide.GuideStore, logger logger.Logger) *ManifestModule {
	return &ManifestModule{
		store:  store,
		logger: logger,
	}
}

// ValidateNumber manifest编号格式校验：仅数字
func ValidateNumber(number string) error {
	if !manifestNumberPattern.MatchString(number) {
		return errorx.InvalidManifestFormat(number)
	}
	return nil
}

// Resolve 外部编号 -> 内部主键
// 多条有效记录时取主键最小者并告警
func (m *ManifestModule) Resolve(ctx context.Context, number string) (etguide.ManifestID, error) {
	if err := ValidateNumber(number); err != nil {
		return 0, err
	}

	ids, err := m.store.ResolveManifestIDs(ctx, number)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, errorx.ManifestNotFound(number)
	}

	chosen := ids[0]
	for _, id := range ids[1:] {
		if id < chosen {
			chosen = id
		}
	}

	if len(ids) > 1 {
		m.logger.Warnf(ctx, "[ManifestModule] ambiguous manifest number %s: %d active rows %v, using id=%d",
			number, len(ids), ids, chosen)
	}

	return chosen, nil
}
