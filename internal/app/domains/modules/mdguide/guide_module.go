package mdguide

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/repo/rpguide"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/logger"
)

var guideFilterPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Projection 查询结果，RowsCount 恒等于 len(Guides)
type Projection struct {
	Guides    []*etguide.Guide
	RowsCount int
}

// GuideModule 运单查询与投影
type GuideModule struct {
	store  rpguide.GuideStore
	logger logger.Logger
}

// NewGuideModule 创建运单模块
func NewGuideModule(store rpguide.GuideStore, logger logger.Logger) *GuideModule {
	return &GuideModule{
		store:  store,
		logger: logger,
	}
}

// ValidateFilter 运单号过滤条件校验，空串表示不过滤
func ValidateFilter(filter string) error {
	if filter == "" {
		return nil
	}
	if !guideFilterPattern.MatchString(filter) {
		return errorx.InvalidGuideFormat(filter)
	}
	return nil
}

// Project 查询manifest下的运单并投影
// 1. 校验过滤条件（不合法时不访问存储）
// 2. 按列名投影每一行
// 3. 按收件人税号升序稳定排序，空税号排最后
// 4. 按运单号做大小写不敏感的精确过滤
func (m *GuideModule) Project(ctx context.Context, manifestID etguide.ManifestID, filter string) (*Projection, error) {
	if err := ValidateFilter(filter); err != nil {
		return nil, err
	}

	rows, err := m.store.ListGuides(ctx, manifestID)
	if err != nil {
		return nil, err
	}

	guides := make([]*etguide.Guide, 0, len(rows))
	for i, row := range rows {
		guide, err := projectRow(row)
		if err != nil {
			m.logger.Errorf(ctx, "[GuideModule] project row %d failed: %v", i, err)
			return nil, rowError(i, err)
		}
		guides = append(guides, guide)
	}

	sort.SliceStable(guides, func(i, j int) bool {
		a, b := guides[i].ConsigneeTaxID, guides[j].ConsigneeTaxID
		if a == "" || b == "" {
			return a != "" && b == ""
		}
		return a < b
	})

	if filter != "" {
		filtered := make([]*etguide.Guide, 0, 1)
		for _, g := range guides {
			if strings.EqualFold(g.DocumentNumber, filter) {
				filtered = append(filtered, g)
			}
		}
		guides = filtered
	}

	m.logger.Infof(ctx, "[GuideModule] manifest %d: %d rows, %d guides after filter", manifestID, len(rows), len(guides))

	return &Projection{
		Guides:    guides,
		RowsCount: len(guides),
	}, nil
}
