package rpguide

import (
	"context"
	"strings"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
)

// GuideStore 运单存储接口（外部记录系统边界）
// 实现在本包 guide_store_impl.go（MySQL 存储过程）
type GuideStore interface {
	// ResolveManifestIDs 按外部编号查询有效manifest，按主键升序返回全部候选
	ResolveManifestIDs(ctx context.Context, number string) ([]etguide.ManifestID, error)

	// ListGuides 查询manifest下有效且未作废的运单原始行
	ListGuides(ctx context.Context, manifestID etguide.ManifestID) ([]etguide.RawRow, error)

	// MarkGuide 对单条运单打标
	MarkGuide(ctx context.Context, req *MarkRequest) (*RemoteResult, error)

	// ChangeGuideMark 作废当前标记并重新打标
	ChangeGuideMark(ctx context.Context, req *MarkRequest, discardReason string) (*RemoteResult, error)
}

// MarkRequest 单条打标调用参数
type MarkRequest struct {
	Ref         etguide.GuideRef
	Motive      etmark.MotiveCode
	PersonID    int64
	Observation string
	Meta        etmark.Meta
}

// RemoteResult 存储过程返回的结果字符串
type RemoteResult struct {
	Sentinel string
}

// IsSuccess 与成功标记精确匹配（忽略首尾空白）
func (r *RemoteResult) IsSuccess(sentinel string) bool {
	return r != nil && strings.TrimSpace(r.Sentinel) == sentinel
}
