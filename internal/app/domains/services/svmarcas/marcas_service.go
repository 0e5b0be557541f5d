package svmarcas

import (
	"context"

	"github.com/google/uuid"

	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/domains/modules/mdaudit"
	"courier/marcas/internal/app/domains/modules/mdguide"
	"courier/marcas/internal/app/domains/modules/mdmanifest"
	"courier/marcas/internal/app/domains/modules/mdmarking"
	"courier/marcas/internal/app/pkg/logger"
)

// MarcasService 运单打标服务，负责查询与批量打标的业务编排
type MarcasService struct {
	manifestModule *mdmanifest.ManifestModule
	guideModule    *mdguide.GuideModule
	markingModule  *mdmarking.MarkingModule
	auditModule    *mdaudit.AuditModule
	logger         logger.Logger
	newBatchID     func() string
}

// NewMarcasService 创建服务实例
func NewMarcasService(
	manifestModule *mdmanifest.ManifestModule,
	guideModule *mdguide.GuideModule,
	markingModule *mdmarking.MarkingModule,
	auditModule *mdaudit.AuditModule,
	logger logger.Logger,
) *MarcasService {
	return &MarcasService{
		manifestModule: manifestModule,
		guideModule:    guideModule,
		markingModule:  markingModule,
		auditModule:    auditModule,
		logger:         logger,
		newBatchID:     func() string { return uuid.New().String() },
	}
}

// QueryGuides 按manifest编号查询运单
// 1. 校验manifest编号与运单号过滤条件（不合法时不访问存储）
// 2. 解析manifest主键
// 3. 投影、排序、过滤
func (s *MarcasService) QueryGuides(ctx context.Context, manifestNumber, guideFilter string) (*mdguide.Projection, error) {
	if err := mdmanifest.ValidateNumber(manifestNumber); err != nil {
		return nil, err
	}
	if err := mdguide.ValidateFilter(guideFilter); err != nil {
		return nil, err
	}

	manifestID, err := s.manifestModule.Resolve(ctx, manifestNumber)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithManifestID(ctx, int64(manifestID))

	return s.guideModule.Project(ctx, manifestID, guideFilter)
}

// MarkBatch 批量打标
// 批次与审计投递脱离请求取消：客户端断开后已开始的批次仍执行完毕，单条调用由执行器超时约束
func (s *MarcasService) MarkBatch(ctx context.Context, cmd *etmark.MarkCommand) (*etmark.BatchResult, error) {
	batchID := s.newBatchID()
	ctx = logger.WithBatchID(context.WithoutCancel(ctx), batchID)

	result, err := s.markingModule.Mark(ctx, batchID, cmd)
	if err != nil {
		s.logger.Warnf(ctx, "[MarcasService] mark batch rejected: %v", err)
		return nil, err
	}

	s.publishAudit(ctx, cmd, result)
	return result, nil
}

// ChangeBatch 批量改标
func (s *MarcasService) ChangeBatch(ctx context.Context, cmd *etmark.ChangeCommand) (*etmark.BatchResult, error) {
	batchID := s.newBatchID()
	ctx = logger.WithBatchID(context.WithoutCancel(ctx), batchID)

	result, err := s.markingModule.Change(ctx, batchID, cmd)
	if err != nil {
		s.logger.Warnf(ctx, "[MarcasService] change batch rejected: %v", err)
		return nil, err
	}

	s.publishAudit(ctx, &cmd.MarkCommand, result)
	return result, nil
}

// History 运单标记历史
func (s *MarcasService) History(ctx context.Context, guideID int64) ([]*etmark.Mark, error) {
	return s.auditModule.History(ctx, guideID)
}

// publishAudit 投递审计消息，失败只记录日志，不影响批次结果
func (s *MarcasService) publishAudit(ctx context.Context, cmd *etmark.MarkCommand, result *etmark.BatchResult) {
	if s.auditModule == nil {
		return
	}
	audit := mdaudit.BuildAudit(logger.RequestID(ctx), cmd, result)
	if err := s.auditModule.Publish(ctx, audit); err != nil {
		s.logger.Warnf(ctx, "[MarcasService] publish audit failed: %v", err)
	}
}
