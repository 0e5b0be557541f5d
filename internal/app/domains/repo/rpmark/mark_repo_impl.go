package rpmark

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"courier/marcas/common/entity"
	"courier/marcas/internal/app/domains/entity/etmark"
	"courier/marcas/internal/app/pkg/idgen"
)

const mysqlDuplicateEntry = 1062

// MarkRepositoryImpl 标记台账实现（MySQL）
type MarkRepositoryImpl struct {
	db    *gorm.DB
	ids   *idgen.SnowflakeIDGenerator
	clock func() time.Time
}

// NewMarkRepository 创建台账仓储
func NewMarkRepository(db *gorm.DB, ids *idgen.SnowflakeIDGenerator) MarkRepository {
	return &MarkRepositoryImpl{db: db, ids: ids, clock: time.Now}
}

// RecordBatch 单事务写入整批标记
func (r *MarkRepositoryImpl) RecordBatch(ctx context.Context, batchID string, marks []*etmark.Mark, discardReason string, replace bool) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, mark := range marks {
			mark.BatchID = batchID
			if err := r.write(tx, mark, discardReason, replace); err != nil {
				return err
			}
		}
		return nil
	})
	if isDuplicateKey(err) {
		return ErrBatchRecorded
	}
	return err
}

func (r *MarkRepositoryImpl) write(tx *gorm.DB, mark *etmark.Mark, discardReason string, replace bool) error {
	po, err := r.toGormModel(mark)
	if err != nil {
		return err
	}

	if replace {
		err := tx.Model(&entity.Mark{}).
			Where("guide_id = ? AND active = ?", mark.GuideID, true).
			Updates(map[string]interface{}{
				"active":         false,
				"discard_reason": discardReason,
				"updated_at":     po.UpdatedAt,
			}).Error
		if err != nil {
			return fmt.Errorf("deactivate marks of guide %d failed: %w", mark.GuideID, err)
		}
	}

	if err := tx.Create(po).Error; err != nil {
		return fmt.Errorf("append mark for guide %d failed: %w", mark.GuideID, err)
	}
	mark.ID = po.ID
	return nil
}

// isDuplicateKey 唯一索引冲突（gorm TranslateError 或 MySQL 1062）
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}

// ListByGuide 标记历史，最新在前
func (r *MarkRepositoryImpl) ListByGuide(ctx context.Context, guideID int64) ([]*etmark.Mark, error) {
	var pos []entity.Mark
	err := r.db.WithContext(ctx).
		Where("guide_id = ?", guideID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	marks := make([]*etmark.Mark, 0, len(pos))
	for i := range pos {
		m, err := r.toDomainModel(&pos[i])
		if err != nil {
			return nil, err
		}
		marks = append(marks, m)
	}
	return marks, nil
}

func (r *MarkRepositoryImpl) toGormModel(m *etmark.Mark) (*entity.Mark, error) {
	meta, err := json.Marshal(m.Meta)
	if err != nil {
		return nil, err
	}

	id := m.ID
	if id == 0 {
		id = r.ids.NextID()
	}
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = r.clock()
	}

	return &entity.Mark{
		ID:             id,
		GuideID:        m.GuideID,
		DocumentNumber: m.DocumentNumber,
		Motive:         string(m.Motive),
		Observation:    m.Observation,
		PersonID:       m.PersonID,
		Meta:           meta,
		DiscardReason:  m.DiscardReason,
		BatchID:        m.BatchID,
		Active:         true,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
	}, nil
}

func (r *MarkRepositoryImpl) toDomainModel(po *entity.Mark) (*etmark.Mark, error) {
	var meta etmark.Meta
	if len(po.Meta) > 0 {
		if err := json.Unmarshal(po.Meta, &meta); err != nil {
			return nil, fmt.Errorf("decode meta of mark %d failed: %w", po.ID, err)
		}
	}

	return &etmark.Mark{
		ID:             po.ID,
		GuideID:        po.GuideID,
		DocumentNumber: po.DocumentNumber,
		Motive:         etmark.MotiveCode(po.Motive),
		Observation:    po.Observation,
		PersonID:       po.PersonID,
		Meta:           meta,
		DiscardReason:  po.DiscardReason,
		BatchID:        po.BatchID,
		Active:         po.Active,
		CreatedAt:      po.CreatedAt,
		UpdatedAt:      po.UpdatedAt,
	}, nil
}
