package entity

import (
	"time"

	"gorm.io/datatypes"
)

// Mark 运单标记台账
// 一个运单可同时有多条有效标记（打标只追加）；改标时该运单全部有效标记置为失效并写入作废原因
// (batch_id, guide_id) 唯一，保证审计消息重投不会重复落账
type Mark struct {
	ID             int64  `gorm:"column:id;primaryKey;autoIncrement:false"`
	GuideID        int64  `gorm:"column:guide_id;not null;index:idx_guide_active;uniqueIndex:uk_batch_guide,priority:2"`
	DocumentNumber string `gorm:"column:document_number;type:varchar(64);not null"`
	Motive         string `gorm:"column:motive;type:varchar(16);not null"`
	Observation    string `gorm:"column:observation;type:varchar(512)"`
	PersonID       int64  `gorm:"column:person_id;not null"`

	// 附加信息（tipoFiscalizacion / descripcion / propuesta）
	Meta datatypes.JSON `gorm:"column:meta;type:json"`

	DiscardReason string `gorm:"column:discard_reason;type:varchar(512)"`
	BatchID       string `gorm:"column:batch_id;type:varchar(64);not null;uniqueIndex:uk_batch_guide,priority:1"`
	Active        bool   `gorm:"column:active;not null;default:true;index:idx_guide_active"`

	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName 指定表名
func (Mark) TableName() string {
	return "marks"
}
