package etmark

import (
	"time"

	"courier/marcas/internal/app/domains/entity/etguide"
)

// Meta 打标附加信息（可选）
type Meta struct {
	InspectionType string `json:"tipoFiscalizacion,omitempty"`
	Description    string `json:"descripcion,omitempty"`
	Proposal       string `json:"propuesta,omitempty"`
}

// MarkCommand 批量打标命令
type MarkCommand struct {
	ManifestID  etguide.ManifestID // 可选，>0 时校验manifest整合状态
	Motive      MotiveCode
	Guides      []etguide.GuideRef
	PersonID    int64
	Observation string
	Meta        Meta
}

// ChangeCommand 批量改标命令：作废当前标记并以新原因重新打标
type ChangeCommand struct {
	MarkCommand
	DiscardReason string
}

// Mark 本地台账中的一条标记记录
type Mark struct {
	ID             int64
	GuideID        int64
	DocumentNumber string
	Motive         MotiveCode
	Observation    string
	PersonID       int64
	Meta           Meta
	DiscardReason  string
	BatchID        string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
