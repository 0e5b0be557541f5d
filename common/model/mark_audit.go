package model

// MarkBatchAudit 批次审计消息
// 用于 apiserver → audit_consumer 的消息传递，消费端据此写入本地标记台账
type MarkBatchAudit struct {
	RequestID     string          `json:"request_id"`               // 请求 ID（链路追踪）
	BatchID       string          `json:"batch_id"`                 // 批次 ID
	Kind          string          `json:"kind"`                     // MARK / CHANGE
	ManifestID    int64           `json:"manifest_id,omitempty"`    // manifest ID（可选）
	Motive        string          `json:"motive"`                   // 打标原因码
	DiscardReason string          `json:"discard_reason,omitempty"` // 作废原因（仅 CHANGE）
	PersonID      int64           `json:"person_id"`                // 操作人
	Observation   string          `json:"observation,omitempty"`    // 备注
	Meta          MarkAuditMeta   `json:"meta"`                     // 附加信息
	Succeeded     int             `json:"succeeded"`                // 成功条数
	Errored       int             `json:"errored"`                  // 失败条数
	Items         []MarkAuditItem `json:"items"`                    // 逐条结果，与请求顺序一致
	ProcessedAt   int64           `json:"processed_at"`             // 批次完成时间（Unix timestamp）
}

// MarkAuditMeta 打标附加信息
type MarkAuditMeta struct {
	InspectionType string `json:"inspection_type,omitempty"`
	Description    string `json:"description,omitempty"`
	Proposal       string `json:"proposal,omitempty"`
}

// MarkAuditItem 单条运单结果
type MarkAuditItem struct {
	GuideID        int64  `json:"guide_id"`
	DocumentNumber string `json:"document_number"`
	Success        bool   `json:"success"`
	Result         string `json:"result"`
	ErrorCode      string `json:"error_code,omitempty"`
}

// 批次类型常量
const (
	AuditKindMark   = "MARK"
	AuditKindChange = "CHANGE"
)

// MarkBatchNotification 批次落账完成通知（redis pub/sub）
type MarkBatchNotification struct {
	BatchID   string `json:"batch_id"`
	Kind      string `json:"kind"`
	Recorded  int    `json:"recorded"`  // 写入台账条数
	Succeeded int    `json:"succeeded"` // 批次成功条数
	Errored   int    `json:"errored"`   // 批次失败条数
}
