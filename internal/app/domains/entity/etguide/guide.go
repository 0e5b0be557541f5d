package etguide

// ManifestID 内部manifest主键
type ManifestID int64

// 默认单据类型（courier 时效运单）
const (
	DefaultDocTypeCode  = "GTIME"
	DefaultDocTypeLabel = "GUIA TIME"
)

// Guide courier 运单（只读投影）
type Guide struct {
	ID              int64
	DocumentNumber  string
	DocTypeCode     string
	DocTypeLabel    string
	IssuerName      string
	Consignor       string
	Consignee       string
	ConsigneeTaxID  string
	Pieces          int64
	Weight          float64
	DeclaredValue   float64
	CurrentState    string
	Marks           string
	SelectionMotive int64
	InTransit       bool
}

// Ref 取出寻址字段
func (g *Guide) Ref() GuideRef {
	return GuideRef{
		ID:             g.ID,
		DocumentNumber: g.DocumentNumber,
		DocTypeCode:    g.DocTypeCode,
		DocTypeLabel:   g.DocTypeLabel,
	}
}

// GuideRef 变更类命令的最小寻址单元
type GuideRef struct {
	ID             int64
	DocumentNumber string
	DocTypeCode    string
	DocTypeLabel   string
}

// RawRow 存储层返回的原始行：列名 -> 值
type RawRow map[string]interface{}
