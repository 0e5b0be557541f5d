package mdguide

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"

	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/pkg/errorx"
)

// 列名契约，与 rpguide.listGuidesSQL 的别名一致
const (
	ColID             = "DOCORIGEN"
	ColNumber         = "NUMERODOC"
	ColIssuer         = "NOMBREEMISOR"
	ColPieces         = "TOTALBULTOS"
	ColWeight         = "TOTALPESO"
	ColDeclaredValue  = "VALORDECLARADO"
	ColConsignor      = "CONSIGNANTE"
	ColConsignee      = "CONSIGNATARIO"
	ColConsigneeTaxID = "RUTCONSIGNATARIO"
	ColMarks          = "MARCAS"

	ColDocTypeCode     = "CODIGOTIPODOC"
	ColDocTypeLabel    = "TIPODOC"
	ColCurrentState    = "ESTADOACTUAL"
	ColSelectionMotive = "MOTIVOSELECCION"
	ColTransit         = "TRANSITO"
)

// RequiredColumns 缺失任一列即视为契约破坏
var RequiredColumns = []string{
	ColID,
	ColNumber,
	ColIssuer,
	ColPieces,
	ColWeight,
	ColDeclaredValue,
	ColConsignor,
	ColConsignee,
	ColConsigneeTaxID,
	ColMarks,
}

// normalizeRow 列名统一为去空白大写；大小写不同但值冲突的同名列报错
func normalizeRow(raw etguide.RawRow) (map[string]interface{}, error) {
	row := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		name := strings.ToUpper(strings.TrimSpace(key))
		if existing, ok := row[name]; ok && !reflect.DeepEqual(existing, value) {
			return nil, fmt.Errorf("ambiguous column %s: conflicting values %v / %v", name, existing, value)
		}
		row[name] = value
	}
	return row, nil
}

// rowReader 按列名读取，记录第一个错误
type rowReader struct {
	row map[string]interface{}
	err error
}

func (r *rowReader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *rowReader) value(col string, required bool) (interface{}, bool) {
	v, ok := r.row[col]
	if !ok {
		if required {
			r.fail(fmt.Errorf("missing column %s", col))
		}
		return nil, false
	}
	return v, v != nil
}

func (r *rowReader) str(col string, required bool, def string) string {
	v, ok := r.value(col, required)
	if !ok {
		return def
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		r.fail(fmt.Errorf("column %s: %w", col, err))
		return def
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func (r *rowReader) int64(col string, required bool) int64 {
	v, ok := r.value(col, required)
	if !ok {
		return 0
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return 0
	}
	n, err := cast.ToInt64E(v)
	if err != nil {
		r.fail(fmt.Errorf("column %s: %w", col, err))
	}
	return n
}

func (r *rowReader) float64(col string, required bool) float64 {
	v, ok := r.value(col, required)
	if !ok {
		return 0
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return 0
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		r.fail(fmt.Errorf("column %s: %w", col, err))
	}
	return f
}

func (r *rowReader) flag(col string) bool {
	switch strings.ToUpper(r.str(col, false, "")) {
	case "S", "SI", "Y", "YES", "TRUE", "1":
		return true
	default:
		return false
	}
}

// projectRow 原始行 -> Guide
func projectRow(raw etguide.RawRow) (*etguide.Guide, error) {
	row, err := normalizeRow(raw)
	if err != nil {
		return nil, err
	}

	r := &rowReader{row: row}
	guide := &etguide.Guide{
		ID:              r.int64(ColID, true),
		DocumentNumber:  r.str(ColNumber, true, ""),
		DocTypeCode:     r.str(ColDocTypeCode, false, etguide.DefaultDocTypeCode),
		DocTypeLabel:    r.str(ColDocTypeLabel, false, etguide.DefaultDocTypeLabel),
		IssuerName:      r.str(ColIssuer, true, ""),
		Consignor:       r.str(ColConsignor, true, ""),
		Consignee:       r.str(ColConsignee, true, ""),
		ConsigneeTaxID:  r.str(ColConsigneeTaxID, true, ""),
		Pieces:          r.int64(ColPieces, true),
		Weight:          r.float64(ColWeight, true),
		DeclaredValue:   r.float64(ColDeclaredValue, true),
		CurrentState:    r.str(ColCurrentState, false, ""),
		Marks:           r.str(ColMarks, true, ""),
		SelectionMotive: r.int64(ColSelectionMotive, false),
		InTransit:       r.flag(ColTransit),
	}
	if r.err != nil {
		return nil, r.err
	}
	return guide, nil
}

func rowError(index int, err error) error {
	return errorx.Wrap(errorx.CodeGuideRowInvalid, "Respuesta inválida del sistema de guías", err).
		WithDetail("row", index)
}
