package rpguide

import (
	"context"
	"database/sql"

	"gorm.io/gorm"

	"courier/marcas/internal/app/domains/entity/etguide"
)

const manifestDocType = "MFTOC"

const resolveManifestSQL = `
SELECT d.id
FROM docdocumentobase d
WHERE d.tipodocumento = ?
  AND d.numeroexterno = ?
  AND d.activo = 'S'
ORDER BY d.id`

// listGuidesSQL 列名即投影层的读取契约，别名不可随意修改
const listGuidesSQL = `
SELECT r.docorigen AS DOCORIGEN,
       docbase.numeroexterno AS NUMERODOC,
       docbase.tipodocumento AS CODIGOTIPODOC,
       tipodoc.nombre AS TIPODOC,
       docbase.emisor AS NOMBREEMISOR,
       docbase.totalbultos AS TOTALBULTOS,
       docbase.totalpeso AS TOTALPESO,
       docbase.valordeclarado AS VALORDECLARADO,
       (SELECT p.nombreparticipante FROM docparticipacion p WHERE p.documento = docbase.id AND p.rol = 'CNTE' LIMIT 1) AS CONSIGNANTE,
       (SELECT p.nombreparticipante FROM docparticipacion p WHERE p.documento = docbase.id AND p.rol = 'CONS' LIMIT 1) AS CONSIGNATARIO,
       (SELECT p.numeroid FROM docparticipacion p WHERE p.documento = docbase.id AND p.rol = 'CONS' LIMIT 1) AS RUTCONSIGNATARIO,
       fn_marcas_as_string(docbase.id) AS MARCAS,
       fn_estado_actual(docbase.id) AS ESTADOACTUAL,
       fn_motivo_seleccion(docbase.id) AS MOTIVOSELECCION,
       fn_en_transito(docbase.id) AS TRANSITO
FROM docdocumentobase docbase
JOIN docrelaciondocumento r ON r.docorigen = docbase.id AND r.docdestino = ? AND r.tiporelacion = 'REF'
LEFT JOIN doctipodocumento tipodoc ON tipodoc.codigo = docbase.tipodocumento
WHERE docbase.tipodocumento = 'GTIME'
  AND docbase.activo = 'S'
  AND NOT EXISTS (
    SELECT 1 FROM docestados de
    WHERE de.documento = docbase.id
      AND de.tipoestado = 'ANU'
      AND de.activa = 'S'
  )
ORDER BY RUTCONSIGNATARIO`

const (
	markGuideSQL   = `CALL sp_marcar_guia(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, @resultado)`
	changeMarkSQL  = `CALL sp_modificar_marca_guia(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, @resultado)`
	readResultSQL  = `SELECT @resultado`
	resetResultSQL = `SET @resultado = NULL`
)

// GuideStoreImpl 运单存储实现（MySQL）
type GuideStoreImpl struct {
	db *gorm.DB
}

// NewGuideStore 创建运单存储实例
func NewGuideStore(db *gorm.DB) GuideStore {
	return &GuideStoreImpl{db: db}
}

// ResolveManifestIDs 查询manifest候选主键
func (s *GuideStoreImpl) ResolveManifestIDs(ctx context.Context, number string) ([]etguide.ManifestID, error) {
	var ids []int64
	if err := s.db.WithContext(ctx).Raw(resolveManifestSQL, manifestDocType, number).Scan(&ids).Error; err != nil {
		return nil, classifyError(err)
	}

	out := make([]etguide.ManifestID, 0, len(ids))
	for _, id := range ids {
		out = append(out, etguide.ManifestID(id))
	}
	return out, nil
}

// ListGuides 查询运单，按列名组装原始行
func (s *GuideStoreImpl) ListGuides(ctx context.Context, manifestID etguide.ManifestID) ([]etguide.RawRow, error) {
	rows, err := s.db.WithContext(ctx).Raw(listGuidesSQL, int64(manifestID)).Rows()
	if err != nil {
		return nil, classifyError(err)
	}
	defer rows.Close()

	result, err := scanRawRows(rows)
	if err != nil {
		return nil, classifyError(err)
	}
	return result, nil
}

// MarkGuide 调用打标存储过程
func (s *GuideStoreImpl) MarkGuide(ctx context.Context, req *MarkRequest) (*RemoteResult, error) {
	return s.callProcedure(ctx, markGuideSQL,
		req.Ref.ID,
		req.Ref.DocumentNumber,
		req.Ref.DocTypeCode,
		req.Ref.DocTypeLabel,
		string(req.Motive),
		req.PersonID,
		req.Observation,
		req.Meta.InspectionType,
		req.Meta.Description,
		req.Meta.Proposal,
	)
}

// ChangeGuideMark 调用改标存储过程（作废 + 新建在存储过程内同一事务完成）
func (s *GuideStoreImpl) ChangeGuideMark(ctx context.Context, req *MarkRequest, discardReason string) (*RemoteResult, error) {
	return s.callProcedure(ctx, changeMarkSQL,
		req.Ref.ID,
		req.Ref.DocumentNumber,
		req.Ref.DocTypeCode,
		req.Ref.DocTypeLabel,
		string(req.Motive),
		req.PersonID,
		req.Observation,
		req.Meta.InspectionType,
		req.Meta.Description,
		req.Meta.Proposal,
		discardReason,
	)
}

// callProcedure 在独占连接上执行存储过程并读取 OUT 会话变量
// 连接在 Connection 回调返回时归还连接池（成功、失败、panic 均会释放）
func (s *GuideStoreImpl) callProcedure(ctx context.Context, stmt string, args ...interface{}) (*RemoteResult, error) {
	var sentinel sql.NullString

	err := s.db.WithContext(ctx).Connection(func(conn *gorm.DB) error {
		if err := conn.Exec(resetResultSQL).Error; err != nil {
			return err
		}
		if err := conn.Exec(stmt, args...).Error; err != nil {
			return err
		}
		return conn.Raw(readResultSQL).Scan(&sentinel).Error
	})
	if err != nil {
		return nil, classifyError(err)
	}

	return &RemoteResult{Sentinel: sentinel.String}, nil
}

// scanRawRows 逐行读取为 列名 -> 值，[]byte 转为 string
func scanRawRows(rows *sql.Rows) ([]etguide.RawRow, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]etguide.RawRow, 0)
	for rows.Next() {
		values := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(etguide.RawRow, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
