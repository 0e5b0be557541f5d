package response

import (
	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
)

// FromGuides 从投影结果转换为响应 DTO
func FromGuides(guides []*etguide.Guide) *GuiasCourierResponse {
	out := make([]*GuiaCourier, 0, len(guides))
	for _, g := range guides {
		out = append(out, &GuiaCourier{
			Oid:              Oid{ID: g.ID},
			NumeroDoc:        g.DocumentNumber,
			CodigoTipoDoc:    g.DocTypeCode,
			TipoDoc:          g.DocTypeLabel,
			NombreEmisor:     g.IssuerName,
			TotalBultos:      g.Pieces,
			TotalPeso:        g.Weight,
			TotalValor:       g.DeclaredValue,
			Consignante:      g.Consignor,
			Consignatario:    g.Consignee,
			RutConsignatario: g.ConsigneeTaxID,
			EstadoActual:     g.CurrentState,
			Marcas:           g.Marks,
			MotivoSeleccion:  g.SelectionMotive,
			Transito:         g.InTransit,
		})
	}
	return &GuiasCourierResponse{
		Guias:     out,
		RowsCount: len(out),
	}
}

// FromMarkResult 批量打标结果
func FromMarkResult(r *etmark.BatchResult) *MarcarResponse {
	return &MarcarResponse{
		IDLote:        r.BatchID,
		Success:       r.Success,
		Message:       r.Message,
		TotalGuias:    r.Total,
		GuiasMarcadas: r.Succeeded,
		GuiasConError: r.Errored,
		MotivoMarca:   string(r.Motive),
		Timestamp:     r.Timestamp,
		Resultados:    fromOutcomes(r.Items),
	}
}

// FromChangeResult 批量改标结果
func FromChangeResult(r *etmark.BatchResult) *ModificarResponse {
	return &ModificarResponse{
		IDLote:           r.BatchID,
		Success:          r.Success,
		Message:          r.Message,
		TotalGuias:       r.Total,
		GuiasModificadas: r.Succeeded,
		GuiasConError:    r.Errored,
		MotivoMarca:      string(r.Motive),
		MotivoDescarte:   r.DiscardReason,
		Timestamp:        r.Timestamp,
		Resultados:       fromOutcomes(r.Items),
	}
}

func fromOutcomes(items []etmark.ItemOutcome) []*ResultadoGuia {
	out := make([]*ResultadoGuia, 0, len(items))
	for _, item := range items {
		out = append(out, &ResultadoGuia{
			IDGuia:          item.GuideID,
			NumeroDocumento: item.DocumentNumber,
			Resultado:       item.Result,
			Success:         item.Success,
			CodigoError:     string(item.ErrorCode),
		})
	}
	return out
}

// FromHistory 台账历史
func FromHistory(guideID int64, marks []*etmark.Mark) *HistorialResponse {
	out := make([]*MarcaHistorial, 0, len(marks))
	for _, m := range marks {
		out = append(out, &MarcaHistorial{
			ID:                m.ID,
			IDGuia:            m.GuideID,
			NumeroDocumento:   m.DocumentNumber,
			MotivoMarca:       string(m.Motive),
			Observacion:       m.Observation,
			IDPersona:         m.PersonID,
			TipoFiscalizacion: m.Meta.InspectionType,
			Descripcion:       m.Meta.Description,
			Propuesta:         m.Meta.Proposal,
			MotivoDescarte:    m.DiscardReason,
			IDLote:            m.BatchID,
			Activa:            m.Active,
			FechaCreacion:     m.CreatedAt,
			FechaModificacion: m.UpdatedAt,
		})
	}
	return &HistorialResponse{IDGuia: guideID, Marcas: out}
}
