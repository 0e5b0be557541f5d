package request

import (
	"courier/marcas/internal/app/domains/entity/etguide"
	"courier/marcas/internal/app/domains/entity/etmark"
)

// ToMarkCommand 转换为打标命令
func (r *MarcarRequest) ToMarkCommand() *etmark.MarkCommand {
	guides := make([]etguide.GuideRef, 0, len(r.Guias))
	for _, g := range r.Guias {
		// null 元素保留位置，执行时按运单不存在处理
		if g == nil {
			guides = append(guides, etguide.GuideRef{})
			continue
		}
		guides = append(guides, etguide.GuideRef{
			ID:             g.IDGuiaCourier,
			DocumentNumber: g.NumeroDocumento,
			DocTypeCode:    g.CodigoTipoDocumento,
			DocTypeLabel:   g.TipoDocumento,
		})
	}

	return &etmark.MarkCommand{
		ManifestID:  etguide.ManifestID(r.IDManifiesto),
		Motive:      etmark.MotiveCode(r.MotivoMarca),
		Guides:      guides,
		PersonID:    r.IDPersona,
		Observation: r.Observacion,
		Meta: etmark.Meta{
			InspectionType: r.TipoFiscalizacion,
			Description:    r.Descripcion,
			Proposal:       r.Propuesta,
		},
	}
}

// ToChangeCommand 转换为改标命令
func (r *ModificarRequest) ToChangeCommand() *etmark.ChangeCommand {
	return &etmark.ChangeCommand{
		MarkCommand:   *r.MarcarRequest.ToMarkCommand(),
		DiscardReason: r.MotivoDescarte,
	}
}
