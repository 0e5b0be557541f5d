package request

// ConsultaGuiasRequest 查询manifest下运单
type ConsultaGuiasRequest struct {
	EdNroManifiesto string `form:"EdNroManifiesto" example:"5157422"`
	GuiaCourier     string `form:"guiaCourier" example:"843712644220"`
}

// Guia 待打标运单引用
type Guia struct {
	IDGuiaCourier       int64  `json:"idGuiaCourier" example:"5157423"`
	NumeroDocumento     string `json:"numeroDocumento" example:"843712644220"`
	CodigoTipoDocumento string `json:"codigoTipoDocumento" example:"GTIME"`
	TipoDocumento       string `json:"tipoDocumento" example:"GUIA TIME"`
}

// MarcarRequest 批量打标请求
// motivoMarca 与 guias 的合法性由业务校验给出（INVALID_MOTIVO_MARCA / EMPTY_GUIDE_SET）
type MarcarRequest struct {
	IDManifiesto      int64   `json:"idManifiesto" example:"5157422"`
	MotivoMarca       string  `json:"motivoMarca" example:"F"`
	Guias             []*Guia `json:"guias"`
	IDPersona         int64   `json:"idPersona" binding:"required,gt=0" example:"1234"`
	Observacion       string  `json:"observacion" binding:"max=500" example:"Revisión documental"`
	TipoFiscalizacion string  `json:"tipoFiscalizacion" example:"DOCUMENTAL"`
	Descripcion       string  `json:"descripcion" example:"Mercancía sujeta a control"`
	Propuesta         string  `json:"propuesta" example:"AFORO"`
}

// ModificarRequest 批量改标请求
type ModificarRequest struct {
	MarcarRequest
	MotivoDescarte string `json:"motivoDescarte" binding:"max=500" example:"Error de digitación"`
}
