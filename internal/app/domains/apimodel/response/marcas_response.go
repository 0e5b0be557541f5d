package response

import "time"

// Oid 运单主键包装
type Oid struct {
	ID int64 `json:"Id" example:"5157423"`
}

// GuiaCourier 运单投影
type GuiaCourier struct {
	Oid              Oid     `json:"Oid"`
	NumeroDoc        string  `json:"NumeroDoc" example:"843712644220"`
	CodigoTipoDoc    string  `json:"CodigoTipoDoc" example:"GTIME"`
	TipoDoc          string  `json:"TipoDoc" example:"GUIA TIME"`
	NombreEmisor     string  `json:"NombreEmisor" example:"FEDERAL EXPRESS"`
	TotalBultos      int64   `json:"TotalBultos" example:"1"`
	TotalPeso        float64 `json:"TotalPeso" example:"17"`
	TotalValor       float64 `json:"TotalValor" example:"36.92"`
	Consignante      string  `json:"Consignante"`
	Consignatario    string  `json:"Consignatario"`
	RutConsignatario string  `json:"rutconsignatario"`
	EstadoActual     string  `json:"EstadoActual"`
	Marcas           string  `json:"Marcas"`
	MotivoSeleccion  int64   `json:"MotivoSeleccion"`
	Transito         bool    `json:"Transito"`
}

// GuiasCourierResponse 查询结果，rowsCount 恒等于 len(guias)
type GuiasCourierResponse struct {
	Guias     []*GuiaCourier `json:"guias"`
	RowsCount int            `json:"rowsCount"`
}

// ResultadoGuia 单条运单处理结果
type ResultadoGuia struct {
	IDGuia          int64  `json:"idGuia"`
	NumeroDocumento string `json:"numeroDocumento"`
	Resultado       string `json:"resultado"`
	Success         bool   `json:"success"`
	CodigoError     string `json:"codigoError,omitempty"`
}

// MarcarResponse 批量打标结果
type MarcarResponse struct {
	IDLote        string           `json:"idLote"`
	Success       bool             `json:"success"`
	Message       string           `json:"message"`
	TotalGuias    int              `json:"totalGuias"`
	GuiasMarcadas int              `json:"guiasMarcadas"`
	GuiasConError int              `json:"guiasConError"`
	MotivoMarca   string           `json:"motivoMarca"`
	Timestamp     time.Time        `json:"timestamp"`
	Resultados    []*ResultadoGuia `json:"resultados"`
}

// ModificarResponse 批量改标结果
type ModificarResponse struct {
	IDLote           string           `json:"idLote"`
	Success          bool             `json:"success"`
	Message          string           `json:"message"`
	TotalGuias       int              `json:"totalGuias"`
	GuiasModificadas int              `json:"guiasModificadas"`
	GuiasConError    int              `json:"guiasConError"`
	MotivoMarca      string           `json:"motivoMarca"`
	MotivoDescarte   string           `json:"motivoDescarte"`
	Timestamp        time.Time        `json:"timestamp"`
	Resultados       []*ResultadoGuia `json:"resultados"`
}

// MarcaHistorial 台账中的一条标记
type MarcaHistorial struct {
	ID                int64     `json:"id"`
	IDGuia            int64     `json:"idGuia"`
	NumeroDocumento   string    `json:"numeroDocumento"`
	MotivoMarca       string    `json:"motivoMarca"`
	Observacion       string    `json:"observacion,omitempty"`
	IDPersona         int64     `json:"idPersona"`
	TipoFiscalizacion string    `json:"tipoFiscalizacion,omitempty"`
	Descripcion       string    `json:"descripcion,omitempty"`
	Propuesta         string    `json:"propuesta,omitempty"`
	MotivoDescarte    string    `json:"motivoDescarte,omitempty"`
	IDLote            string    `json:"idLote"`
	Activa            bool      `json:"activa"`
	FechaCreacion     time.Time `json:"fechaCreacion"`
	FechaModificacion time.Time `json:"fechaModificacion"`
}

// HistorialResponse 运单标记历史
type HistorialResponse struct {
	IDGuia int64             `json:"idGuia"`
	Marcas []*MarcaHistorial `json:"marcas"`
}
