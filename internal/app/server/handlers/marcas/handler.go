package marcas

import (
	"courier/marcas/internal/app/domains/services/svmarcas"
	"courier/marcas/internal/app/pkg/logger"
)

// MarcasHandler 运单打标 HTTP 处理器
type MarcasHandler struct {
	marcasService *svmarcas.MarcasService
	logger        logger.Logger
}

// NewMarcasHandler 创建处理器实例
func NewMarcasHandler(marcasService *svmarcas.MarcasService, logger logger.Logger) *MarcasHandler {
	return &MarcasHandler{
		marcasService: marcasService,
		logger:        logger,
	}
}
