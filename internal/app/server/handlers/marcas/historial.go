package marcas

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"courier/marcas/internal/app/domains/apimodel/response"
	"courier/marcas/internal/app/pkg/errorx"
	"courier/marcas/internal/app/pkg/ginx"
)

// Historial 运单标记历史
// GET /api/v1/marcas/guias/:id/historial
func (h *MarcasHandler) Historial(c *gin.Context) {
	guideID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		ginx.FromError(c, errorx.New(errorx.CodeInvalidRequest, "ID de guía inválido").WithDetail("id", c.Param("id")))
		return
	}

	ctx := c.Request.Context()
	marks, err := h.marcasService.History(ctx, guideID)
	if err != nil {
		h.logger.Warnf(ctx, "[MarcasHandler] history of guide %d failed: %v", guideID, err)
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromHistory(guideID, marks))
}
