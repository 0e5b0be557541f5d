package marcas

import (
	"github.com/gin-gonic/gin"

	"courier/marcas/internal/app/domains/apimodel/request"
	"courier/marcas/internal/app/domains/apimodel/response"
	"courier/marcas/internal/app/pkg/ginx"
)

// Marcar godoc
// @Summary      批量打标
// @Description  逐条调用存储过程打标；单条失败体现在 resultados 中，不影响其他运单
// @Tags         marcas
// @Accept       json
// @Produce      json
// @Param        body body request.MarcarRequest true "打标请求"
// @Success      200 {object} ginx.Response{data=response.MarcarResponse} "批次已处理（可能部分失败）"
// @Failure      400 {object} ginx.Response "校验失败，整批拒绝"
// @Failure      409 {object} ginx.Response "manifest未整合"
// @Router       /marcas/marcar [post]
func (h *MarcasHandler) Marcar(c *gin.Context) {
	var req request.MarcarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := h.marcasService.MarkBatch(ctx, req.ToMarkCommand())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromMarkResult(result))
}

// Modificar godoc
// @Summary      批量改标
// @Description  作废当前标记（motivoDescarte 至少 3 个字符）并以新原因重新打标
// @Tags         marcas
// @Accept       json
// @Produce      json
// @Param        body body request.ModificarRequest true "改标请求"
// @Success      200 {object} ginx.Response{data=response.ModificarResponse} "批次已处理（可能部分失败）"
// @Failure      400 {object} ginx.Response "校验失败，整批拒绝"
// @Router       /marcas/modificar [post]
func (h *MarcasHandler) Modificar(c *gin.Context) {
	var req request.ModificarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	ctx := c.Request.Context()
	result, err := h.marcasService.ChangeBatch(ctx, req.ToChangeCommand())
	if err != nil {
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromChangeResult(result))
}
