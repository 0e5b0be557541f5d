package marcas

import (
	"strings"

	"github.com/gin-gonic/gin"

	"courier/marcas/internal/app/domains/apimodel/request"
	"courier/marcas/internal/app/domains/apimodel/response"
	"courier/marcas/internal/app/pkg/ginx"
)

// ConsultaGuias godoc
// @Summary      查询manifest下的运单
// @Description  按manifest编号查询有效运单，按收件人税号排序；guiaCourier 为运单号精确过滤（不区分大小写）
// @Tags         marcas
// @Produce      json
// @Param        EdNroManifiesto query string true  "manifest编号（仅数字）"
// @Param        guiaCourier     query string false "运单号（字母数字）"
// @Success      200 {object} ginx.Response{data=response.GuiasCourierResponse} "查询成功"
// @Failure      400 {object} ginx.Response "格式错误"
// @Failure      404 {object} ginx.Response "manifest不存在"
// @Failure      503 {object} ginx.Response "数据库连接失败"
// @Router       /marcas/guias-courier [get]
func (h *MarcasHandler) ConsultaGuias(c *gin.Context) {
	var req request.ConsultaGuiasRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		ginx.BadRequestWithValidation(c, err)
		return
	}

	ctx := c.Request.Context()
	proj, err := h.marcasService.QueryGuides(ctx, strings.TrimSpace(req.EdNroManifiesto), strings.TrimSpace(req.GuiaCourier))
	if err != nil {
		h.logger.Warnf(ctx, "[MarcasHandler] query guides failed: manifiesto=%s err=%v", req.EdNroManifiesto, err)
		ginx.FromError(c, err)
		return
	}

	ginx.Success(c, response.FromGuides(proj.Guides))
}
