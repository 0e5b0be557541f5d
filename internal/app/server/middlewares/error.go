package middlewares

import (
	"github.com/gin-gonic/gin"

	"courier/marcas/internal/app/pkg/ginx"
	"courier/marcas/internal/app/pkg/logger"
)

// ErrorHandler 统一错误处理中间件
// 捕获 panic 转为 500；处理器通过 c.Error 挂载但未写响应的错误按业务错误码输出
func ErrorHandler(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf(c.Request.Context(), "[ErrorHandler] panic on %s %s: %v", c.Request.Method, c.FullPath(), r)
				ginx.InternalError(c, "Error interno del servidor")
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			ginx.FromError(c, c.Errors.Last().Err)
		}
	}
}
