package routers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courier/marcas/internal/app/pkg/logger"
	"courier/marcas/internal/app/server/handlers/marcas"
	"courier/marcas/internal/app/server/middlewares"
)

// Options 路由配置
type Options struct {
	ServiceName string
	CORSOrigin  string
}

// SetupRoutes 配置所有路由，使用 Route Group 分类
func SetupRoutes(marcasHandler *marcas.MarcasHandler, opts Options, log logger.Logger) *gin.Engine {
	r := gin.New()

	r.Use(middlewares.CORS(opts.CORSOrigin))
	r.Use(middlewares.Logger(log))
	r.Use(middlewares.ErrorHandler(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": opts.ServiceName,
			"message": "Service is running",
		})
	})

	v1 := r.Group("/api/v1")
	{
		m := v1.Group("/marcas")
		{
			m.GET("/guias-courier", marcasHandler.ConsultaGuias)
			m.POST("/marcar", marcasHandler.Marcar)
			m.POST("/modificar", marcasHandler.Modificar)
			m.GET("/guias/:id/historial", marcasHandler.Historial)
		}
	}

	return r
}
