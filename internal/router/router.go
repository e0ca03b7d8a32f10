package router

import (
	"github.com/gin-gonic/gin"

	"github.com/seiflotfy/huffpack/internal/handler"
)

// Dependencies are the handlers Register mounts.
type Dependencies struct {
	CodecHandler *handler.CodecHandler
}

// Register adds the health check and the /api/v1 routes to r.
func Register(r *gin.Engine, d Dependencies) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	v1 := r.Group("/api/v1")
	{
		v1.POST("/compress", d.CodecHandler.Compress)
		v1.POST("/decompress", d.CodecHandler.Decompress)
	}
}
