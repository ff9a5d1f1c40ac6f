package relay

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts POST /process behind the given gate middleware.
func RegisterRoutes(router gin.IRoutes, h *Handler, gate ...gin.HandlerFunc) {
	handlers := make([]gin.HandlerFunc, 0, len(gate)+1)
	handlers = append(handlers, gate...)
	router.POST("/process", append(handlers, h.Process)...)
}
