package feed

import (
	"hostcalendar/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("/ws/bookings", requireAuth, middleware.HostOnly(), h.ServeWS)
}
