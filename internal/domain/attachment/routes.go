package attachment

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.POST("/guest-calendar/bookings/:id/files", requireAuth, h.Upload)
	rg.DELETE("/booking-files/:id", requireAuth, h.Delete)
}
