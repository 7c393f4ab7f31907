package calendar

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth, optionalAuth gin.HandlerFunc) {
	rg.GET("/calendar/:host_username", optionalAuth, h.GetCalendar)
	rg.GET("/calendar/:host_username/time-slots", h.ListTimeSlots)
	rg.GET("/calendar/:host_username/bookings", h.ListHostMonthBookings)
	rg.POST("/calendar", requireAuth, h.CreateCalendar)
	rg.PATCH("/calendar", requireAuth, h.UpdateCalendar)

	rg.POST("/time-slots", requireAuth, h.CreateTimeSlot)

	bookings := rg.Group("/bookings", requireAuth)
	{
		bookings.POST("/:host_username", h.CreateBooking)
		bookings.GET("", h.ListHostBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PATCH("/:id", h.HostUpdateBooking)
		bookings.PATCH("/:id/status", h.UpdateAttendance)
	}

	guest := rg.Group("/guest-calendar", requireAuth)
	{
		guest.GET("/bookings", h.ListGuestBookings)
		guest.PATCH("/bookings/:id", h.GuestUpdateBooking)
	}
}
