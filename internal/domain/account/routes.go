package account

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	acc := rg.Group("/account")
	{
		acc.POST("/signup", h.Signup)
		acc.POST("/login", h.Login)
		acc.DELETE("/logout", h.Logout)
		acc.GET("/users/:username", h.GetUser)
		acc.GET("/@me", requireAuth, h.Me)
		acc.PATCH("/@me", requireAuth, h.UpdateMe)
	}
}
