package reservation

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the customer's booking endpoints.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	reservations := protected.Group("/reservations")
	{
		reservations.GET("", h.ListMine)
		reservations.POST("", h.Create)
		reservations.GET("/:id", h.Get)
	}
}

func (h *Handler) RegisterProviderRoutes(provider *gin.RouterGroup) {
	reservations := provider.Group("/reservations")
	{
		reservations.GET("", h.ListForProvider)
		reservations.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	reservations := admin.Group("/reservations")
	{
		reservations.GET("", h.ListAll)
		reservations.PATCH("/:id/status", h.UpdateStatus)
		reservations.DELETE("/:id", h.Delete)
	}
}
