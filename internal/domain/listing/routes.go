package listing

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts customer browsing on an authenticated group.
func (h *Handler) RegisterRoutes(protected *gin.RouterGroup) {
	listings := protected.Group("/listings")
	{
		listings.GET("", h.Browse)
		listings.GET("/:id", h.Get)
	}
}

// RegisterProviderRoutes mounts the provider dashboard on a group already
// gated to providers.
func (h *Handler) RegisterProviderRoutes(provider *gin.RouterGroup) {
	listings := provider.Group("/listings")
	{
		listings.GET("", h.ListOwn)
		listings.POST("", h.Create)
		listings.PUT("/:id", h.Update)
		listings.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	listings := admin.Group("/listings")
	{
		listings.GET("", h.ListAll)
		listings.PATCH("/:id/status", h.SetStatus)
		listings.PUT("/:id", h.Update)
		listings.DELETE("/:id", h.Delete)
	}
}
