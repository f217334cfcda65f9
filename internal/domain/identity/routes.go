package identity

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes exposes sign-up and sign-in; only mounted when the
// local identity provider is active.
func (h *Handler) RegisterPublicRoutes(v1 *gin.RouterGroup) {
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/signin", h.SignIn)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	auth := protected.Group("/auth")
	{
		auth.POST("/signout", h.SignOut)
		auth.GET("/session", h.Session)
	}
}
