package navigation

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookeasy/internal/domain/identity"
	"bookeasy/internal/pkg/response"
)

type Handler struct{}

func NewHandler() *Handler { return &Handler{} }

// RegisterRoutes mounts the navigation decision endpoint. The group should run optional
// authentication so anonymous callers get the login outcome.
func (h *Handler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/navigation", h.Decide)
}

type decisionResponse struct {
	Requested     string        `json:"requested"`
	View          View          `json:"view"`
	Authenticated bool          `json:"authenticated"`
	Role          identity.Role `json:"role,omitempty"`
	Outcome
}

// Decide answers whether the caller may open ?path= or where to go instead.
func (h *Handler) Decide(c *gin.Context) {
	path := c.DefaultQuery("path", "/")
	view := Resolve(path)

	var role identity.Role
	p, authenticated := identity.FromGin(c)
	if authenticated {
		role = p.Role()
	}

	response.Success(c, http.StatusOK, decisionResponse{
		Requested:     path,
		View:          view,
		Authenticated: authenticated,
		Role:          role,
		Outcome:       Decide(authenticated, role, view),
	})
}
