package identity

import (
	"github.com/gin-gonic/gin"

	jwtsvc "bookeasy/internal/pkg/jwt"
)

// ContextKey is the gin context key holding the authenticated *Principal.
const ContextKey = "principal"

// Principal is an authenticated identity as seen in a verified token. It is
// owned by the identity provider; only the role derived from it matters here.
type Principal struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name,omitempty"`
	DeclaredRole string `json:"user_type,omitempty"`
}

// Role re-resolves on every call so no stale role outlives a session change.
func (p Principal) Role() Role {
	return ResolveRole(p.Email, p.DeclaredRole)
}

func principalFromClaims(c *jwtsvc.Claims) *Principal {
	return &Principal{
		ID:           c.Subject,
		Email:        c.Email,
		Name:         c.UserMetadata.Name,
		DeclaredRole: c.UserMetadata.UserType,
	}
}

// FromGin returns the principal stored by the auth middleware.
func FromGin(c *gin.Context) (*Principal, bool) {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil, false
	}
	p, ok := v.(*Principal)
	return p, ok && p != nil
}
