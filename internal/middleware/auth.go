package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bookeasy/internal/domain/identity"
	"bookeasy/internal/pkg/response"
)

// Refresher is told about every verified principal so session snapshots
// follow changes carried by newer tokens.
type Refresher interface {
	Refreshed(ctx context.Context, p identity.Principal) error
}

// Auth requires a valid bearer token and stores the principal under
// identity.ContextKey, plus "user_id" and "role".
func Auth(verifier identity.Verifier, refresher Refresher, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}
		token, ok := bearerToken(header)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be: Bearer <token>")
			return
		}

		p, err := verifier.Verify(c.Request.Context(), token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		setPrincipal(c, p)
		if refresher != nil {
			if err := refresher.Refreshed(c.Request.Context(), *p); err != nil {
				log.Warn().Err(err).Str("user_id", p.ID).Msg("session refresh not published")
			}
		}
		c.Next()
	}
}

// OptionalAuth stores the principal when a valid bearer token is present
// and lets every request through.
func OptionalAuth(verifier identity.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if p, err := verifier.Verify(c.Request.Context(), token); err == nil {
				setPrincipal(c, p)
			}
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p *identity.Principal) {
	c.Set(identity.ContextKey, p)
	c.Set("user_id", p.ID)
	c.Set("role", string(p.Role()))
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
