package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookeasy/internal/domain/identity"
	"bookeasy/internal/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type recordingRefresher struct {
	seen []identity.Principal
}

func (r *recordingRefresher) Refreshed(_ context.Context, p identity.Principal) error {
	r.seen = append(r.seen, p)
	return nil
}

func newAuthRouter(t *testing.T, jwtService *jwt.Service, refresher Refresher) *gin.Engine {
	t.Helper()
	router := gin.New()
	router.Use(Auth(identity.NewTokenVerifier(jwtService), refresher, zerolog.Nop()))
	router.GET("/protected", func(c *gin.Context) {
		p, ok := identity.FromGin(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
			"email":   p.Email,
		})
	})
	return router
}

func TestAuth_ValidToken(t *testing.T) {
	jwtService := jwt.New("test-secret-123", time.Hour)
	token, err := jwtService.GenerateToken("user-42", "pro@example.com", jwt.Metadata{UserType: "provider"})
	require.NoError(t, err)

	refresher := &recordingRefresher{}
	router := newAuthRouter(t, jwtService, refresher)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user-42"`)
	assert.Contains(t, w.Body.String(), `"role":"provider"`)
	require.Len(t, refresher.seen, 1)
	assert.Equal(t, "user-42", refresher.seen[0].ID)
}

func TestAuth_Rejections(t *testing.T) {
	signer := jwt.New("wrong-secret", time.Hour)
	foreign, err := signer.GenerateToken("user-1", "a@example.com", jwt.Metadata{})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"no header", "", "AUTH_HEADER_MISSING"},
		{"basic scheme", "Basic dGVzdA==", "INVALID_AUTH_FORMAT"},
		{"empty bearer", "Bearer   ", "INVALID_AUTH_FORMAT"},
		{"garbage", "Bearer invalid-jwt-here", "INVALID_TOKEN"},
		{"other secret", "Bearer " + foreign, "INVALID_TOKEN"},
	}

	router := gin.New()
	router.Use(Auth(identity.NewTokenVerifier(jwt.New("secret", time.Hour)), nil, zerolog.Nop()))
	router.GET("/protected", func(c *gin.Context) {
		t.Fatal("handler must not be reached")
	})

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tc.code)
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtService := jwt.New("secret", time.Hour)
	token, err := jwtService.GenerateToken("user-7", "c@example.com", jwt.Metadata{})
	require.NoError(t, err)

	router := gin.New()
	router.Use(OptionalAuth(identity.NewTokenVerifier(jwtService)))
	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("role"))
	})

	for header, want := range map[string]string{
		"":                      "",
		"Bearer broken":         "",
		"Bearer " + token:       "customer",
		"bearer " + token + " ": "customer",
	} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, w.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	withPrincipal := func(p *identity.Principal) gin.HandlerFunc {
		return func(c *gin.Context) {
			if p != nil {
				c.Set(identity.ContextKey, p)
			}
			c.Next()
		}
	}

	cases := []struct {
		name string
		p    *identity.Principal
		want int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"customer", &identity.Principal{ID: "c", Email: "c@example.com"}, http.StatusForbidden},
		{"provider", &identity.Principal{ID: "p", Email: "p@example.com", DeclaredRole: "provider"}, http.StatusOK},
		{"admin", &identity.Principal{ID: "a", Email: identity.AdminEmail}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(withPrincipal(tc.p), RequireRole(identity.RoleProvider, identity.RoleAdministrator))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
