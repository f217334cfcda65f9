package session

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookeasy/internal/domain/identity"
	jwtsvc "bookeasy/internal/pkg/jwt"
)

func TestWSHandler_StreamsSnapshots(t *testing.T) {
	gin.SetMode(gin.TestMode)

	j := jwtsvc.New("ws-secret", time.Hour)
	token, err := j.GenerateToken("p1", "owner@example.com", jwtsvc.Metadata{UserType: "provider"})
	require.NoError(t, err)

	store := NewStore(NewMemoryBroker(), zerolog.Nop())
	h := NewWSHandler(store, identity.NewTokenVerifier(j), nil, zerolog.Nop())

	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/session/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	var snap Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	assert.True(t, snap.Authenticated)
	assert.Equal(t, identity.RoleProvider, snap.Role)
	assert.Equal(t, "/business", snap.HomePath)

	// the watcher is registered before the initial write
	require.True(t, store.Apply(Event{Kind: KindSignedOut, PrincipalID: "p1", Seq: 1}))

	require.NoError(t, conn.ReadJSON(&snap))
	assert.False(t, snap.Authenticated)
	assert.Equal(t, "/", snap.HomePath)
}

func TestWSHandler_RejectsBadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := NewStore(NewMemoryBroker(), zerolog.Nop())
	h := NewWSHandler(store, identity.NewTokenVerifier(jwtsvc.New("s", time.Hour)), nil, zerolog.Nop())
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/session/ws?token=garbage", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestOriginChecker(t *testing.T) {
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	check := originChecker([]string{"http://localhost:5173"})
	assert.True(t, check(req("http://localhost:5173")))
	assert.False(t, check(req("http://evil.example")))
	assert.True(t, check(req("")))

	assert.True(t, originChecker([]string{"*"})(req("http://any.example")))
	assert.True(t, originChecker(nil)(req("http://any.example")))
}
