package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"bookeasy/internal/domain/identity"
	"bookeasy/internal/domain/navigation"
	"bookeasy/internal/pkg/response"
)

const (
	pingInterval = 30 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second
)

// WSHandler pushes the caller's session snapshots so a client can re-route
// as soon as its role or session changes.
type WSHandler struct {
	store    *Store
	verifier identity.Verifier
	upgrader websocket.Upgrader
	log      zerolog.Logger
}

// NewWSHandler accepts connections from allowedOrigins; an empty list or "*"
// accepts any origin.
func NewWSHandler(store *Store, verifier identity.Verifier, allowedOrigins []string, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		store:    store,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		log: log.With().Str("component", "session.ws").Logger(),
	}
}

func (h *WSHandler) RegisterRoutes(v1 *gin.RouterGroup) {
	v1.GET("/session/ws", h.Handle)
}

// Handle serves GET /session/ws?token=JWT. Browsers cannot set headers on
// the upgrade request, so the token travels in the query.
func (h *WSHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}
	if token == "" {
		response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "Token is required")
		return
	}
	p, err := h.verifier.Verify(c.Request.Context(), token)
	if err != nil {
		response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	snapshots, stop := h.store.Watch(p.ID)
	defer stop()

	initial, ok := h.store.Current(p.ID)
	if !ok {
		role := p.Role()
		initial = Snapshot{
			PrincipalID:   p.ID,
			Authenticated: true,
			Principal:     p,
			Role:          role,
			HomePath:      navigation.HomePath(role),
		}
	}
	if err := write(conn, initial); err != nil {
		return
	}

	h.log.Debug().Str("principal_id", p.ID).Msg("session stream opened")

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case snap, ok := <-snapshots:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}
			if err := write(conn, snap); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// readLoop only drains control frames; clients send nothing meaningful.
func (h *WSHandler) readLoop(conn *websocket.Conn, closed chan<- struct{}) {
	defer close(closed)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Debug().Err(err).Msg("session stream closed")
			}
			return
		}
	}
}

func write(conn *websocket.Conn, snap Snapshot) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(snap)
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(set) == 0 || set[origin]
	}
}
