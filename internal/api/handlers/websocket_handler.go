// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"medcamp-api-server/internal/auth"
	"medcamp-api-server/internal/logger"
	"medcamp-api-server/internal/socket"
)

// Longest silence tolerated from a client before the connection is dropped.
const pongWait = 30 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub    *socket.Hub
	Tokens *auth.TokenService
}

// ServeWs upgrades GET /ws?token= and streams camp events until the client
// goes away. Browsers cannot set headers on a websocket handshake, hence the
// query parameter.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		respondMessage(c, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
		return
	}
	claims, err := h.Tokens.Verify(tokenString)
	if err != nil {
		respondMessage(c, http.StatusUnauthorized, auth.ErrUnauthenticated.Error())
		return
	}

	l := logger.FromContext(c.Request.Context())
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l.Warn().Err(err).Msg("failed to upgrade connection")
		return
	}

	connID := uuid.NewString()
	h.Hub.Register(connID, conn)
	defer func() {
		h.Hub.Unregister(connID)
		conn.Close()
	}()

	// Client pings keep the connection alive. WriteControl may run
	// concurrently with the hub's writer.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return err
		}
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	// Inbound messages are ignored; the loop exists to notice disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l.Warn().Err(err).Str("email", claims.Email()).Msg("unexpected websocket close")
			}
			break
		}
	}
}
