package handler

import (
	"net/http"
	"time"

	"telecare/config"
	"telecare/internal/auth"
	"telecare/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	signalWriteWait  = 10 * time.Second
	signalPongWait   = 60 * time.Second
	signalPingPeriod = (signalPongWait * 9) / 10
)

var signalUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeSignalWS is the signaling socket. Query: token. The connection is
// authenticated by JWT; the client then sends a register event to become
// reachable, after which call-user / answer-call / ice-candidate / end-call
// events are relayed to their addressees. The presence entry is removed
// synchronously when the connection closes, never lazily.
func UpgradeSignalWS(cfg *config.JWTConfig, registry ws.Registry, relay *ws.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := signalUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := ws.NewClient(claims.UserID, claims.Role)
		defer func() {
			registry.Unregister(client)
			client.Close()
		}()

		go func() {
			ticker := time.NewTicker(signalPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						conn.WriteMessage(websocket.CloseMessage, nil)
						return
					}
					conn.SetWriteDeadline(time.Now().Add(signalWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(signalWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()

		conn.SetReadDeadline(time.Now().Add(signalPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(signalPongWait))
			return nil
		})
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			relay.HandleMessage(client, raw)
		}
	}
}
