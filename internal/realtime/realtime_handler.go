package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browsers send the app origin; same-origin policy is enforced at the
	// gateway, so the upgrade itself accepts any origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Handler struct {
	hub    *Hub
	logger *zap.Logger
}

func NewHandler(hub *Hub, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("realtime.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.handler")
	}
	return &Handler{hub: hub, logger: l}
}

// Serve upgrades the connection and pumps events until the client goes
// away. The client starts subscribed to its own notifications; subscribe
// messages can replace the channel set within its company.
func (h *Handler) Serve(c *gin.Context) {
	companyID := c.GetString("company_id")
	userID := c.GetString("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, 16),
		Subscription: Subscription{
			CompanyID: companyID,
			UserID:    userID,
			Channels:  []string{ChannelNotifications},
		},
	}
	h.hub.Register(client)

	go h.writePump(conn, client)
	h.readPump(conn, client, companyID, userID)
}

func (h *Handler) readPump(conn *websocket.Conn, client *Client, companyID, userID string) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		msg, ok := ParseSubscribe(data)
		if !ok {
			continue
		}
		if msg.Action == "unsubscribe" {
			h.hub.UpdateSubscription(client, Subscription{CompanyID: companyID, UserID: userID})
			continue
		}
		h.hub.UpdateSubscription(client, Subscription{
			CompanyID: companyID,
			UserID:    userID,
			Channels:  msg.Channels,
		})
	}
}

func (h *Handler) writePump(conn *websocket.Conn, client *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case msg, ok := <-client.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
