// Package realtime fans notification and chat events out to connected
// websocket clients. Delivery is best effort: the store of record is the
// database, the push is only a hint to refresh.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	ChannelNotifications = "notifications"
	ChannelChat          = "chat"
)

// Subscription narrows which events a client receives. CompanyID and
// UserID are always taken from the client's token; the channel set comes
// from the subscribe message. An empty set receives nothing.
type Subscription struct {
	CompanyID string
	UserID    string
	Channels  []string
}

// Target addresses one broadcast. An empty UserID reaches every client
// in the company subscribed to the channel.
type Target struct {
	CompanyID string
	UserID    string
	Channel   string
}

type Client struct {
	ID           string
	Send         chan []byte
	Subscription Subscription
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	logger  *zap.Logger
}

type SubscribeMessage struct {
	Action   string   `json:"action"`
	Channels []string `json:"channels"`
}

// Event is the envelope pushed to clients.
type Event struct {
	Type      string    `json:"type"`
	Payload   any       `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

func NewHub(logger ...*zap.Logger) *Hub {
	l := zap.L().Named("realtime.hub")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("realtime.hub")
	}
	return &Hub{clients: make(map[string]*Client), logger: l}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.ID] = client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)
}

func (h *Hub) UpdateSubscription(client *Client, sub Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	client.Subscription = sub
}

// Broadcast delivers the event to every matching client. A client whose
// send buffer is full is skipped rather than blocking the caller.
func (h *Hub) Broadcast(event Event, target Target) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal realtime event failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.clients {
		if !match(client.Subscription, target) {
			continue
		}
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn("dropping realtime event for slow client",
				zap.String("client_id", client.ID),
			)
		}
	}
}

func match(sub Subscription, target Target) bool {
	if sub.CompanyID == "" || target.CompanyID != sub.CompanyID {
		return false
	}
	if target.UserID != "" && sub.UserID != target.UserID {
		return false
	}
	if target.Channel != "" && !subscribed(sub.Channels, target.Channel) {
		return false
	}
	return true
}

func subscribed(channels []string, channel string) bool {
	for _, c := range channels {
		if c == channel {
			return true
		}
	}
	return false
}

func ParseSubscribe(data []byte) (SubscribeMessage, bool) {
	var msg SubscribeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return SubscribeMessage{}, false
	}
	if msg.Action != "subscribe" && msg.Action != "unsubscribe" {
		return SubscribeMessage{}, false
	}
	return msg, true
}
