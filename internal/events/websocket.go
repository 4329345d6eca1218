package events

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/mtsdigital/storefront/pkg/logger"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

type feedHello struct {
	Type     string `json:"type"`
	ClientID string `json:"clientId"`
}

// FeedHandler upgrades admin connections and streams hub broadcasts to them.
type FeedHandler struct {
	hub      *Hub
	logg     *logger.Logger
	upgrader websocket.Upgrader
}

// NewFeedHandler builds the websocket endpoint. checkOrigin may be nil to use
// the gorilla same-origin default.
func NewFeedHandler(hub *Hub, logg *logger.Logger, checkOrigin func(*http.Request) bool) *FeedHandler {
	if logg == nil {
		logg = logger.Nop()
	}
	return &FeedHandler{
		hub:  hub,
		logg: logg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

func (h *FeedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logg.Warn(r.Context(), "events.feed.upgrade_failed")
		return
	}

	client := NewClient(uuid.NewString())
	hello, _ := json.Marshal(feedHello{Type: "connected", ClientID: client.id})
	client.send <- hello
	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}

	go h.writePump(conn, client)
	go h.readPump(conn, client)
}

// readPump discards inbound frames; it exists to service pongs and detect
// disconnects.
func (h *FeedHandler) readPump(conn *websocket.Conn, c *Client) {
	defer func() {
		h.hub.Unregister(c)
		_ = conn.Close()
	}()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *FeedHandler) writePump(conn *websocket.Conn, c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
