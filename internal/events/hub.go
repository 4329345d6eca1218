package events

import (
	"context"
	"sync/atomic"
)

const clientSendBuffer = 64

// Client is one subscriber of the hub.
type Client struct {
	id   string
	send chan []byte
}

// NewClient returns a subscriber with a buffered outbound queue.
func NewClient(id string) *Client {
	return &Client{id: id, send: make(chan []byte, clientSendBuffer)}
}

// Messages yields everything broadcast to the client. The channel closes when
// the client is unregistered or dropped for falling behind.
func (c *Client) Messages() <-chan []byte {
	return c.send
}

// Hub owns the subscriber registry. Only the Run goroutine touches clients.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	clients    map[string]*Client
	count      atomic.Int64
}

func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		done:       make(chan struct{}),
		clients:    make(map[string]*Client),
	}
}

// Run serves the registry until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			if old, ok := h.clients[c.id]; ok && old != c {
				close(old.send)
			}
			h.clients[c.id] = c
		case c := <-h.unregister:
			if cur, ok := h.clients[c.id]; ok && cur == c {
				delete(h.clients, c.id)
				close(c.send)
			}
		case msg := <-h.broadcast:
			for id, c := range h.clients {
				select {
				case c.send <- msg:
				default:
					delete(h.clients, id)
					close(c.send)
				}
			}
		case <-ctx.Done():
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.send)
			}
			h.count.Store(0)
			return
		}
		h.count.Store(int64(len(h.clients)))
	}
}

// Register adds c. It returns false when the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues msg for every client. It drops the message when the hub
// has stopped.
func (h *Hub) Broadcast(msg []byte) {
	select {
	case h.broadcast <- msg:
	case <-h.done:
	}
}

// Clients returns the number of registered subscribers.
func (h *Hub) Clients() int {
	return int(h.count.Load())
}
