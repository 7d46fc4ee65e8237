package websocket

import (
	"sync"
)

// clientSendBuffer bounds the per-client send queue. A client that
// cannot keep up is dropped; missed readings are not replayed.
const clientSendBuffer = 32

// Client is one connected subscriber. Topic is fixed at connect time:
// either the dashboard channel or a single patient channel.
type Client struct {
	Topic string
	Send  chan []byte
}

// Hub routes broadcast payloads to connected websocket clients by
// topic. Topics are the Redis channel names the relay listens on, so
// a payload travels redis channel -> hub topic -> client untouched.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

// Register adds a client to its topic.
func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.Topic] == nil {
		h.clients[client.Topic] = make(map[*Client]struct{})
	}
	h.clients[client.Topic][client] = struct{}{}
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subscribers, ok := h.clients[client.Topic]
	if !ok {
		return
	}
	if _, ok := subscribers[client]; !ok {
		return
	}

	delete(subscribers, client)
	if len(subscribers) == 0 {
		delete(h.clients, client.Topic)
	}
	close(client.Send)
}

// Broadcast delivers the payload to every subscriber of the topic.
// Clients with a full send buffer are skipped.
func (h *Hub) Broadcast(topic string, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[topic] {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

// SubscriberCount reports how many clients are subscribed to a topic.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}
