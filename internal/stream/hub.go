package stream

import (
	"bytes"
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Hub fans live tracking events out to a user's connected websockets.
// Events are also published through redis so every server instance sees
// them, not just the one running the user's engine. Published messages
// carry the producing hub's id so the producer drops its own echo and
// local subscribers see each event exactly once.
type Hub struct {
	id      string
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	UserID string
	Send   chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		id:      uuid.NewString(),
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(userID string) *Client {
	client := &Client{
		UserID: userID,
		Send:   make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = map[*Client]struct{}{}
	}
	h.clients[userID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if userClients, ok := h.clients[client.UserID]; ok {
		delete(userClients, client)
		if len(userClients) == 0 {
			delete(h.clients, client.UserID)
		}
	}
	close(client.Send)
}

// Broadcast delivers the payload to local subscribers and publishes it
// for other instances. Slow subscribers are skipped, never blocked on.
func (h *Hub) Broadcast(userID string, payload []byte) {
	h.deliverLocal(userID, payload)

	if h.redis != nil {
		msg := wrapEnvelope(h.id, payload)
		err := h.redis.Publish(context.Background(), redisChannel(userID), msg).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) deliverLocal(userID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[userID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	pubsub := h.redis.PSubscribe(context.Background(), "tracking:*:broadcast")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		src, payload := splitEnvelope([]byte(msg.Payload))
		if src == h.id {
			// Our own publish; local clients already had it.
			continue
		}
		h.deliverLocal(userIDFromChannel(msg.Channel), payload)
	}
}

// wrapEnvelope prefixes the payload with the producing hub's id. The
// payloads are JSON and never contain '|' before the first brace.
func wrapEnvelope(src string, payload []byte) []byte {
	out := make([]byte, 0, len(src)+1+len(payload))
	out = append(out, src...)
	out = append(out, '|')
	return append(out, payload...)
}

func splitEnvelope(msg []byte) (string, []byte) {
	i := bytes.IndexByte(msg, '|')
	if i < 0 {
		return "", msg
	}
	return string(msg[:i]), msg[i+1:]
}

func redisChannel(userID string) string {
	return "tracking:" + userID + ":broadcast"
}

func userIDFromChannel(ch string) string {
	// tracking:{user}:broadcast
	const prefix = "tracking:"
	const suffix = ":broadcast"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
