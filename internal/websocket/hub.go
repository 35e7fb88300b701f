package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"plantpal-be/internal/pkg/logger"
)

const DefaultClusterChannel = "plantpal_cluster_events"

// Hub fans session events out to the sockets watching each session.
type Hub struct {
	// Registered clients: SessionId -> set of sockets (several tabs may watch one session)
	clients map[uuid.UUID]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance delivery, nil when running alone
	rdb        *redis.Client
	channel    string
	instanceId string

	logger logger.ILogger
}

type clusterMessage struct {
	Origin    string          `json:"origin"`
	SessionId uuid.UUID       `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, channel string, log logger.ILogger) *Hub {
	if channel == "" {
		channel = DefaultClusterChannel
	}
	return &Hub{
		clients:    make(map[uuid.UUID]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		channel:    channel,
		instanceId: uuid.NewString(),
		logger:     log,
	}
}

// Run processes registrations until ctx is done, then closes every client.
func (h *Hub) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	if h.rdb != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.subscribeToRedis(ctx)
		}()
	}
	defer wg.Wait()
	defer h.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.SessionId] == nil {
				h.clients[client.SessionId] = make(map[*Client]struct{})
			}
			h.clients[client.SessionId][client] = struct{}{}
			h.mu.Unlock()
			h.logger.Info(logger.ModuleHub, "Client registered", map[string]interface{}{"session_id": client.SessionId.String()})

		case client := <-h.unregister:
			h.mu.Lock()
			h.removeLocked(client)
			h.mu.Unlock()
		}
	}
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		for _, clients := range h.clients {
			for client := range clients {
				h.removeLocked(client)
			}
		}
		h.mu.Unlock()
	})
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.SessionId]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.Send)
	if len(clients) == 0 {
		delete(h.clients, client.SessionId)
		h.logger.Info(logger.ModuleHub, "Session has no more clients", map[string]interface{}{"session_id": client.SessionId.String()})
	}
}

// Register adds client. It returns false if the hub has stopped.
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) ClientCount(sessionId uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionId])
}

// Deliver implements service.SessionEventDelivery.
func (h *Hub) Deliver(sessionId uuid.UUID, payload []byte) {
	h.deliverLocal(sessionId, payload)

	if h.rdb != nil {
		jsonPayload, _ := json.Marshal(clusterMessage{
			Origin:    h.instanceId,
			SessionId: sessionId,
			Message:   payload,
		})
		if err := h.rdb.Publish(context.Background(), h.channel, jsonPayload).Err(); err != nil {
			h.logger.Warn(logger.ModuleHub, "Redis publish failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(sessionId uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients[sessionId] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn(logger.ModuleHub, "Client send buffer full, disconnecting", map[string]interface{}{"session_id": sessionId.String()})
			go h.Unregister(client)
		}
	}
}

// Every instance subscribes to one channel and keeps only messages for sessions
// it holds locally. Its own messages are skipped, they were delivered already.
func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, h.channel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn(logger.ModuleHub, "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			if payload.Origin == h.instanceId {
				continue
			}
			h.deliverLocal(payload.SessionId, payload.Message)
		}
	}
}
