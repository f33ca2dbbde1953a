package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"reversa-be/internal/pkg/logger"
	"reversa-be/pkg/reconcile"
)

// Envelope is the frame every websocket message travels in. Kind is
// "notification" for domain events and "dashboard" for snapshot pushes.
type Envelope struct {
	Kind string      `json:"kind"`
	Data interface{} `json:"data"`
}

// clusterFrame carries a frame between instances over Redis. Message embeds
// the already-marshalled Envelope as raw JSON so the receiving side relays
// the exact bytes; Origin lets the publishing instance drop its own echo.
type clusterFrame struct {
	Origin        string          `json:"origin"`
	TargetStoreID string          `json:"target_store_id"`
	Message       json.RawMessage `json:"message"`
}

// Hub fans messages out to every operator watching a store. Connections
// are keyed by StoreID: all operators of one merchant share the stream.
type Hub struct {
	clients map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Redis connection for cross-instance fanout
	rdb *redis.Client

	// instanceID identifies this process on the cluster channel.
	instanceID string

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		logger:     log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.StoreID] = append(h.clients[client.StoreID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"store_id": client.StoreID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.StoreID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.StoreID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.StoreID]) == 0 {
					delete(h.clients, client.StoreID)
					h.logger.Info("Hub", "Store fully disconnected", map[string]interface{}{"store_id": client.StoreID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Send delivers a domain-event notification to every operator of a store.
func (h *Hub) Send(storeID uuid.UUID, payload interface{}) {
	data, _ := json.Marshal(Envelope{Kind: "notification", Data: payload})
	h.deliver(storeID, data)
}

// Push implements the snapshot sink for the live dashboard sessions.
func (h *Hub) Push(storeID uuid.UUID, snap reconcile.Snapshot) {
	data, _ := json.Marshal(Envelope{Kind: "dashboard", Data: snap})
	h.deliver(storeID, data)
}

func (h *Hub) deliver(storeID uuid.UUID, data []byte) {
	h.fanoutLocal(storeID, data)

	// Other instances may hold connections for the same store.
	if h.rdb != nil {
		frame, _ := json.Marshal(clusterFrame{
			Origin:        h.instanceID,
			TargetStoreID: storeID.String(),
			Message:       json.RawMessage(data),
		})
		h.rdb.Publish(context.Background(), "cluster_events", frame)
	}
}

func (h *Hub) fanoutLocal(storeID uuid.UUID, data []byte) {
	h.mu.RLock()
	clients := h.clients[storeID]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"store_id": storeID})
			close(client.Send)
			h.unregister <- client
		}
	}
}

// handleClusterFrame relays one Redis payload to local clients. Frames this
// instance published are dropped so local viewers never see a duplicate.
func (h *Hub) handleClusterFrame(raw []byte) {
	var frame clusterFrame
	if err := json.Unmarshal(raw, &frame); err != nil {
		log.Printf("Redis msg parse error: %v", err)
		return
	}
	if frame.Origin == h.instanceID {
		return
	}

	storeID, err := uuid.Parse(frame.TargetStoreID)
	if err != nil {
		return
	}

	h.fanoutLocal(storeID, frame.Message)
}

func (h *Hub) subscribeToRedis() {
	// All instances subscribe to one channel and filter by the stores they
	// hold locally. Messages for stores without local clients are dropped.
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "cluster_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.handleClusterFrame([]byte(msg.Payload))
	}
}
