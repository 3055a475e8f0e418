// Package ws streams dashboard payloads to connected WebSocket clients
// as auto-mode ticks complete.
package ws

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/geosentinal/slope-risk-service/internal/dashboard"
	"github.com/geosentinal/slope-risk-service/internal/engine"
	"github.com/geosentinal/slope-risk-service/internal/observability"
)

// subscriberBuffer bounds the per-client queue. A client that cannot
// keep up skips payloads rather than stalling the broadcast.
const subscriberBuffer = 8

type subscriber struct {
	id   uuid.UUID
	send chan dashboard.Payload
}

// Hub fans completed ticks out to WebSocket dashboard clients.
// It implements engine.Sink and http.Handler.
type Hub struct {
	assembler *dashboard.Assembler
	logger    *slog.Logger
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader

	mu          sync.Mutex
	subscribers map[uuid.UUID]*subscriber
}

// NewHub creates a Hub broadcasting payloads assembled from ticks.
func NewHub(assembler *dashboard.Assembler, logger *slog.Logger, metrics *observability.Metrics) *Hub {
	return &Hub{
		assembler: assembler,
		logger:    logger,
		metrics:   metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		subscribers: make(map[uuid.UUID]*subscriber),
	}
}

// PublishTick assembles the dashboard payload for a tick and queues it
// to every connected client. The overlay is included whenever the DEM
// artifact is available; server-driven pushes have no per-client
// toggle.
func (h *Hub) PublishTick(_ context.Context, tick engine.TickResult) error {
	payload, err := h.assembler.Assemble(tick, h.assembler.HasOverlay())
	if err != nil {
		return fmt.Errorf("ws broadcast: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subscribers {
		select {
		case sub.send <- payload:
		default:
			h.logger.Debug("dropping payload for slow client", "subscriber", sub.id, "tick_id", tick.TickID)
		}
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// ServeHTTP upgrades the connection and streams payloads until the
// client disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub := &subscriber{id: uuid.New(), send: make(chan dashboard.Payload, subscriberBuffer)}
	h.register(sub)
	defer h.unregister(sub)

	// Reader goroutine: the dashboard protocol is push-only, so inbound
	// reads exist solely to observe the close handshake.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case payload := <-sub.send:
			if err := conn.WriteJSON(payload); err != nil {
				h.logger.Debug("websocket write failed", "subscriber", sub.id, "error", err)
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
	}
}

func (h *Hub) register(sub *subscriber) {
	h.mu.Lock()
	h.subscribers[sub.id] = sub
	h.mu.Unlock()
	h.metrics.WSClients.Inc()
	h.logger.Debug("websocket client connected", "subscriber", sub.id)
}

func (h *Hub) unregister(sub *subscriber) {
	h.mu.Lock()
	delete(h.subscribers, sub.id)
	h.mu.Unlock()
	h.metrics.WSClients.Dec()
	h.logger.Debug("websocket client disconnected", "subscriber", sub.id)
}
