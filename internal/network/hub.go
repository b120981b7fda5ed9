// Package network exposes the game to UI clients over WebSocket and HTTP.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/MRamiBalles/PropertyIdle/internal/engine"
	"github.com/MRamiBalles/PropertyIdle/internal/events"
	"github.com/MRamiBalles/PropertyIdle/internal/game"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/logger"
	"github.com/MRamiBalles/PropertyIdle/internal/platform/metrics"
	"github.com/MRamiBalles/PropertyIdle/internal/store"
)

// Message types sent to clients.
const (
	MessageState  = "state"  // full snapshot on connect
	MessageUpdate = "update" // state + events after every applied command
	MessageResult = "result" // reply to one client's command
	MessageError  = "error"
)

// ServerMessage is the envelope of everything written to a client.
type ServerMessage struct {
	Type      string             `json:"type"`
	RequestID string             `json:"requestId,omitempty"`
	Command   string             `json:"command,omitempty"`
	State     *game.State        `json:"state,omitempty"`
	Events    []events.GameEvent `json:"events,omitempty"`
	Result    *CommandResult     `json:"result,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// CommandResult tells a client what happened to its command.
type CommandResult struct {
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

type directMessage struct {
	client  *Client
	payload []byte
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	driver     engine.Driver
	clients    map[*Client]bool
	broadcast  chan []byte
	direct     chan directMessage
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	mu         sync.Mutex
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewHub initializes a new WebSocket Hub over the state owner.
func NewHub(driver engine.Driver, log *logger.Logger) *Hub {
	return &Hub{
		driver:     driver,
		broadcast:  make(chan []byte, 64),
		direct:     make(chan directMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     log,
		metrics:    metrics.Get(),
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.metrics.RecordWSConnection(1)
			h.logger.Info("New WebSocket client connected")

			snap := h.driver.Snapshot()
			if payload, err := json.Marshal(ServerMessage{Type: MessageState, State: &snap}); err == nil {
				h.deliver(client, payload)
			}
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.metrics.RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case m := <-h.direct:
			h.deliver(m.client, m.payload)
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					h.metrics.RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					h.metrics.RecordWSConnection(-1)
				}
			}
			h.mu.Unlock()
		}
	}
}

// deliver queues payload for one client if it is still connected.
func (h *Hub) deliver(client *Client, payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[client] {
		return
	}
	select {
	case client.send <- payload:
		h.metrics.RecordWSMessage(false)
	default:
		close(client.send)
		delete(h.clients, client)
		h.metrics.RecordWSConnection(-1)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish broadcasts a store update. It never blocks the caller; when the
// broadcast queue is full the update is dropped, and clients catch up on the next one.
func (h *Hub) Publish(u store.Update) {
	state := u.State
	h.send(ServerMessage{Type: MessageUpdate, Command: u.Command, State: &state, Events: u.Events})
}

func (h *Hub) send(msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(fmt.Sprintf("Failed to serialize %s message for WebSocket broadcast: %v", msg.Type, err))
		return
	}
	select {
	case h.broadcast <- payload:
	default:
		h.logger.Warn("WebSocket broadcast queue full, dropping update")
	}
}

// reply sends a message to a single client through the hub loop.
func (h *Hub) reply(c *Client, msg ServerMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error(fmt.Sprintf("Failed to serialize reply: %v", err))
		return
	}
	select {
	case h.direct <- directMessage{client: c, payload: payload}:
	default:
		h.logger.Warn("WebSocket reply queue full, dropping reply")
	}
}
