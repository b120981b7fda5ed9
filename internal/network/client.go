package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MRamiBalles/PropertyIdle/internal/engine"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
	// Minimum spacing between two commands from one client.
	commandInterval = 50 * time.Millisecond
)

// ErrRateLimited is returned to clients that send commands too quickly.
var ErrRateLimited = errors.New("rate limit exceeded")

// CommandRequest is an incoming command from the frontend.
type CommandRequest struct {
	RequestID string          `json:"requestId,omitempty"`
	Command   string          `json:"command"` // wire name, e.g. "buyPropertyInstant"
	Args      json.RawMessage `json:"args,omitempty"`
}

// Client represents an active WebSocket connection.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, 256),
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	select {
	case c.hub.register <- c:
	case <-c.hub.done:
		close(c.send)
	}
}

// ReadPump pumps commands from the websocket connection to the game.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn(fmt.Sprintf("websocket read error: %v", err))
				c.hub.metrics.RecordWSError()
			}
			break
		}
		c.hub.metrics.RecordWSMessage(true)

		var req CommandRequest
		if err := json.Unmarshal(message, &req); err != nil {
			c.hub.logger.Error("Failed to parse CommandRequest from WebSocket. err: " + err.Error())
			c.hub.reply(c, ServerMessage{Type: MessageError, Error: "invalid message"})
			continue
		}

		c.hub.reply(c, c.handleCommand(ctx, req))
	}
}

func (c *Client) handleCommand(ctx context.Context, req CommandRequest) ServerMessage {
	reply := ServerMessage{Type: MessageResult, RequestID: req.RequestID, Command: req.Command}

	if time.Since(c.lastActionTime) < commandInterval {
		reply.Result = &CommandResult{Reason: ErrRateLimited.Error()}
		return reply
	}
	c.lastActionTime = time.Now()

	cmd, err := engine.DecodeCommand(req.Command, req.Args)
	if err != nil {
		reply.Type = MessageError
		reply.Error = err.Error()
		return reply
	}

	res, err := c.hub.driver.Dispatch(ctx, cmd)
	if err != nil {
		// The command took effect; only saving failed.
		c.hub.logger.Warn(fmt.Sprintf("command %s: %v", req.Command, err))
	}
	reply.Result = &CommandResult{Applied: res.Applied}
	if res.Reason != nil {
		reply.Result.Reason = res.Reason.Error()
	}
	return reply
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// One JSON document per frame.
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.hub.metrics.RecordWSError()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
