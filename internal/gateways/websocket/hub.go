package websocket

import (
	"context"
	"encoding/json"

	"crudboard/internal/utils"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const sendBufferSize = 16

type Client struct {
	hub  *Hub
	conn ClientConn
	ID   string
	send chan []byte
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

func newClient(hub *Hub, conn ClientConn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		ID:   uuid.NewString(),
		send: make(chan []byte, sendBufferSize),
	}
}

// writePump drains the send queue until the hub closes it.
func (c *Client) writePump() {
	defer c.conn.Close()
	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			c.hub.logger.Warnw("WebSocket write failed", "client_id", c.ID, "error", err)
			return
		}
	}
}

// readPump blocks until the peer goes away. Inbound messages are ignored.
func (c *Client) readPump() {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Hub broadcasts board lifecycle events to every connected client.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	done       chan struct{}
	logger     *zap.SugaredLogger
}

func NewHub(logger *zap.Logger, eventBus *utils.EventBus) *Hub {
	h := &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger.Sugar(),
	}
	if eventBus != nil {
		eventBus.SubscribeAll(h.publish)
	}
	return h
}

func (h *Hub) publish(event utils.Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Errorw("Failed to encode event", "event", event.Event, "error", err)
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warnw("Broadcast queue full, dropping event", "event", event.Event)
	}
}

// Register and unregister give up once Run has returned.
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

func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket Hub started")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.logger.Info("WebSocket Hub stopped")
			return

		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// slow consumer
					delete(h.clients, client)
					close(client.send)
					h.logger.Warnw("Dropping slow client", "client_id", client.ID)
				}
			}
		}
	}
}
