package session

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/sirupsen/logrus"
)

// Conn is the part of a websocket connection the hub writes to.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

type Client struct {
	conn   Conn
	gameID string
	mu     sync.Mutex
}

type envelope struct {
	gameID  string
	message interface{}
}

// Hub fans snapshots out to the websocket clients watching each game.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopOnce   sync.Once
	mu         sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan envelope, 100),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			log.WithFields(logrus.Fields{"game_id": client.gameID, "total": total}).Info("client connected")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.conn.Close()
				log.WithFields(logrus.Fields{"game_id": client.gameID, "total": len(h.clients)}).Info("client disconnected")
			}
			h.mu.Unlock()

		case env := <-h.broadcast:
			data, err := json.Marshal(env.message)
			if err != nil {
				log.WithError(err).Error("marshal broadcast")
				continue
			}

			h.mu.RLock()
			for client := range h.clients {
				if client.gameID == env.gameID {
					go client.send(data)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Stop ends Run. Safe to call more than once.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Publish queues a message for the clients of gameID without blocking.
func (h *Hub) Publish(gameID string, message interface{}) {
	select {
	case h.broadcast <- envelope{gameID: gameID, message: message}:
	default:
		log.WithField("game_id", gameID).Warn("broadcast channel full, dropping message")
	}
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// RegisterClient subscribes conn to gameID. Direct replies to the
// connection must go through the returned client so they do not interleave
// with broadcasts.
func (h *Hub) RegisterClient(conn Conn, gameID string) *Client {
	client := &Client{
		conn:   conn,
		gameID: gameID,
	}
	select {
	case h.register <- client:
	case <-h.done:
	}
	return client
}

func (h *Hub) UnregisterClient(conn Conn) {
	h.mu.RLock()
	for client := range h.clients {
		if client.conn == conn {
			h.mu.RUnlock()
			select {
			case h.unregister <- client:
			case <-h.done:
			}
			return
		}
	}
	h.mu.RUnlock()
}

// Send marshals message and writes it to this client only.
func (c *Client) Send(message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.WithError(err).Error("marshal message")
		return
	}
	c.send(data)
}

func (c *Client) send(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		log.WithError(err).WithField("game_id", c.gameID).Warn("websocket write failed")
	}
}
