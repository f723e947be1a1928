package realtime

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"ripple/middleware"
	"ripple/models"

	"github.com/gorilla/websocket"
)

// SnapshotFunc loads the full current post set, normalized and sorted
// newest first. The manager re-delivers it to every subscriber on each
// change, so subscribers never merge partial updates.
type SnapshotFunc func(ctx context.Context) ([]models.Post, error)

type Manager struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	snapshot   SnapshotFunc
	mu         sync.RWMutex
}

type Client struct {
	conn    *websocket.Conn
	userID  string
	send    chan []byte
	manager *Manager
}

func NewManager(snapshot SnapshotFunc) *Manager {
	return &Manager{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		snapshot:   snapshot,
	}
}

func (m *Manager) Start() {
	for {
		select {
		case client := <-m.register:
			m.mu.Lock()
			m.clients[client] = true
			m.mu.Unlock()
			log.Printf("Feed subscriber connected. Total subscribers: %d", m.SubscriberCount())

		case client := <-m.unregister:
			m.mu.Lock()
			if _, ok := m.clients[client]; ok {
				delete(m.clients, client)
				close(client.send)
			}
			m.mu.Unlock()
			log.Printf("Feed subscriber disconnected. Total subscribers: %d", m.SubscriberCount())

		case message := <-m.broadcast:
			m.mu.Lock()
			for client := range m.clients {
				select {
				case client.send <- message:
				default:
					close(client.send)
					delete(m.clients, client)
				}
			}
			m.mu.Unlock()
		}
	}
}

func (m *Manager) SubscriberCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}

// NotifyPostsChanged re-queries the post set and pushes it to every
// subscriber. Handlers call it after each successful mutation; a failed
// query only costs this delivery, the next mutation retries.
func (m *Manager) NotifyPostsChanged() {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic in feed broadcast: %v", r)
			}
		}()

		msg, err := m.snapshotMessage()
		if err != nil {
			log.Printf("Failed to build feed snapshot: %v", err)
			return
		}
		m.broadcast <- msg
	}()
}

func (m *Manager) snapshotMessage() ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	posts, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	return json.Marshal(map[string]interface{}{
		"type":    "posts",
		"payload": posts,
	})
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// FeedHandler upgrades the connection and subscribes it to the feed.
// The feed is readable without signing in, so a token is optional; a
// valid one only attaches the user's identity to the connection.
func FeedHandler(manager *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var userID string
		if token := r.URL.Query().Get("token"); token != "" {
			claims, err := middleware.ParseToken(token)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}
			userID = claims.UserID
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("WebSocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:    conn,
			userID:  userID,
			send:    make(chan []byte, 256),
			manager: manager,
		}

		manager.register <- client

		// First delivery: the full current post set, so the feed never
		// renders stale or empty after connecting.
		if msg, err := manager.snapshotMessage(); err != nil {
			log.Printf("Failed to send initial feed snapshot: %v", err)
		} else {
			client.send <- msg
		}

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.manager.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket read error: %v", err)
			}
			break
		}

		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			log.Printf("WebSocket message unmarshal error: %v", err)
			continue
		}

		switch data["type"] {
		case "refresh":
			c.sendSnapshot()
		case "ping":
			c.sendPong()
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendSnapshot() {
	msg, err := c.manager.snapshotMessage()
	if err != nil {
		log.Printf("Failed to refresh feed snapshot: %v", err)
		return
	}
	c.send <- msg
}

func (c *Client) sendPong() {
	msg, err := json.Marshal(map[string]interface{}{
		"type": "pong",
		"payload": map[string]interface{}{
			"time": time.Now().Unix(),
		},
	})
	if err != nil {
		return
	}
	c.send <- msg
}
