// Package relay implements the message-relay endpoint the transport clients
// dial. Each frame a client sends is forwarded verbatim to every other
// connected client; receivers decide what to do with it.
package relay

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/peykchat/peyk/internal/transport"
)

type Hub struct {
	clients    map[string]*client
	broadcast  chan frame
	register   chan *client
	unregister chan *client
	mu         sync.RWMutex
}

type frame struct {
	from string
	data []byte
}

type client struct {
	id   string
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*client),
		broadcast:  make(chan frame, 256),
		register:   make(chan *client),
		unregister: make(chan *client),
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.id] = c
			h.mu.Unlock()
			log.Printf("relay: client %s connected (total: %d)", c.id, len(h.clients))

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c.id]; ok {
				delete(h.clients, c.id)
				close(c.send)
			}
			h.mu.Unlock()
			log.Printf("relay: client %s disconnected (total: %d)", c.id, len(h.clients))

		case f := <-h.broadcast:
			h.forward(f)
		}
	}
}

// forward delivers a frame to every connected client except its origin.
func (h *Hub) forward(f frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for id, c := range h.clients {
		if id == f.from {
			continue
		}
		select {
		case c.send <- f.data:
		default:
			log.Printf("relay: send channel full for client %s, dropping frame", id)
		}
	}
}

// HandleWebSocket upgrades the request and registers the connection with the
// hub.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("relay: upgrade error: %v", err)
		return
	}

	cl := &client{
		id:   uuid.NewString(),
		conn: conn,
		hub:  h,
		send: make(chan []byte, 256),
	}

	h.register <- cl

	go cl.readPump()
	go cl.writePump()
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("relay: read error: %v", err)
			}
			break
		}

		// Drop frames the clients would not be able to decode.
		if _, _, err := transport.DecodeFrame(string(data)); err != nil {
			log.Printf("relay: dropping frame from %s: %v", c.id, err)
			continue
		}

		c.hub.broadcast <- frame{from: c.id, data: data}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(54 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
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

// NewRouter builds the relay's HTTP surface.
func NewRouter(hub *Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/ws", hub.HandleWebSocket)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": hub.ClientCount()})
	})

	return router
}
