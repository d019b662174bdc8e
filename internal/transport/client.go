package transport

import (
	"errors"
	"fmt"
	"log"
	"net"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

// ErrConnection is returned when the relay endpoint cannot be reached.
var ErrConnection = errors.New("connection failed")

// State of a Client. Once a connected client drops back to Disconnected the
// client is terminal; no automatic reconnect is attempted.
type State int

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// FrameHandler receives each inbound frame on the client's receive goroutine.
type FrameHandler func(senderUsername, body string)

// Client maintains one outbound connection to a relay endpoint. Send runs on
// the caller's goroutine, the receive loop on its own; a mutex keeps writes
// and Close from racing on the shared connection.
type Client struct {
	mu           sync.Mutex
	conn         *websocket.Conn
	state        State
	closed       bool
	onFrame      FrameHandler
	onDisconnect func()
}

func NewClient(onFrame FrameHandler) *Client {
	return &Client{onFrame: onFrame}
}

// OnDisconnect registers a callback invoked when the receive loop stops for
// any reason other than Close. Must be set before Connect.
func (c *Client) OnDisconnect(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onDisconnect = fn
}

// Connect attempts a single connection to the relay endpoint. On success the
// receive loop starts in the background; on failure the client stays
// Disconnected and the error wraps ErrConnection.
func (c *Client) Connect(host string, port int) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return fmt.Errorf("client is closed: %w", ErrConnection)
	}
	if c.state != Disconnected {
		c.mu.Unlock()
		return fmt.Errorf("already connected: %w", ErrConnection)
	}
	c.state = Connecting
	c.mu.Unlock()

	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, strconv.Itoa(port)),
		Path:   "/ws",
	}

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		c.mu.Lock()
		c.state = Disconnected
		c.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	c.mu.Lock()
	if c.closed {
		// Close raced the dial; release the fresh connection.
		c.mu.Unlock()
		conn.Close()
		return fmt.Errorf("client is closed: %w", ErrConnection)
	}
	c.conn = conn
	c.state = Connected
	c.mu.Unlock()

	go c.readLoop(conn)
	return nil
}

// Send writes one frame to the relay. Only valid while Connected; failures
// are logged and swallowed.
func (c *Client) Send(senderUsername, body string) {
	frame, err := EncodeFrame(senderUsername, body)
	if err != nil {
		log.Printf("transport: dropping outbound frame: %v", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Connected || c.conn == nil {
		log.Printf("transport: send while %s, dropping frame", c.state)
		return
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		log.Printf("transport: send failed: %v", err)
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.drop(err)
			return
		}

		sender, body, err := DecodeFrame(string(data))
		if err != nil {
			c.drop(err)
			return
		}

		if c.onFrame != nil {
			c.onFrame(sender, body)
		}
	}
}

// drop transitions to Disconnected after a read or decode failure.
func (c *Client) drop(cause error) {
	c.mu.Lock()
	wasClosed := c.closed
	c.state = Disconnected
	notify := c.onDisconnect
	c.mu.Unlock()

	if wasClosed {
		return
	}
	log.Printf("transport: receive loop stopped: %v", cause)
	if notify != nil {
		notify()
	}
}

// Close stops the receive loop and releases the connection. Idempotent and
// safe to call from any state; closing the connection unblocks a pending read.
func (c *Client) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.state = Disconnected
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}
