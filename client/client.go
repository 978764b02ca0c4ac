// Package client is the Go consumer for the realtime notification channel.
// The websocket push is treated purely as a latency optimization: on every
// (re)connect the client re-fetches the unread set over REST, which is the
// source of truth, and live pushes are deduplicated against it by ID.
package client

import (
	"encoding/json"
	"log"
	"sync"
	"time"
)

type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Notification mirrors the server's notification payload. Quantity is the
// delta that was added, never the item's current stock.
type Notification struct {
	ID           uint     `json:"id"`
	ItemID       uint     `json:"item_id"`
	Category     string   `json:"category"`
	Label        string   `json:"label"`
	Quantity     float64  `json:"quantity"`
	Unit         string   `json:"unit"`
	Price        *float64 `json:"price"`
	MovementDate string   `json:"movement_date"`
	MovementTime string   `json:"movement_time"`
	Read         bool     `json:"read"`
}

// Conn is one live subscription to the push channel.
type Conn interface {
	ReadJSON(v any) error
	Close() error
}

// Dialer opens subscriptions; the default implementation dials the /ws
// endpoint.
type Dialer interface {
	Dial() (Conn, error)
}

// API is the durable REST side of the notification store.
type API interface {
	Unread() ([]Notification, error)
	MarkRead(id uint) error
}

const (
	eventNew       = "notification:new"
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
)

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type Client struct {
	dialer Dialer
	api    API

	mu      sync.Mutex
	state   State
	entries []Notification
	index   map[uint]int // notification ID -> position in entries
	conn    Conn

	closed    chan struct{}
	closeOnce sync.Once
}

func New(dialer Dialer, api API) *Client {
	return &Client{
		dialer: dialer,
		api:    api,
		index:  make(map[uint]int),
		closed: make(chan struct{}),
	}
}

// Start launches the subscription loop. The subscription lives until Close;
// drops reconnect automatically with backoff.
func (c *Client) Start() {
	go c.run()
}

func (c *Client) run() {
	backoff := initialBackoff
	for {
		select {
		case <-c.closed:
			return
		default:
		}

		c.setState(StateConnecting)
		conn, err := c.dialer.Dial()
		if err != nil {
			c.setState(StateDisconnected)
			if !c.sleep(backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}

		// The channel alone is never trusted for completeness: reconcile
		// against the durable listing before trusting any push.
		unread, err := c.api.Unread()
		if err != nil {
			log.Printf("notification client: reconcile failed: %v", err)
			conn.Close()
			c.setState(StateDisconnected)
			if !c.sleep(backoff) {
				return
			}
			backoff = nextBackoff(backoff)
			continue
		}
		c.merge(unread)

		c.setConn(conn)
		c.setState(StateConnected)
		backoff = initialBackoff

		c.readLoop(conn)

		c.setConn(nil)
		conn.Close()
		c.setState(StateDisconnected)

		select {
		case <-c.closed:
			return
		default:
		}
	}
}

func (c *Client) readLoop(conn Conn) {
	for {
		var env envelope
		if err := conn.ReadJSON(&env); err != nil {
			return
		}
		if env.Event != eventNew {
			continue
		}
		var n Notification
		if err := json.Unmarshal(env.Data, &n); err != nil {
			log.Printf("notification client: bad push payload: %v", err)
			continue
		}
		c.add(n)
	}
}

// add appends a pushed notification unless its ID is already known: the same
// notification can arrive via both a reconnect reconciliation and a live
// push.
func (c *Client) add(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[n.ID]; ok {
		return
	}
	c.index[n.ID] = len(c.entries)
	c.entries = append(c.entries, n)
}

func (c *Client) merge(list []Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, n := range list {
		if i, ok := c.index[n.ID]; ok {
			c.entries[i] = n
			continue
		}
		c.index[n.ID] = len(c.entries)
		c.entries = append(c.entries, n)
	}
}

// Notifications returns a copy of the in-memory list.
func (c *Client) Notifications() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.entries))
	copy(out, c.entries)
	return out
}

// Unread is derived from the in-memory entries, never tracked separately.
func (c *Client) Unread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, n := range c.entries {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead flips the entry optimistically, then confirms with the server.
// If the call fails the local flag is rolled back and the error returned.
func (c *Client) MarkRead(id uint) error {
	c.mu.Lock()
	i, ok := c.index[id]
	if !ok || c.entries[i].Read {
		c.mu.Unlock()
		return nil
	}
	c.entries[i].Read = true
	c.mu.Unlock()

	if err := c.api.MarkRead(id); err != nil {
		c.mu.Lock()
		if i, ok := c.index[id]; ok {
			c.entries[i].Read = false
		}
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Close ends the subscription; the session is over.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
		c.mu.Lock()
		if c.conn != nil {
			c.conn.Close()
		}
		c.state = StateDisconnected
		c.mu.Unlock()
	})
}

func (c *Client) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Client) setConn(conn Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

// sleep waits for d unless the client is closed first.
func (c *Client) sleep(d time.Duration) bool {
	select {
	case <-c.closed:
		return false
	case <-time.After(d):
		return true
	}
}

func nextBackoff(d time.Duration) time.Duration {
	d *= 2
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}
