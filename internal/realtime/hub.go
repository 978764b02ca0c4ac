package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// The channel is a best-effort latency optimization: consumers reconcile
// against the durable notification listing on every (re)connect, so a missed
// broadcast is never a correctness problem.

const sendBuffer = 32

type client struct {
	send chan []byte
}

type hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

var defaultHub = &hub{clients: make(map[*client]struct{})}

type envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func (h *hub) add(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast pushes one event to every connected consumer. A consumer whose
// send buffer is full is dropped instead of blocking the others.
func Broadcast(event string, data any) {
	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("realtime: could not marshal %q event: %v", event, err)
		return
	}

	defaultHub.mu.Lock()
	defer defaultHub.mu.Unlock()
	for c := range defaultHub.clients {
		select {
		case c.send <- payload:
		default:
			delete(defaultHub.clients, c)
			close(c.send)
		}
	}
}

// ClientCount reports the number of active subscriptions.
func ClientCount() int {
	defaultHub.mu.Lock()
	defer defaultHub.mu.Unlock()
	return len(defaultHub.clients)
}
