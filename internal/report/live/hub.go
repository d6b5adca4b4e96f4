package live

import (
	"sync"

	"github.com/rs/zerolog"
)

// Report is one failure report pushed to subscribers.
type Report struct {
	SpecName string `json:"spec_name"`
	Seed     int64  `json:"seed"`
	Text     string `json:"text"`
}

type broadcastMsg struct {
	specName string
	report   Report
}

// Hub fans failure reports out to every connected dashboard subscribed to
// the reporting spec, grounded on the teacher's websocket.Hub
// (internal/infrastructure/websocket/hub.go): registration/unregistration
// channels plus a buffered broadcast channel, narrowed from the teacher's
// per-workflow/per-execution subscription indexes down to a single
// per-spec-name index since a failure report only ever belongs to one spec.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg

	bySpec map[string]map[*Client]bool

	logger zerolog.Logger
	mu     sync.RWMutex
}

// NewHub returns a Hub that logs through logger.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 256),
		bySpec:     make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run drives the hub's event loop; call it in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.registerClient(c)
		case c := <-h.unregister:
			h.unregisterClient(c)
		case msg := <-h.broadcast:
			h.deliver(msg)
		}
	}
}

func (h *Hub) registerClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
	if c.specName != "" {
		if h.bySpec[c.specName] == nil {
			h.bySpec[c.specName] = make(map[*Client]bool)
		}
		h.bySpec[c.specName][c] = true
	}
	h.logger.Debug().Str("subscriber", c.id).Str("spec", c.specName).Msg("live subscriber registered")
}

func (h *Hub) unregisterClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	if clients, ok := h.bySpec[c.specName]; ok {
		delete(clients, c)
		if len(clients) == 0 {
			delete(h.bySpec, c.specName)
		}
	}
}

// Broadcast queues report for delivery to every subscriber of specName (or
// every subscriber at all, if specName is empty).
func (h *Hub) Broadcast(specName string, report Report) {
	h.broadcast <- broadcastMsg{specName: specName, report: report}
}

func (h *Hub) deliver(msg broadcastMsg) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		// A report for a named spec goes to that spec's subscribers and to
		// subscribers that did not name a spec.
		if msg.specName != "" && c.specName != "" && c.specName != msg.specName {
			continue
		}
		select {
		case c.send <- msg.report:
		default:
			h.logger.Warn().Str("subscriber", c.id).Msg("live subscriber buffer full, dropping report")
		}
	}
}

// ClientCount returns the number of connected subscribers.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
