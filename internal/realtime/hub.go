package realtime

import (
	"encoding/json"
	"sync"
)

// Client represents a single websocket client connection.
// Send is called with the hub lock held and must not block; see QueuedClient.
type Client interface {
	Send(message []byte) bool
	Close()
}

// Event describes a record change that open dashboards should refresh on
type Event struct {
	Type       string   `json:"type"`
	TaskID     string   `json:"taskId,omitempty"`
	ProjectID  string   `json:"projectId,omitempty"`
	ActorID    string   `json:"actorId"`
	Version    int64    `json:"version"`
	Recipients []string `json:"-"`
}

// Publisher fans events out to interested employees
type Publisher interface {
	Publish(evt Event)
}

// Hub maintains active employee connections and broadcasts events to them.
type Hub struct {
	mu                  sync.RWMutex
	employeeIDToClients map[string]map[Client]struct{}
	// watchers receive every event regardless of recipients (directors, project heads).
	watchers map[Client]struct{}
}

var hubInstance *Hub
var once sync.Once

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{
		employeeIDToClients: make(map[string]map[Client]struct{}),
		watchers:            make(map[Client]struct{}),
	}
}

// GetHub returns a singleton hub instance.
func GetHub() *Hub {
	once.Do(func() {
		hubInstance = NewHub()
	})
	return hubInstance
}

// Register adds a client under an employee ID. Clients registered with
// watchAll receive every published event.
func (h *Hub) Register(employeeID string, client Client, watchAll bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if watchAll {
		h.watchers[client] = struct{}{}
		return
	}
	if _, ok := h.employeeIDToClients[employeeID]; !ok {
		h.employeeIDToClients[employeeID] = make(map[Client]struct{})
	}
	h.employeeIDToClients[employeeID][client] = struct{}{}
}

// Unregister removes a client; if the employee has no more clients, cleans up map.
func (h *Hub) Unregister(employeeID string, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.watchers, client)
	if clients, ok := h.employeeIDToClients[employeeID]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.employeeIDToClients, employeeID)
		}
	}
}

// Broadcast sends a message to all clients of an employee.
// A failed write is left to the handler owning the connection to clean up.
func (h *Hub) Broadcast(employeeID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.employeeIDToClients[employeeID] {
		c.Send(message)
	}
}

// Publish implements Publisher. Each client receives the event at most once.
func (h *Hub) Publish(evt Event) {
	message, err := json.Marshal(evt)
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	sent := make(map[Client]struct{})
	for c := range h.watchers {
		c.Send(message)
		sent[c] = struct{}{}
	}
	for _, id := range evt.Recipients {
		for c := range h.employeeIDToClients[id] {
			if _, done := sent[c]; done {
				continue
			}
			c.Send(message)
			sent[c] = struct{}{}
		}
	}
}

// Discard is a Publisher that drops every event
type Discard struct{}

// Publish implements Publisher.
func (Discard) Publish(Event) {}
