package websockets

import (
	"sync"
	"sync/atomic"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	STATUS_UNAUTHENTICATED int32 = iota
	STATUS_AUTHENTICATED
	STATUS_CLOSED
)

type Client struct {
	ID         string
	Connection *websocket.Conn
	Manager    *Manager
	status     atomic.Int32
	user       atomic.Pointer[uuid.UUID]
	send       chan Message
}

func newClient(m *Manager, conn *websocket.Conn) *Client {
	return &Client{
		ID:         uuid.New().String(),
		Connection: conn,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}
}

func (c *Client) isAuthenticated() bool {
	return c.status.Load() == STATUS_AUTHENTICATED
}

func (c *Client) userID() uuid.UUID {
	if id := c.user.Load(); id != nil {
		return *id
	}
	return uuid.Nil
}

// authenticate binds the client to userID. A client authenticates once.
func (c *Client) authenticate(userID uuid.UUID) bool {
	if c.user.CompareAndSwap(nil, &userID) {
		return c.status.CompareAndSwap(STATUS_UNAUTHENTICATED, STATUS_AUTHENTICATED)
	}
	return false
}

// queue hands message to the write pump without blocking. Messages for a
// client that is gone or too slow are dropped.
func (c *Client) queue(message Message) bool {
	h := c.Manager.hub
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if _, ok := h.clients[c.ID]; !ok {
		return false
	}
	select {
	case c.send <- message:
		return true
	default:
		c.Manager.log.Function("queue").Warn("Client send buffer full, dropping message",
			"clientID", c.ID, "type", message.Type)
		return false
	}
}

type Hub struct {
	register   chan *Client
	unregister chan *Client
	clients    map[string]*Client
	mutex      sync.RWMutex
}

func newHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]*Client),
	}
}

func (h *Hub) run(m *Manager) {
	for {
		select {
		case client := <-h.register:
			m.registerClient(client)
		case client := <-h.unregister:
			m.unregisterClient(client)
		}
	}
}

func (m *Manager) registerClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	m.hub.clients[client.ID] = client
	m.log.Function("registerClient").Debug("Client registered", "clientID", client.ID)
}

// unregisterClient removes the client and closes its send channel once, no
// matter how many pumps report the disconnect.
func (m *Manager) unregisterClient(client *Client) {
	m.hub.mutex.Lock()
	defer m.hub.mutex.Unlock()

	if _, ok := m.hub.clients[client.ID]; !ok {
		return
	}
	delete(m.hub.clients, client.ID)
	client.status.Store(STATUS_CLOSED)
	close(client.send)

	m.log.Function("unregisterClient").Info("Client unregistered",
		"clientID", client.ID,
		"userID", client.userID(),
	)
}

func (h *Hub) broadcastMessage(message Message, m *Manager) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	sent := 0
	for _, client := range h.clients {
		if !client.isAuthenticated() {
			continue
		}
		select {
		case client.send <- message:
			sent++
		default:
			m.log.Function("broadcastMessage").Warn("Client send buffer full, dropping message", "clientID", client.ID)
		}
	}

	m.log.Function("broadcastMessage").Debug("Broadcast complete", "messageID", message.ID, "sentTo", sent)
}

// SendMessageToUser delivers message to every authenticated connection the
// user holds on this instance and reports how many received it.
func (m *Manager) SendMessageToUser(userID uuid.UUID, message Message) int {
	log := m.log.Function("SendMessageToUser")

	m.hub.mutex.RLock()
	defer m.hub.mutex.RUnlock()

	sent := 0
	for _, client := range m.hub.clients {
		if !client.isAuthenticated() || client.userID() != userID {
			continue
		}
		select {
		case client.send <- message:
			sent++
		default:
			log.Warn("Client send buffer full, dropping message", "clientID", client.ID, "userID", userID)
		}
	}

	if sent > 0 {
		log.Debug("Message sent to user connections", "userID", userID, "type", message.Type, "sentTo", sent)
	}
	return sent
}
