package websockets

import (
	"context"
	"time"

	"hseinspect/internal/database"
	"hseinspect/internal/events"
	"hseinspect/internal/models"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MESSAGE_TYPE_PING      = "ping"
	MESSAGE_TYPE_PONG      = "pong"
	MESSAGE_TYPE_BROADCAST = "broadcast"
	MESSAGE_TYPE_ERROR     = "error"
	PING_INTERVAL          = 30 * time.Second
	PONG_TIMEOUT           = 60 * time.Second
	WRITE_TIMEOUT          = 10 * time.Second
	MAX_MESSAGE_SIZE       = 64 * 1024
	SEND_CHANNEL_SIZE      = 64

	SYSTEM_CHANNEL = "system"
	USER_CHANNEL   = "user"
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Channel   string         `json:"channel,omitempty"`
	Action    string         `json:"action,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// TokenValidator checks the token a client sends in its auth response.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*types.TokenInfo, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.User, error)
}

type Subscriber interface {
	Subscribe(channel events.Channel, handler events.EventHandler) error
}

type Manager struct {
	hub      *Hub
	db       database.DB
	auth     TokenValidator
	users    UserLookup
	eventBus Subscriber
	log      logger.Logger
}

func New(
	db database.DB,
	eventBus Subscriber,
	auth TokenValidator,
	users UserLookup,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub:      newHub(),
		db:       db,
		auth:     auth,
		users:    users,
		eventBus: eventBus,
		log:      log,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	if err := manager.eventBus.Subscribe(events.SEND_CHANNEL, manager.deliverUserEvent); err != nil {
		return nil, log.Err("failed to subscribe to user events", err)
	}
	if err := manager.eventBus.Subscribe(events.BROADCAST_CHANNEL, manager.deliverBroadcastEvent); err != nil {
		return nil, log.Err("failed to subscribe to broadcast events", err)
	}

	return manager, nil
}

// HandleWebSocket runs one connection until it closes. The client must answer
// the auth request with a valid token before it receives any events.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	client := newClient(m, c)

	if err := client.sendAuthRequest(); err != nil {
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
		return
	}

	m.hub.register <- client
	defer func() {
		log.Info("Client disconnected", "clientID", client.ID, "userID", client.userID())
		m.hub.unregister <- client
		_ = c.Close()
	}()

	client.startAuthTimeout()
	go client.readPump()
	client.writePump()
}

func (m *Manager) deliverUserEvent(event events.Event) error {
	if event.UserID == nil {
		return nil
	}

	m.SendMessageToUser(*event.UserID, Message{
		ID:        event.ID,
		Type:      string(event.Type),
		Channel:   USER_CHANNEL,
		UserID:    event.UserID.String(),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	})
	return nil
}

func (m *Manager) deliverBroadcastEvent(event events.Event) error {
	m.hub.broadcastMessage(Message{
		ID:        event.ID,
		Type:      MESSAGE_TYPE_BROADCAST,
		Channel:   SYSTEM_CHANNEL,
		Action:    string(event.Type),
		Data:      event.Data,
		Timestamp: event.Timestamp,
	}, m)
	return nil
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		return c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT))
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure,
			) {
				log.Er("Unexpected close error", err, "clientID", c.ID)
			}
			return
		}

		message.ID = uuid.New().String()
		message.Timestamp = time.Now()

		c.routeMessage(message)
	}
}

func (c *Client) routeMessage(message Message) {
	log := c.Manager.log.Function("routeMessage")

	if message.Type == string(events.AUTH_RESPONSE) {
		c.handleAuthResponse(message)
		return
	}

	if !c.isAuthenticated() {
		c.handleUnauthenticatedMessage(message)
		return
	}

	switch message.Type {
	case MESSAGE_TYPE_PING:
		c.queue(Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_PONG,
			Channel:   SYSTEM_CHANNEL,
			Timestamp: time.Now(),
		})
	default:
		log.Debug("Ignoring client message", "clientID", c.ID, "type", message.Type)
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("WebSocket write error", err, "clientID", c.ID, "type", message.Type)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
