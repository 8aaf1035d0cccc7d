package websockets

import (
	"context"
	"time"

	"hseinspect/internal/events"

	"github.com/google/uuid"
)

const AUTH_HANDSHAKE_TIMEOUT = 10 * time.Second

func (c *Client) systemMessage(eventType events.MessageType, action string, data map[string]any) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      string(eventType),
		Channel:   SYSTEM_CHANNEL,
		Action:    action,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// sendAuthRequest writes the initial auth request straight to the socket,
// before the client is registered with the hub.
func (c *Client) sendAuthRequest() error {
	log := c.Manager.log.Function("sendAuthRequest")

	if err := c.Connection.WriteJSON(c.systemMessage(events.AUTH_REQUEST, "authenticate", nil)); err != nil {
		return log.Err("failed to send auth request", err, "clientID", c.ID)
	}
	return nil
}

// startAuthTimeout closes the connection if the client has not authenticated
// within the handshake window.
func (c *Client) startAuthTimeout() {
	time.AfterFunc(AUTH_HANDSHAKE_TIMEOUT, func() {
		if c.status.Load() != STATUS_UNAUTHENTICATED {
			return
		}
		c.Manager.log.Function("startAuthTimeout").Warn("Client failed to authenticate in time",
			"clientID", c.ID, "timeout", AUTH_HANDSHAKE_TIMEOUT)
		c.sendAuthFailure("Authentication timeout")
	})
}

func (c *Client) handleAuthResponse(message Message) {
	log := c.Manager.log.Function("handleAuthResponse")

	if c.isAuthenticated() {
		log.Warn("Auth response from already authenticated client", "clientID", c.ID)
		return
	}

	token, ok := message.Data["token"].(string)
	if !ok || token == "" {
		c.sendAuthFailure("Invalid token format")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tokenInfo, err := c.Manager.auth.ValidateToken(ctx, token)
	if err != nil {
		log.Info("WebSocket token validation failed", "clientID", c.ID, "error", err.Error())
		c.sendAuthFailure("Authentication failed")
		return
	}

	user, err := c.Manager.users.GetByID(ctx, c.Manager.db.SQL, tokenInfo.UserID)
	if err != nil {
		log.Info("WebSocket user not found", "clientID", c.ID, "userID", tokenInfo.UserID)
		c.sendAuthFailure("User not found")
		return
	}
	if !user.IsApproved() {
		c.sendAuthFailure("Account not approved")
		return
	}

	if !c.authenticate(user.ID) {
		return
	}

	log.Info("WebSocket client authenticated", "clientID", c.ID, "userID", user.ID)
	c.queue(c.systemMessage(events.AUTH_SUCCESS, "authenticated", map[string]any{
		"userId": user.ID.String(),
	}))
}

// sendAuthFailure tells the client why it was refused and closes the socket.
func (c *Client) sendAuthFailure(reason string) {
	c.queue(c.systemMessage(events.AUTH_FAILURE, "authentication_failed", map[string]any{"reason": reason}))

	c.Manager.log.Function("sendAuthFailure").Info("Auth failure sent, closing connection",
		"clientID", c.ID, "reason", reason)

	time.AfterFunc(100*time.Millisecond, func() {
		_ = c.Connection.Close()
	})
}

func (c *Client) handleUnauthenticatedMessage(message Message) {
	c.Manager.log.Function("handleUnauthenticatedMessage").Warn(
		"Blocking message from unauthenticated client",
		"clientID", c.ID,
		"type", message.Type,
	)

	c.queue(c.systemMessage(events.AUTH_FAILURE, "authentication_required", map[string]any{
		"reason": "Authentication required",
	}))
}
