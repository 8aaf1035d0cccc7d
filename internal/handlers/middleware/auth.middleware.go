package middleware

import (
	"context"
	"strings"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/models"
	"hseinspect/internal/permissions"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/gofiber/fiber/v2"
)

// AuthContextKey is used to store auth info in context
type AuthContextKey string

const (
	UserKey       AuthContextKey = "user"
	UserKeyFiber  string         = "User"
	TokenKeyFiber string         = "Token"
)

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// RequireAuth validates the bearer token and loads the signed-in user.
// Accounts that are not approved are turned away.
func (m *Middleware) RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		log := m.log.TraceFromContext(c.UserContext()).Function("RequireAuth")

		token, ok := BearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			log.Info("missing or malformed authorization header")
			return WriteError(c, apperrors.ErrUnauthorized)
		}

		tokenInfo, err := m.auth.ValidateToken(c.UserContext(), token)
		if err != nil {
			log.Info("token validation failed", "error", err.Error())
			return WriteError(c, err)
		}

		user, err := m.userRepo.GetByID(c.UserContext(), m.DB.SQL, tokenInfo.UserID)
		if err != nil {
			log.Info("user not found for token", "userID", tokenInfo.UserID, "error", err.Error())
			return WriteError(c, apperrors.ErrUnauthorized)
		}

		switch user.ApprovalStatus {
		case models.ApprovalApproved:
		case models.ApprovalRejected:
			return WriteError(c, apperrors.ErrRejected)
		default:
			return WriteError(c, apperrors.ErrPendingApproval)
		}

		c.Locals(UserKeyFiber, user)
		c.Locals(TokenKeyFiber, tokenInfo)

		ctx := context.WithValue(c.UserContext(), UserKey, user)
		c.SetUserContext(ctx)

		log.Debug("user authenticated", "userID", user.ID, "role", user.Role)
		return c.Next()
	}
}

// RequirePermission lets the request through only when check passes for the
// signed-in user's role. It must run after RequireAuth.
func (m *Middleware) RequirePermission(check func(permissions.RolePermissions) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return WriteError(c, apperrors.ErrUnauthorized)
		}

		if !check(permissions.For(user)) {
			logger.New("middleware").TraceFromContext(c.UserContext()).Function("RequirePermission").
				Info("permission denied", "userID", user.ID, "role", user.Role, "path", c.Path())
			return WriteError(c, apperrors.ErrForbidden)
		}

		return c.Next()
	}
}

// GetUser extracts user from Fiber context
func GetUser(c *fiber.Ctx) *models.User {
	user, ok := c.Locals(UserKeyFiber).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// GetToken returns what the bearer token of the request said.
func GetToken(c *fiber.Ctx) *types.TokenInfo {
	info, ok := c.Locals(TokenKeyFiber).(*types.TokenInfo)
	if !ok {
		return nil
	}
	return info
}
