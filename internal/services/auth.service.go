package services

import (
	"context"
	"time"

	"hseinspect/config"
	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	"hseinspect/internal/models"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer          = "hseinspect"
	SESSION_CACHE_PREFIX = "session"
	USER_SESSIONS_PREFIX = "user_sessions"
)

type TokenClaims struct {
	jwt.RegisteredClaims
	Role models.Role `json:"role"`
}

// AuthService hashes passwords, signs access tokens and keeps the session
// each token belongs to in the session cache. Signing out deletes the session,
// which invalidates the token before it expires.
type AuthService struct {
	secret   []byte
	ttl      time.Duration
	sessions database.CacheClient
	log      logger.Logger
	now      func() time.Time
}

func NewAuthService(cfg config.Config, sessions database.CacheClient) *AuthService {
	return &AuthService{
		secret:   []byte(cfg.AuthJWTSecret),
		ttl:      time.Duration(cfg.AuthTokenTTLHours) * time.Hour,
		sessions: sessions,
		log:      logger.New("authService"),
		now:      time.Now,
	}
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", s.log.Function("HashPassword").Err("failed to hash password", err)
	}
	return string(hash), nil
}

func (s *AuthService) ComparePassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken opens a session for user and returns a token bound to it.
func (s *AuthService) IssueToken(ctx context.Context, user *models.User) (string, time.Time, error) {
	log := s.log.TraceFromContext(ctx).Function("IssueToken")

	now := s.now()
	session := types.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID.String(),
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	if err := database.NewCacheBuilder(s.sessions, session.ID).
		WithContext(ctx).
		WithHash(SESSION_CACHE_PREFIX).
		WithStruct(session).
		WithTTL(s.ttl).
		Set(); err != nil {
		return "", time.Time{}, log.Err("failed to store session", err, "userID", user.ID)
	}

	if err := database.NewCacheBuilder(s.sessions, user.ID).
		WithContext(ctx).
		WithHash(USER_SESSIONS_PREFIX).
		WithMember(session.ID).
		WithTTL(s.ttl).
		AddMember(); err != nil {
		log.Warn("failed to index session by user", "userID", user.ID, "error", err)
	}

	token, err := s.signToken(session)
	if err != nil {
		return "", time.Time{}, log.Err("failed to sign token", err, "userID", user.ID)
	}

	return token, session.ExpiresAt, nil
}

func (s *AuthService) signToken(session types.Session) (string, error) {
	claims := TokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   session.UserID,
			ID:        session.ID,
			IssuedAt:  jwt.NewNumericDate(session.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(session.ExpiresAt),
		},
		Role: session.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken checks the signature, issuer and expiry of a token. It does not
// consult the session cache; see ValidateToken.
func (s *AuthService) ParseToken(tokenString string) (*types.TokenInfo, error) {
	var claims TokenClaims
	_, err := jwt.ParseWithClaims(
		tokenString,
		&claims,
		func(token *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "Invalid or expired token", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil || claims.ID == "" {
		return nil, apperrors.Wrap(apperrors.KindUnauthorized, "Invalid or expired token", err)
	}

	return &types.TokenInfo{
		UserID:    userID,
		Role:      claims.Role,
		SessionID: claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// ValidateToken parses the token and confirms its session is still open.
func (s *AuthService) ValidateToken(ctx context.Context, tokenString string) (*types.TokenInfo, error) {
	log := s.log.TraceFromContext(ctx).Function("ValidateToken")

	info, err := s.ParseToken(tokenString)
	if err != nil {
		return nil, err
	}

	var session types.Session
	found, err := database.NewCacheBuilder(s.sessions, info.SessionID).
		WithContext(ctx).
		WithHash(SESSION_CACHE_PREFIX).
		Get(&session)
	if err != nil {
		return nil, log.Err("failed to read session", err, "sessionID", info.SessionID)
	}
	if !found || session.UserID != info.UserID.String() {
		return nil, apperrors.New(apperrors.KindUnauthorized, "Session has ended, please sign in again")
	}

	return info, nil
}

func (s *AuthService) RevokeSession(ctx context.Context, userID uuid.UUID, sessionID string) error {
	log := s.log.TraceFromContext(ctx).Function("RevokeSession")

	if err := database.NewCacheBuilder(s.sessions, sessionID).
		WithContext(ctx).
		WithHash(SESSION_CACHE_PREFIX).
		Delete(); err != nil {
		return log.Err("failed to revoke session", err, "sessionID", sessionID)
	}

	if err := database.NewCacheBuilder(s.sessions, userID).
		WithContext(ctx).
		WithHash(USER_SESSIONS_PREFIX).
		WithMember(sessionID).
		RemoveMember(); err != nil {
		log.Warn("failed to unindex session", "userID", userID, "error", err)
	}
	return nil
}

// RevokeUserSessions signs the user out everywhere. Used when an account is
// rejected or its role changes.
func (s *AuthService) RevokeUserSessions(ctx context.Context, userID uuid.UUID) error {
	log := s.log.TraceFromContext(ctx).Function("RevokeUserSessions")

	sessionIDs, err := database.NewCacheBuilder(s.sessions, userID).
		WithContext(ctx).
		WithHash(USER_SESSIONS_PREFIX).
		Members()
	if err != nil {
		return log.Err("failed to list user sessions", err, "userID", userID)
	}

	for _, sessionID := range sessionIDs {
		if err := database.NewCacheBuilder(s.sessions, sessionID).
			WithContext(ctx).
			WithHash(SESSION_CACHE_PREFIX).
			Delete(); err != nil {
			return log.Err("failed to revoke session", err, "sessionID", sessionID)
		}
	}

	if err := database.NewCacheBuilder(s.sessions, userID).
		WithContext(ctx).
		WithHash(USER_SESSIONS_PREFIX).
		Delete(); err != nil {
		return log.Err("failed to clear user session index", err, "userID", userID)
	}

	log.Info("revoked user sessions", "userID", userID, "count", len(sessionIDs))
	return nil
}
