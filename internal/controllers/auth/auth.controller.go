package authController

import (
	"context"
	"net/mail"
	"regexp"
	"slices"
	"strings"
	"time"

	"hseinspect/config"
	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	. "hseinspect/internal/models"
	"hseinspect/internal/repositories"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
	pendingMessage    = "Registration received. An administrator must approve your account before you can sign in."
)

var (
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[@$!%*?&#^\-_.]`)

	ErrInvalidCredentials = apperrors.New(apperrors.KindUnauthorized, "Invalid email or password")
	ErrEmailTaken         = apperrors.New(apperrors.KindDuplicate, "An account with this email already exists")
)

// Authenticator is the token and password side of auth.
type Authenticator interface {
	HashPassword(password string) (string, error)
	ComparePassword(hash, password string) bool
	IssueToken(ctx context.Context, user *User) (string, time.Time, error)
	RevokeSession(ctx context.Context, userID uuid.UUID, sessionID string) error
}

type AuthControllerInterface interface {
	SignUp(ctx context.Context, req types.SignUpRequest) (*types.SignUpResponse, error)
	SignIn(ctx context.Context, req types.SignInRequest) (*types.AuthResponse, error)
	SignOut(ctx context.Context, user *User, sessionID string) error
	ChangePassword(ctx context.Context, user *User, req types.ChangePasswordRequest) error
}

type AuthController struct {
	userRepo       repositories.UserRepository
	auth           Authenticator
	db             database.DB
	allowedDomains []string
	now            func() time.Time
	log            logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	auth Authenticator,
	db database.DB,
	config config.Config,
) AuthControllerInterface {
	return &AuthController{
		userRepo:       userRepo,
		auth:           auth,
		db:             db,
		allowedDomains: config.AllowedDomains(),
		now:            time.Now,
		log:            logger.New("authController"),
	}
}

// ValidateEmailDomain returns the lower-cased domain of email when it belongs
// to one of the allowed company domains.
func ValidateEmailDomain(email string, allowedDomains []string) (string, error) {
	address, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || address.Address != strings.TrimSpace(email) {
		return "", apperrors.Validation("Please enter a valid email address", "email")
	}

	at := strings.LastIndex(address.Address, "@")
	domain := strings.ToLower(address.Address[at+1:])
	if !slices.Contains(allowedDomains, domain) {
		return "", apperrors.Validation("Please use your company email address to register", "email")
	}

	return domain, nil
}

// ValidatePassword enforces length plus one lower-case letter, one upper-case
// letter, one digit and one special character.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return apperrors.Validation("Password must be at least 8 characters long", "password")
	case len(password) > MaxPasswordLength:
		return apperrors.Validation("Password must be at most 72 characters long", "password")
	case !passwordLower.MatchString(password),
		!passwordUpper.MatchString(password),
		!passwordDigit.MatchString(password),
		!passwordSpecial.MatchString(password):
		return apperrors.Validation(
			"Password must contain an upper-case letter, a lower-case letter, a number and a special character (@$!%*?&#^-_.)",
			"password",
		)
	}
	return nil
}

func (c *AuthController) SignUp(ctx context.Context, req types.SignUpRequest) (*types.SignUpResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("SignUp")

	domain, err := ValidateEmailDomain(req.Email, c.allowedDomains)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 {
		return nil, apperrors.Validation("Please enter your full name", "name")
	}

	exists, err := c.userRepo.ExistsByEmail(ctx, c.db.SQL, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := c.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	if req.Role != "" && req.Role != RoleInspector {
		log.Info("elevated role requested at sign-up, recording as inspector", "requested", req.Role)
	}

	user := &User{
		Name:           name,
		Email:          req.Email,
		PasswordHash:   hash,
		Role:           RoleInspector,
		ApprovalStatus: ApprovalPending,
		CompanyDomain:  domain,
	}
	if err := c.userRepo.Create(ctx, c.db.SQL, user); err != nil {
		if apperrors.Classify(err) == apperrors.KindDuplicate {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Info("user registered, awaiting approval", "userID", user.ID, "domain", domain)
	return &types.SignUpResponse{User: user.ToProfile(), Message: pendingMessage}, nil
}

func (c *AuthController) SignIn(ctx context.Context, req types.SignInRequest) (*types.AuthResponse, error) {
	log := c.log.TraceFromContext(ctx).Function("SignIn")

	user, err := c.userRepo.GetByEmail(ctx, c.db.SQL, req.Email)
	if err != nil {
		if apperrors.Classify(err) == apperrors.KindNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !c.auth.ComparePassword(user.PasswordHash, req.Password) {
		log.Warn("failed sign-in attempt", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}

	switch user.ApprovalStatus {
	case ApprovalPending:
		return nil, apperrors.ErrPendingApproval
	case ApprovalRejected:
		return nil, apperrors.ErrRejected
	}

	token, expiresAt, err := c.auth.IssueToken(ctx, user)
	if err != nil {
		return nil, err
	}

	now := c.now()
	if err := c.userRepo.TouchLastLogin(ctx, c.db.SQL, user.ID, now); err != nil {
		log.Warn("failed to record last login", "userID", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}

	return &types.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.ToProfile(),
	}, nil
}

func (c *AuthController) SignOut(ctx context.Context, user *User, sessionID string) error {
	return c.auth.RevokeSession(ctx, user.ID, sessionID)
}

func (c *AuthController) ChangePassword(
	ctx context.Context,
	user *User,
	req types.ChangePasswordRequest,
) error {
	log := c.log.TraceFromContext(ctx).Function("ChangePassword")

	if err := ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	current, err := c.userRepo.GetByEmail(ctx, c.db.SQL, user.Email)
	if err != nil {
		return err
	}
	if !c.auth.ComparePassword(current.PasswordHash, req.CurrentPassword) {
		return apperrors.Validation("Current password is incorrect", "currentPassword")
	}

	hash, err := c.auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := c.userRepo.UpdatePassword(ctx, c.db.SQL, user.ID, hash); err != nil {
		return err
	}

	log.Info("password changed", "userID", user.ID)
	return nil
}
