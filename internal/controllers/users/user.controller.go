package userController

import (
	"context"
	"time"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	"hseinspect/internal/events"
	. "hseinspect/internal/models"
	"hseinspect/internal/permissions"
	"hseinspect/internal/repositories"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type SessionRevoker interface {
	RevokeUserSessions(ctx context.Context, userID uuid.UUID) error
}

type ProfileResponse struct {
	User        UserProfile                 `json:"user"`
	Permissions permissions.RolePermissions `json:"permissions"`
}

type UserControllerInterface interface {
	GetProfile(ctx context.Context, user *User) *ProfileResponse
	ListUsers(ctx context.Context, admin *User, status ApprovalStatus) ([]UserProfile, error)
	ListAssignable(ctx context.Context, user *User) ([]UserProfile, error)
	Approve(ctx context.Context, admin *User, userID uuid.UUID) (*UserProfile, error)
	Reject(ctx context.Context, admin *User, userID uuid.UUID, req types.RejectUserRequest) (*UserProfile, error)
	ChangeRole(ctx context.Context, admin *User, userID uuid.UUID, req types.ChangeRoleRequest) (*UserProfile, error)
}

type UserController struct {
	userRepo  repositories.UserRepository
	sessions  SessionRevoker
	publisher events.Publisher
	db        database.DB
	now       func() time.Time
	log       logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessions SessionRevoker,
	publisher events.Publisher,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:  userRepo,
		sessions:  sessions,
		publisher: publisher,
		db:        db,
		now:       time.Now,
		log:       logger.New("userController"),
	}
}

func (uc *UserController) GetProfile(ctx context.Context, user *User) *ProfileResponse {
	return &ProfileResponse{
		User:        user.ToProfile(),
		Permissions: permissions.For(user),
	}
}

func toProfiles(users []*User) []UserProfile {
	profiles := make([]UserProfile, 0, len(users))
	for _, user := range users {
		profiles = append(profiles, user.ToProfile())
	}
	return profiles
}

// ListUsers lists accounts by approval status; an empty status means pending.
func (uc *UserController) ListUsers(
	ctx context.Context,
	admin *User,
	status ApprovalStatus,
) ([]UserProfile, error) {
	if !permissions.For(admin).CanApproveUsers {
		return nil, apperrors.ErrForbidden
	}
	if status == "" {
		status = ApprovalPending
	}

	users, err := uc.userRepo.ListByStatus(ctx, uc.db.SQL, status)
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

// ListAssignable returns the approved users an assignment can name.
func (uc *UserController) ListAssignable(ctx context.Context, user *User) ([]UserProfile, error) {
	if !permissions.For(user).CanAssignInspections {
		return nil, apperrors.ErrForbidden
	}

	users, err := uc.userRepo.ListApproved(ctx, uc.db.SQL)
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

func (uc *UserController) loadTarget(ctx context.Context, admin *User, userID uuid.UUID) (*User, error) {
	if !permissions.For(admin).CanApproveUsers {
		return nil, apperrors.ErrForbidden
	}
	if admin.ID == userID {
		return nil, apperrors.New(apperrors.KindForbidden, "You cannot change your own account status")
	}
	return uc.userRepo.GetByID(ctx, uc.db.SQL, userID)
}

func (uc *UserController) Approve(ctx context.Context, admin *User, userID uuid.UUID) (*UserProfile, error) {
	log := uc.log.TraceFromContext(ctx).Function("Approve")

	user, err := uc.loadTarget(ctx, admin, userID)
	if err != nil {
		return nil, err
	}

	user.Approve(admin.ID, uc.now())
	if err := uc.userRepo.Update(ctx, uc.db.SQL, user); err != nil {
		return nil, err
	}

	if err := uc.publisher.PublishToUser(user.ID, events.USER_APPROVED, map[string]any{
		"userId":     user.ID.String(),
		"approvedBy": admin.ID.String(),
	}); err != nil {
		log.Warn("failed to publish approval", "userID", user.ID, "error", err)
	}

	log.Info("user approved", "userID", user.ID, "approvedBy", admin.ID)
	profile := user.ToProfile()
	return &profile, nil
}

func (uc *UserController) Reject(
	ctx context.Context,
	admin *User,
	userID uuid.UUID,
	req types.RejectUserRequest,
) (*UserProfile, error) {
	log := uc.log.TraceFromContext(ctx).Function("Reject")

	user, err := uc.loadTarget(ctx, admin, userID)
	if err != nil {
		return nil, err
	}

	user.Reject(admin.ID, req.Reason)
	if err := uc.userRepo.Update(ctx, uc.db.SQL, user); err != nil {
		return nil, err
	}

	if err := uc.sessions.RevokeUserSessions(ctx, user.ID); err != nil {
		log.Warn("failed to revoke sessions of rejected user", "userID", user.ID, "error", err)
	}

	log.Info("user rejected", "userID", user.ID, "rejectedBy", admin.ID)
	profile := user.ToProfile()
	return &profile, nil
}

func (uc *UserController) ChangeRole(
	ctx context.Context,
	admin *User,
	userID uuid.UUID,
	req types.ChangeRoleRequest,
) (*UserProfile, error) {
	log := uc.log.TraceFromContext(ctx).Function("ChangeRole")

	if !permissions.For(admin).CanManageUsers {
		return nil, apperrors.ErrForbidden
	}
	if !req.Role.Valid() {
		return nil, apperrors.Validation("Unknown role", "role")
	}

	user, err := uc.loadTarget(ctx, admin, userID)
	if err != nil {
		return nil, err
	}
	if user.Role == req.Role {
		profile := user.ToProfile()
		return &profile, nil
	}

	previous := user.Role
	user.Role = req.Role
	if err := uc.userRepo.Update(ctx, uc.db.SQL, user); err != nil {
		return nil, err
	}

	if err := uc.sessions.RevokeUserSessions(ctx, user.ID); err != nil {
		log.Warn("failed to revoke sessions after role change", "userID", user.ID, "error", err)
	}

	log.Info("user role changed", "userID", user.ID, "from", previous, "to", req.Role)
	profile := user.ToProfile()
	return &profile, nil
}
