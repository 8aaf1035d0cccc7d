package repositories

import (
	"context"
	"strings"
	"time"

	"hseinspect/internal/database"
	. "hseinspect/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	USER_CACHE_EXPIRY = 7 * 24 * time.Hour
	USER_CACHE_PREFIX = "user"
)

// UserRepository reads and writes user profiles. Cached copies never carry
// the password hash; use GetByEmail when the hash is needed.
type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, user *User) error
	UpdatePassword(ctx context.Context, tx *gorm.DB, id uuid.UUID, passwordHash string) error
	TouchLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
	ListByStatus(ctx context.Context, tx *gorm.DB, status ApprovalStatus) ([]*User, error)
	ListApproved(ctx context.Context, tx *gorm.DB) ([]*User, error)
	ClearUserCache(ctx context.Context, id uuid.UUID) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByID")

	var cached User
	found, err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get user from cache", "userID", id, "error", err)
	}
	if found {
		return &cached, nil
	}

	user, err := gorm.G[User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, log.Err("failed to get user by id", err, "userID", id)
	}

	r.addUserToCache(ctx, &user)

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	log := r.log.TraceFromContext(ctx).Function("GetByEmail")

	user, err := gorm.G[User](tx).Where("email = ?", normalizeEmail(email)).First(ctx)
	if err != nil {
		return nil, log.Err("failed to get user by email", err, "email", email)
	}

	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	log := r.log.TraceFromContext(ctx).Function("ExistsByEmail")

	var count int64
	if err := tx.WithContext(ctx).
		Model(&User{}).
		Where("email = ?", normalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, log.Err("failed to check email", err, "email", email)
	}

	return count > 0, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.TraceFromContext(ctx).Function("Update")

	if err := tx.WithContext(ctx).Omit("password_hash").Save(user).Error; err != nil {
		return log.Err("failed to update user", err, "userID", user.ID)
	}

	if err := r.ClearUserCache(ctx, user.ID); err != nil {
		log.Warn("failed to clear user cache after update", "userID", user.ID, "error", err)
	}

	return nil
}

func (r *userRepository) UpdatePassword(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	passwordHash string,
) error {
	log := r.log.TraceFromContext(ctx).Function("UpdatePassword")

	rows, err := gorm.G[User](tx).Where("id = ?", id).Update(ctx, "password_hash", passwordHash)
	if err != nil {
		return log.Err("failed to update password", err, "userID", id)
	}
	if rows == 0 {
		return log.Err("user not found", gorm.ErrRecordNotFound, "userID", id)
	}

	return nil
}

// TouchLastLogin records a successful sign-in without invalidating the cache.
func (r *userRepository) TouchLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error {
	log := r.log.TraceFromContext(ctx).Function("TouchLastLogin")

	if _, err := gorm.G[User](tx).Where("id = ?", id).Update(ctx, "last_login_at", at); err != nil {
		return log.Err("failed to record last login", err, "userID", id)
	}

	return nil
}

func (r *userRepository) ListByStatus(
	ctx context.Context,
	tx *gorm.DB,
	status ApprovalStatus,
) ([]*User, error) {
	log := r.log.TraceFromContext(ctx).Function("ListByStatus")

	users, err := gorm.G[*User](tx).
		Where("approval_status = ?", status).
		Order("created_at ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list users", err, "status", status)
	}

	return users, nil
}

func (r *userRepository) ListApproved(ctx context.Context, tx *gorm.DB) ([]*User, error) {
	log := r.log.TraceFromContext(ctx).Function("ListApproved")

	users, err := gorm.G[*User](tx).
		Where("approval_status = ?", ApprovalApproved).
		Order("name ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list approved users", err)
	}

	return users, nil
}

func (r *userRepository) ClearUserCache(ctx context.Context, id uuid.UUID) error {
	return database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete()
}

func (r *userRepository) addUserToCache(ctx context.Context, user *User) {
	if err := database.NewCacheBuilder(r.cache, user.ID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set(); err != nil {
		r.log.Function("addUserToCache").
			Warn("failed to add user to cache", "userID", user.ID, "error", err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
