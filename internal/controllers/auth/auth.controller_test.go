package authController

import (
	"context"
	"testing"
	"time"

	"hseinspect/internal/apperrors"
	"hseinspect/internal/database"
	"hseinspect/internal/mocks"
	"hseinspect/internal/models"
	"hseinspect/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockAuthenticator struct {
	mock.Mock
}

func (m *mockAuthenticator) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockAuthenticator) ComparePassword(hash, password string) bool {
	return m.Called(hash, password).Bool(0)
}

func (m *mockAuthenticator) IssueToken(ctx context.Context, user *models.User) (string, time.Time, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *mockAuthenticator) RevokeSession(ctx context.Context, userID uuid.UUID, sessionID string) error {
	return m.Called(ctx, userID, sessionID).Error(0)
}

var allowedDomains = []string{"acme-safety.com", "acme.co.uk"}

func newController(repo *mocks.UserRepository, auth *mockAuthenticator) *AuthController {
	return &AuthController{
		userRepo:       repo,
		auth:           auth,
		db:             database.DB{},
		allowedDomains: allowedDomains,
		now:            time.Now,
		log:            logger.New("authController"),
	}
}

func TestValidateEmailDomain(t *testing.T) {
	tests := []struct {
		email   string
		domain  string
		wantErr bool
	}{
		{"jane@acme-safety.com", "acme-safety.com", false},
		{"Jane.Doe@ACME.co.uk", "acme.co.uk", false},
		{"jane@gmail.com", "", true},
		{"jane@sub.acme-safety.com", "", true},
		{"jane@acme-safety.com.evil.io", "", true},
		{"Jane <jane@acme-safety.com>", "", true},
		{"not-an-email", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			domain, err := ValidateEmailDomain(tt.email, allowedDomains)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.domain, domain)
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		valid    bool
	}{
		{"Str0ng!pass", true},
		{"Abcdef1.", true},
		{"short1!", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigits!here", false},
		{"NoSpecial123", false},
	}

	for _, tt := range tests {
		t.Run(tt.password, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
			}
		})
	}
}

func TestSignUp_ForeignDomainRejectedBeforeRepository(t *testing.T) {
	repo := &mocks.UserRepository{}
	auth := &mockAuthenticator{}
	controller := newController(repo, auth)

	_, err := controller.SignUp(context.Background(), types.SignUpRequest{
		Name:     "Jane Doe",
		Email:    "jane@gmail.com",
		Password: "Str0ng!pass",
	})

	assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
	assert.Equal(t, []string{"email"}, apperrors.FieldsOf(err))
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	auth.AssertNotCalled(t, "HashPassword", mock.Anything)
}

func TestSignUp_WeakPasswordRejectedBeforeRepository(t *testing.T) {
	repo := &mocks.UserRepository{}
	auth := &mockAuthenticator{}
	controller := newController(repo, auth)

	_, err := controller.SignUp(context.Background(), types.SignUpRequest{
		Name:     "Jane Doe",
		Email:    "jane@acme-safety.com",
		Password: "password",
	})

	assert.Equal(t, []string{"password"}, apperrors.FieldsOf(err))
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUp_CreatesPendingInspector(t *testing.T) {
	repo := &mocks.UserRepository{}
	auth := &mockAuthenticator{}
	controller := newController(repo, auth)

	repo.On("ExistsByEmail", mock.Anything, mock.Anything, "jane@acme-safety.com").Return(false, nil)
	auth.On("HashPassword", "Str0ng!pass").Return("hashed", nil)
	repo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleInspector &&
			u.ApprovalStatus == models.ApprovalPending &&
			u.CompanyDomain == "acme-safety.com" &&
			u.PasswordHash == "hashed"
	})).Return(nil)

	resp, err := controller.SignUp(context.Background(), types.SignUpRequest{
		Name:     "  Jane Doe ",
		Email:    "jane@acme-safety.com",
		Password: "Str0ng!pass",
		Role:     models.RoleAdmin,
	})

	require.NoError(t, err)
	assert.Equal(t, models.ApprovalPending, resp.User.ApprovalStatus)
	assert.Equal(t, models.RoleInspector, resp.User.Role)
	assert.Equal(t, "Jane Doe", resp.User.Name)
	repo.AssertExpectations(t)
	auth.AssertExpectations(t)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	repo := &mocks.UserRepository{}
	controller := newController(repo, &mockAuthenticator{})

	repo.On("ExistsByEmail", mock.Anything, mock.Anything, "jane@acme-safety.com").Return(true, nil)

	_, err := controller.SignUp(context.Background(), types.SignUpRequest{
		Name:     "Jane Doe",
		Email:    "jane@acme-safety.com",
		Password: "Str0ng!pass",
	})

	assert.ErrorIs(t, err, ErrEmailTaken)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func userWithStatus(status models.ApprovalStatus) *models.User {
	user := &models.User{
		Email:          "jane@acme-safety.com",
		PasswordHash:   "hashed",
		Role:           models.RoleInspector,
		ApprovalStatus: status,
	}
	user.ID = uuid.New()
	return user
}

func TestSignIn_ApprovalGates(t *testing.T) {
	tests := []struct {
		status models.ApprovalStatus
		want   error
	}{
		{models.ApprovalPending, apperrors.ErrPendingApproval},
		{models.ApprovalRejected, apperrors.ErrRejected},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			repo := &mocks.UserRepository{}
			auth := &mockAuthenticator{}
			controller := newController(repo, auth)

			repo.On("GetByEmail", mock.Anything, mock.Anything, "jane@acme-safety.com").
				Return(userWithStatus(tt.status), nil)
			auth.On("ComparePassword", "hashed", "Str0ng!pass").Return(true)

			_, err := controller.SignIn(context.Background(), types.SignInRequest{
				Email:    "jane@acme-safety.com",
				Password: "Str0ng!pass",
			})

			assert.ErrorIs(t, err, tt.want)
			auth.AssertNotCalled(t, "IssueToken", mock.Anything, mock.Anything)
		})
	}
}

func TestSignIn_WrongPasswordAndUnknownEmailLookTheSame(t *testing.T) {
	repo := &mocks.UserRepository{}
	auth := &mockAuthenticator{}
	controller := newController(repo, auth)

	repo.On("GetByEmail", mock.Anything, mock.Anything, "ghost@acme-safety.com").
		Return(nil, gorm.ErrRecordNotFound)
	repo.On("GetByEmail", mock.Anything, mock.Anything, "jane@acme-safety.com").
		Return(userWithStatus(models.ApprovalApproved), nil)
	auth.On("ComparePassword", "hashed", "wrong").Return(false)

	_, errUnknown := controller.SignIn(context.Background(), types.SignInRequest{
		Email: "ghost@acme-safety.com", Password: "wrong",
	})
	_, errWrong := controller.SignIn(context.Background(), types.SignInRequest{
		Email: "jane@acme-safety.com", Password: "wrong",
	})

	assert.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	assert.ErrorIs(t, errWrong, ErrInvalidCredentials)
}

func TestSignIn_IssuesToken(t *testing.T) {
	repo := &mocks.UserRepository{}
	auth := &mockAuthenticator{}
	controller := newController(repo, auth)
	user := userWithStatus(models.ApprovalApproved)
	expires := time.Now().Add(24 * time.Hour)

	repo.On("GetByEmail", mock.Anything, mock.Anything, user.Email).Return(user, nil)
	auth.On("ComparePassword", "hashed", "Str0ng!pass").Return(true)
	auth.On("IssueToken", mock.Anything, user).Return("jwt-token", expires, nil)
	repo.On("TouchLastLogin", mock.Anything, mock.Anything, user.ID, mock.AnythingOfType("time.Time")).Return(nil)

	resp, err := controller.SignIn(context.Background(), types.SignInRequest{
		Email: user.Email, Password: "Str0ng!pass",
	})

	require.NoError(t, err)
	assert.Equal(t, "jwt-token", resp.Token)
	assert.Equal(t, expires, resp.ExpiresAt)
	assert.NotNil(t, resp.User.LastLoginAt)
	repo.AssertExpectations(t)
}

func TestChangePassword(t *testing.T) {
	repo := &mocks.UserRepository{}
	auth := &mockAuthenticator{}
	controller := newController(repo, auth)
	user := userWithStatus(models.ApprovalApproved)

	err := controller.ChangePassword(context.Background(), user, types.ChangePasswordRequest{
		CurrentPassword: "Str0ng!pass",
		NewPassword:     "weak",
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.Classify(err))
	repo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything, mock.Anything)

	repo.On("GetByEmail", mock.Anything, mock.Anything, user.Email).Return(user, nil)
	auth.On("ComparePassword", "hashed", "Str0ng!pass").Return(true)
	auth.On("HashPassword", "N3w!password").Return("new-hash", nil)
	repo.On("UpdatePassword", mock.Anything, mock.Anything, user.ID, "new-hash").Return(nil)

	err = controller.ChangePassword(context.Background(), user, types.ChangePasswordRequest{
		CurrentPassword: "Str0ng!pass",
		NewPassword:     "N3w!password",
	})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}
