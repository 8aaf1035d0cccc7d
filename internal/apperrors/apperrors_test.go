package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Kind
	}{
		{"gorm not found", gorm.ErrRecordNotFound, KindNotFound},
		{"wrapped not found", fmt.Errorf("load template: %w", gorm.ErrRecordNotFound), KindNotFound},
		{"pgx unique violation", &pgconn.PgError{Code: "23505"}, KindDuplicate},
		{"pq foreign key", &pq.Error{Code: "23503"}, KindForeignKey},
		{"pgx policy recursion", &pgconn.PgError{Code: "42P17"}, KindPolicyRecursion},
		{"recursion by message", errors.New("infinite recursion detected in policy for relation"), KindPolicyRecursion},
		{"no rows by message", errors.New("sql: no rows in result set"), KindNotFound},
		{"app validation", Validation("title is required"), KindValidation},
		{"wrapped app error", fmt.Errorf("ctx: %w", ErrForbidden), KindForbidden},
		{"anything else", errors.New("connection reset"), KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.err))
		})
	}
}

func TestMessageAndStatus(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
		status  int
	}{
		{"recursion gets tailored message", &pgconn.PgError{Code: "42P17"}, "Access policy misconfiguration detected. Please contact an administrator", fiber.StatusInternalServerError},
		{"not found", gorm.ErrRecordNotFound, "The requested record could not be found", fiber.StatusNotFound},
		{"duplicate", &pq.Error{Code: "23505"}, "A record with these details already exists", fiber.StatusConflict},
		{"app message kept", Validation("Password too weak"), "Password too weak", fiber.StatusBadRequest},
		{"pending approval", ErrPendingApproval, "Your account is awaiting administrator approval", fiber.StatusForbidden},
		{"unsupported image", New(KindUnsupportedMedia, "Unsupported image format"), "Unsupported image format", fiber.StatusUnsupportedMediaType},
		{"too large", New(KindTooLarge, "Image exceeds 10MB"), "Image exceeds 10MB", fiber.StatusRequestEntityTooLarge},
		{"generic", errors.New("boom"), "Something went wrong. Please try again", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, Message(tt.err))
			assert.Equal(t, tt.status, Status(tt.err))
		})
	}
}

func TestError_IsMatchesKind(t *testing.T) {
	err := Wrap(KindNotFound, "template not found", gorm.ErrRecordNotFound)

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrForbidden))
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Equal(t, "template not found: record not found", err.Error())
}

func TestFieldsOf(t *testing.T) {
	err := fmt.Errorf("next: %w", Validation("Required fields missing", "f1", "f2"))

	assert.Equal(t, []string{"f1", "f2"}, FieldsOf(err))
	assert.Nil(t, FieldsOf(errors.New("plain")))
}
