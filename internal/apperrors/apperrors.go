// Package apperrors classifies backend failures and maps them to the messages
// and HTTP statuses shown to clients.
package apperrors

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindValidation
	KindUnauthorized
	KindForbidden
	KindDuplicate
	KindForeignKey
	KindPolicyRecursion
	KindPendingApproval
	KindRejected
	KindUnsupportedMedia
	KindTooLarge
)

// Postgres SQLSTATE codes the API reacts to.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateInfiniteRecursion   = "42P17"
)

var (
	ErrNotFound        = New(KindNotFound, "The requested record could not be found")
	ErrForbidden       = New(KindForbidden, "You do not have permission to perform this action")
	ErrUnauthorized    = New(KindUnauthorized, "Authentication required")
	ErrPendingApproval = New(KindPendingApproval, "Your account is awaiting administrator approval")
	ErrRejected        = New(KindRejected, "Your account request was rejected")
)

// Error carries a Kind plus a message that is safe to return to clients.
type Error struct {
	Kind    Kind
	Message string
	Fields  []string
	Err     error
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func Validation(message string, fields ...string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Kind so callers can test errors.Is(err, apperrors.ErrNotFound).
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func Classify(err error) Kind {
	if err == nil {
		return KindInternal
	}

	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return KindNotFound
	}

	if code := sqlState(err); code != "" {
		switch code {
		case sqlStateUniqueViolation:
			return KindDuplicate
		case sqlStateForeignKeyViolation:
			return KindForeignKey
		case sqlStateInfiniteRecursion:
			return KindPolicyRecursion
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "infinite recursion"):
		return KindPolicyRecursion
	case strings.Contains(msg, "no rows in result set"), strings.Contains(msg, "record not found"):
		return KindNotFound
	case strings.Contains(msg, "duplicate key"):
		return KindDuplicate
	}

	return KindInternal
}

func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	return ""
}

// Message returns the user-facing text for err. Errors created by this package
// keep their own message; backend errors get a tailored text per kind.
func Message(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	switch Classify(err) {
	case KindNotFound:
		return "The requested record could not be found"
	case KindDuplicate:
		return "A record with these details already exists"
	case KindForeignKey:
		return "A referenced record does not exist"
	case KindPolicyRecursion:
		return "Access policy misconfiguration detected. Please contact an administrator"
	case KindUnauthorized:
		return "Authentication required"
	case KindForbidden:
		return "You do not have permission to perform this action"
	}
	return "Something went wrong. Please try again"
}

func Status(err error) int {
	switch Classify(err) {
	case KindNotFound:
		return fiber.StatusNotFound
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindForbidden, KindPendingApproval, KindRejected:
		return fiber.StatusForbidden
	case KindDuplicate:
		return fiber.StatusConflict
	case KindForeignKey:
		return fiber.StatusUnprocessableEntity
	case KindUnsupportedMedia:
		return fiber.StatusUnsupportedMediaType
	case KindTooLarge:
		return fiber.StatusRequestEntityTooLarge
	}
	return fiber.StatusInternalServerError
}

// FieldsOf returns the field ids attached to a validation error.
func FieldsOf(err error) []string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Fields
	}
	return nil
}
