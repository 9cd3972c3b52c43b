package helper

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// AppError is the typed error every service returns; ErrorHandler turns it into a response.
type AppError struct {
	Status  int
	Code    string
	Message string
	Fields  map[string][]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(status int, msg string, err error) *AppError {
	return &AppError{Status: status, Code: statusToErrorCode(status), Message: msg, Err: err}
}

func ErrNotFound(msg string) *AppError     { return newAppError(fiber.StatusNotFound, msg, nil) }
func ErrForbidden(msg string) *AppError    { return newAppError(fiber.StatusForbidden, msg, nil) }
func ErrUnauthorized(msg string) *AppError { return newAppError(fiber.StatusUnauthorized, msg, nil) }
func ErrBadRequest(msg string) *AppError   { return newAppError(fiber.StatusBadRequest, msg, nil) }
func ErrConflict(msg string) *AppError     { return newAppError(fiber.StatusConflict, msg, nil) }

func ErrUnavailable(msg string, err error) *AppError {
	return newAppError(fiber.StatusServiceUnavailable, msg, err)
}

// ErrService wraps an unexpected failure. The cause is logged, never returned to the client.
func ErrService(msg string, err error) *AppError {
	return newAppError(fiber.StatusInternalServerError, msg, err)
}

// ErrValidation carries per-field messages and maps to 422.
func ErrValidation(fields map[string][]string) *AppError {
	e := newAppError(fiber.StatusUnprocessableEntity, "validation failed", nil)
	e.Fields = fields
	return e
}

// ErrFieldValidation is the single-field shorthand of ErrValidation.
func ErrFieldValidation(field, msg string) *AppError {
	return ErrValidation(map[string][]string{field: {msg}})
}

// IsUniqueViolation reports a postgres 23505 from either driver.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKeyViolation reports a postgres 23503.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}

// Classify converts any error into an AppError.
func Classify(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return newAppError(fe.Code, fe.Message, nil)
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return ErrValidation(TranslateValidationErrors(ve))
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound("resource not found")
	case IsUniqueViolation(err):
		return newAppError(fiber.StatusConflict, "resource already exists", err)
	case IsForeignKeyViolation(err):
		return newAppError(fiber.StatusConflict, "resource is still referenced", err)
	}
	return ErrService(http.StatusText(http.StatusInternalServerError), err)
}

// ErrorHandler is installed as fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	appErr := Classify(err)

	ev := log.Warn()
	if appErr.Status >= 500 {
		ev = log.Error()
	}
	ev.Err(err).
		Str("reqid", requestID(c)).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Int("status", appErr.Status).
		Msg("[HTTP] request failed")

	if appErr.Status == fiber.StatusUnprocessableEntity && appErr.Fields != nil {
		return JsonValidationError(c, appErr.Fields)
	}
	return JsonError(c, appErr.Status, appErr.Message)
}
