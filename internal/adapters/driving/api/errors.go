// Package api serves the classification pipeline over HTTP.
package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/drewgilbert-lab/content-automation-app/internal/core/domain"
	"github.com/drewgilbert-lab/content-automation-app/internal/logger"
)

// Construction errors.
var (
	ErrMissingParser   = errors.New("api: parser is required")
	ErrMissingSessions = errors.New("api: session service is required")
	ErrMissingStreamer = errors.New("api: classification streamer is required")
	ErrMissingReview   = errors.New("api: review service is required")
)

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
}

func (e Error) Error() string {
	return e.Message
}

// NewError returns an API error with the given status.
func NewError(code int, msg string) Error {
	return Error{Code: code, Message: msg}
}

// ValidationError reports request fields that failed validation.
type ValidationError struct {
	Message string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// NewValidationError wraps per-field failures.
func NewValidationError(fields map[string]string) ValidationError {
	return ValidationError{Message: "validation failed", Fields: fields}
}

// ErrorHandler maps errors returned by handlers to status codes.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var apiErr Error
	if errors.As(err, &apiErr) {
		return c.Status(apiErr.Code).JSON(apiErr)
	}

	var valErr ValidationError
	if errors.As(err, &valErr) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(valErr)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(NewError(fiberErr.Code, fiberErr.Message))
	}

	code := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		logger.Error("%s %s failed: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(NewError(code, err.Error()))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrIndexOutOfRange):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrBatchRejected):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrSessionClassified):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrLLMUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrRateLimited):
		return fiber.StatusTooManyRequests
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusBadGateway
	}

	var cerr *domain.ClassificationError
	if errors.As(err, &cerr) {
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}
