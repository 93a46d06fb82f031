// Package apperror is the single place where failures are classified and
// turned into HTTP responses.
package apperror

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Kind is the small vocabulary of error codes returned to clients.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindRateLimited  Kind = "rate_limited"
	KindUpstream     Kind = "upstream"
	KindInternal     Kind = "internal"
)

const genericMessage = "Internal Server Error"

// Error carries a kind, a client-safe message and the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func RateLimited(msg string) *Error  { return &Error{Kind: KindRateLimited, Message: msg} }

// Upstream wraps a failure of an external dependency (AI provider, look backend).
func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// Internal wraps an unexpected failure. The message is only logged.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the kind of err, KindInternal for unclassified errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Status maps a kind to its HTTP status code.
func Status(kind Kind) int {
	switch kind {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindRateLimited:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

// Body is the JSON envelope of every error response.
type Body struct {
	Success bool   `json:"success"`
	Code    Kind   `json:"code"`
	Message string `json:"message"`
}

// Handler is the fiber.ErrorHandler for the API.
func Handler(logger logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		body, status := classify(err)

		fields := logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
			"status": status,
			"code":   body.Code,
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields["request_id"] = rid
		}
		entry := logger.WithFields(fields).WithError(err)
		if status >= fiber.StatusInternalServerError {
			entry.Error("request failed")
		} else {
			entry.Debug("request rejected")
		}

		return c.Status(status).JSON(body)
	}
}

func classify(err error) (Body, int) {
	var appErr *Error
	if errors.As(err, &appErr) {
		status := Status(appErr.Kind)
		msg := appErr.Message
		if status >= fiber.StatusInternalServerError {
			msg = genericMessage
		}
		return Body{Code: appErr.Kind, Message: msg}, status
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		kind := kindForStatus(fiberErr.Code)
		msg := fiberErr.Message
		if fiberErr.Code >= fiber.StatusInternalServerError {
			msg = genericMessage
		}
		return Body{Code: kind, Message: msg}, fiberErr.Code
	}

	return Body{Code: KindInternal, Message: genericMessage}, fiber.StatusInternalServerError
}

func kindForStatus(status int) Kind {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return KindValidation
	case fiber.StatusUnauthorized, fiber.StatusForbidden:
		return KindUnauthorized
	case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
		return KindNotFound
	case fiber.StatusConflict:
		return KindConflict
	case fiber.StatusTooManyRequests:
		return KindRateLimited
	default:
		return KindInternal
	}
}
