package utils

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Error envelope types.
const (
	ErrorTypeValidation = "validation"
	ErrorTypeAuth       = "auth"
	ErrorTypeNotFound   = "notfound"
	ErrorTypeServer     = "server"
	ErrorTypeRateLimit  = "ratelimit"
)

// SuccessResponse sends a standard success response
func SuccessResponse(c *fiber.Ctx, data interface{}, status int) error {
	return c.Status(status).JSON(data)
}

// ErrorResponse sends a standard error envelope
func ErrorResponse(c *fiber.Ctx, message string, status int, errorType string) error {
	return c.Status(status).JSON(NewErrorResponse(c, message, status, errorType))
}

// NewErrorResponse builds the error envelope without sending it
func NewErrorResponse(c *fiber.Ctx, message string, status int, errorType string) ErrorResponseStruct {
	return ErrorResponseStruct{
		Status:    status,
		Message:   message,
		Ok:        false,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		URL:       c.OriginalURL(),
		Type:      errorType,
	}
}

// ValidationErrorResponse sends a 400 with type validation
func ValidationErrorResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusBadRequest, ErrorTypeValidation)
}

// NotFoundResponse sends a 404 not found response
func NotFoundResponse(c *fiber.Ctx, message string) error {
	return ErrorResponse(c, message, fiber.StatusNotFound, ErrorTypeNotFound)
}

// ErrorResponseStruct defines the schema for error responses
type ErrorResponseStruct struct {
	Status    int    `json:"status"`
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
	URL       string `json:"url"`
	Type      string `json:"type,omitempty"`
}

// SuccessResponseStruct defines the schema for mutation success responses
type SuccessResponseStruct struct {
	Message   string `json:"message"`
	Ok        bool   `json:"ok"`
	Timestamp string `json:"timestamp"`
}

// MutationSuccessResponse sends a bare success acknowledgement
func MutationSuccessResponse(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(SuccessResponseStruct{
		Message:   "Success",
		Ok:        true,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
