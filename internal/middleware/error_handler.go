package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"github.com/tripsit/tripsit-api/internal/utils"
	"go.uber.org/zap"
)

// ErrorHandler is the last-resort error boundary for the HTTP surface.
//
// Classified errors (AppError, fiber.Error) keep their status and are
// rendered as the standard error envelope. Anything else is a 500: in
// production the body is empty, otherwise it carries the serialized error.
// A response whose body is already streaming is left to fiber's default handler.
func ErrorHandler(production bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		fields := []zap.Field{
			zap.Error(err),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("request_id", GetRequestID(c)),
		}

		if c.Response().IsBodyStream() {
			logger.Error("error after response started", fields...)
			return fiber.DefaultErrorHandler(c, err)
		}

		if appErr, ok := apperrors.IsAppError(err); ok {
			logger.Warn("request failed", append(fields, zap.String("code", appErr.Code))...)
			return utils.ErrorResponse(c, appErr.Message, appErr.HTTPStatus, errorType(appErr))
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code >= fiber.StatusInternalServerError {
				logger.Error("request failed", fields...)
			}
			return utils.ErrorResponse(c, fiberErr.Message, fiberErr.Code, statusType(fiberErr.Code))
		}

		logger.Error("unhandled error", fields...)
		c.Response().ResetBody()
		if production {
			c.Response().Header.Del(fiber.HeaderContentType)
			return c.Status(fiber.StatusInternalServerError).Send(nil)
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, utils.ErrorTypeServer)
	}
}

func errorType(err *apperrors.AppError) string {
	switch err.Code {
	case apperrors.CodeValidation:
		return utils.ErrorTypeValidation
	case apperrors.CodeNotFound:
		return utils.ErrorTypeNotFound
	case apperrors.CodeAuthFormat, apperrors.CodeInvalidToken, apperrors.CodeNotAuthorized:
		return utils.ErrorTypeAuth
	}
	return statusType(err.HTTPStatus)
}

func statusType(status int) string {
	switch {
	case status == fiber.StatusNotFound:
		return utils.ErrorTypeNotFound
	case status == fiber.StatusTooManyRequests:
		return utils.ErrorTypeRateLimit
	case status == fiber.StatusUnauthorized, status == fiber.StatusForbidden:
		return utils.ErrorTypeAuth
	case status >= fiber.StatusInternalServerError:
		return utils.ErrorTypeServer
	}
	return utils.ErrorTypeValidation
}
