package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tripsit/tripsit-api/internal/metrics"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/utils"
	"go.uber.org/zap"
)

const localsAppID = "appId"

// AppToken resolves the bearer token of REST requests. Requests without an
// Authorization header pass through anonymously; a malformed or unknown
// token is rejected with 401.
func AppToken(apps reqctx.AppLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		appID, err := reqctx.ResolveAppID(c.Get(fiber.HeaderAuthorization), apps)
		if err != nil {
			code := apperrors.CodeInternal
			if appErr, ok := apperrors.IsAppError(err); ok {
				code = appErr.Code
			}
			metrics.RecordAuthRejection(code)
			logger.Warn("rejected app token",
				zap.String("code", code),
				zap.String("path", c.Path()),
				zap.String("request_id", GetRequestID(c)),
			)
			return utils.ErrorResponse(c, err.Error(), fiber.StatusUnauthorized, utils.ErrorTypeAuth)
		}

		if appID != nil {
			c.Locals(localsAppID, *appID)
		}
		return c.Next()
	}
}

// IdentifyApp records the application behind a valid bearer token without
// rejecting anything. It lets the rate limiter key GraphQL traffic by app;
// the GraphQL handler still reports bad tokens in its own error shape.
func IdentifyApp(apps reqctx.AppLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		appID, err := reqctx.ResolveAppID(c.Get(fiber.HeaderAuthorization), apps)
		if err == nil && appID != nil {
			c.Locals(localsAppID, *appID)
		}
		return c.Next()
	}
}

// GetAppID returns the application resolved by AppToken, or "" for anonymous requests.
func GetAppID(c *fiber.Ctx) string {
	id, _ := c.Locals(localsAppID).(string)
	return id
}
