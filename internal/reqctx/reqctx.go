// Package reqctx builds the per-request context shared by every resolver.
package reqctx

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/tripsit/tripsit-api/internal/discord"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const bearerPrefix = "Bearer"

// AppLookup resolves an API token to the owning application id.
type AppLookup interface {
	FindAppIDByAPIToken(token string) (string, bool)
}

// Context is the immutable per-request state handed to resolvers.
type Context struct {
	AppID     *string
	DB        *gorm.DB
	Discord   discord.API
	Logger    *zap.Logger
	RequestID string
}

// HasApp reports whether the caller is one of appIDs.
func (c *Context) HasApp(appIDs []string) bool {
	if c == nil || c.AppID == nil {
		return false
	}
	for _, id := range appIDs {
		if id == *c.AppID {
			return true
		}
	}
	return false
}

// Builder assembles a Context from long-lived collaborators.
type Builder struct {
	Apps    AppLookup
	DB      *gorm.DB
	Discord discord.API
	Logger  *zap.Logger
}

// Build resolves the Authorization header and returns the request context.
// An absent header yields an anonymous context.
func (b *Builder) Build(authorization, requestID string) (*Context, error) {
	appID, err := ResolveAppID(authorization, b.Apps)
	if err != nil {
		return nil, err
	}

	log := b.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}

	return &Context{
		AppID:     appID,
		DB:        b.DB,
		Discord:   b.Discord,
		Logger:    log,
		RequestID: requestID,
	}, nil
}

// ResolveAppID maps an Authorization header to an application id. The header
// must be the literal "Bearer" followed by one whitespace character and the token.
func ResolveAppID(authorization string, apps AppLookup) (*string, error) {
	if authorization == "" {
		return nil, nil
	}

	token, ok := bearerToken(authorization)
	if !ok {
		return nil, apperrors.AuthFormatError()
	}

	appID, found := apps.FindAppIDByAPIToken(token)
	if !found {
		return nil, apperrors.InvalidTokenError()
	}
	return &appID, nil
}

func bearerToken(header string) (string, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	rest := header[len(bearerPrefix):]
	r, size := utf8.DecodeRuneInString(rest)
	if size == 0 || !unicode.IsSpace(r) {
		return "", false
	}
	return rest[size:], true
}

type ctxKey struct{}

// With returns a copy of ctx carrying rc.
func With(ctx context.Context, rc *Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// From returns the request context stored on ctx, or nil.
func From(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	rc, _ := ctx.Value(ctxKey{}).(*Context)
	return rc
}
