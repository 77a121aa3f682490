package reqctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/config"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
)

func testApps() *config.Apps {
	return config.NewApps([]config.AppEntry{
		{ID: config.AppTripbotDiscord, APIToken: "bot-token"},
		{ID: config.AppMainWebsite, APIToken: "web-token"},
	})
}

func TestResolveAppID(t *testing.T) {
	apps := testApps()

	cases := []struct {
		name   string
		header string
		appID  *string
		code   string
	}{
		{name: "absent header is anonymous", header: ""},
		{name: "bot token", header: "Bearer bot-token", appID: strPtr(config.AppTripbotDiscord)},
		{name: "website token", header: "Bearer web-token", appID: strPtr(config.AppMainWebsite)},
		{name: "tab separator", header: "Bearer\tbot-token", appID: strPtr(config.AppTripbotDiscord)},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", code: apperrors.CodeAuthFormat},
		{name: "lowercase scheme", header: "bearer bot-token", code: apperrors.CodeAuthFormat},
		{name: "no separator", header: "Bearerbot-token", code: apperrors.CodeAuthFormat},
		{name: "scheme only", header: "Bearer", code: apperrors.CodeAuthFormat},
		{name: "unknown token", header: "Bearer validBearerToken", code: apperrors.CodeInvalidToken},
		{name: "empty token", header: "Bearer ", code: apperrors.CodeInvalidToken},
		{name: "second space is part of the token", header: "Bearer  bot-token", code: apperrors.CodeInvalidToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			appID, err := ResolveAppID(tc.header, apps)
			if tc.code != "" {
				require.Error(t, err)
				assert.True(t, apperrors.HasCode(err, tc.code), err.Error())
				assert.Nil(t, appID)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.appID, appID)
		})
	}
}

func TestResolveAppIDMessages(t *testing.T) {
	_, err := ResolveAppID("not a bearer token", testApps())
	assert.EqualError(t, err, "Authorization header requires a bearer token")

	_, err = ResolveAppID("Bearer nope", testApps())
	assert.EqualError(t, err, "Invalid bearer token")
}

func TestBuildCarriesCollaborators(t *testing.T) {
	b := &Builder{Apps: testApps()}

	rc, err := b.Build("Bearer bot-token", "req-1")
	require.NoError(t, err)
	require.NotNil(t, rc.AppID)
	assert.Equal(t, config.AppTripbotDiscord, *rc.AppID)
	assert.Equal(t, "req-1", rc.RequestID)
	assert.NotNil(t, rc.Logger)
	assert.True(t, rc.HasApp([]string{config.AppTripbotDiscord}))
	assert.False(t, rc.HasApp([]string{config.AppMainWebsite}))

	anon, err := b.Build("", "")
	require.NoError(t, err)
	assert.Nil(t, anon.AppID)
	assert.False(t, anon.HasApp([]string{config.AppTripbotDiscord, config.AppMainWebsite}))

	_, err = b.Build("Token abc", "")
	require.Error(t, err)
}

func TestWithAndFrom(t *testing.T) {
	assert.Nil(t, From(context.Background()))

	rc := &Context{RequestID: "abc"}
	ctx := With(context.Background(), rc)
	assert.Same(t, rc, From(ctx))
}

func strPtr(s string) *string { return &s }
