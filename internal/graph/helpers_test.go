package graph

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/discord"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	tripbot = config.AppTripbotDiscord
	website = config.AppMainWebsite
)

type harness struct {
	t       *testing.T
	db      *gorm.DB
	schema  *Schema
	discord discord.API
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	if opts.Permissions.Types == nil && opts.Permissions.Fields == nil {
		opts.Permissions = DefaultPermissions()
	}
	schema, err := NewSchema(opts)
	require.NoError(t, err)
	return &harness{t: t, db: testutil.NewTestDB(t), schema: schema}
}

func (h *harness) run(appID *string, query string, vars map[string]interface{}) *graphql.Result {
	h.t.Helper()
	ctx := reqctx.With(context.Background(), &reqctx.Context{
		AppID:   appID,
		DB:      h.db,
		Discord: h.discord,
		Logger:  zap.NewNop(),
	})
	return h.schema.Execute(ctx, Request{Query: query, Variables: vars})
}

// mustRun executes query and fails the test on any GraphQL error.
func (h *harness) mustRun(appID *string, query string, vars map[string]interface{}, out interface{}) {
	h.t.Helper()
	res := h.run(appID, query, vars)
	require.Empty(h.t, res.Errors)
	decode(h.t, res, out)
}

func decode(t *testing.T, res *graphql.Result, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(res.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func errorCode(err gqlerrors.FormattedError) interface{} {
	if err.Extensions == nil {
		return nil
	}
	return err.Extensions["code"]
}
