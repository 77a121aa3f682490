package graph

import (
	"context"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/services"
	"github.com/tripsit/tripsit-api/internal/testutil"
)

func TestRuleFieldReplacesType(t *testing.T) {
	perms := Permissions{
		Types:  map[string][]string{"Drug": {website}},
		Fields: map[string][]string{"Drug.lastUpdatedBy": {tripbot}},
	}

	apps, ok := perms.Rule("Drug", "name")
	require.True(t, ok)
	assert.Equal(t, []string{website}, apps)

	apps, ok = perms.Rule("Drug", "lastUpdatedBy")
	require.True(t, ok)
	assert.Equal(t, []string{tripbot}, apps)

	_, ok = perms.Rule("User", "email")
	assert.False(t, ok)
}

func TestGuardNeverCallsResolverWhenRefused(t *testing.T) {
	calls := 0
	inner := func(p graphql.ResolveParams) (interface{}, error) {
		calls++
		return "value", nil
	}
	resolve := guard([]string{tripbot}, inner)

	tests := []struct {
		name  string
		ctx   context.Context
		allow bool
	}{
		{"no request context", context.Background(), false},
		{"anonymous", reqctx.With(context.Background(), &reqctx.Context{}), false},
		{"other app", reqctx.With(context.Background(), &reqctx.Context{AppID: &website}), false},
		{"allowed app", reqctx.With(context.Background(), &reqctx.Context{AppID: &tripbot}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls = 0
			value, err := resolve(graphql.ResolveParams{Context: tt.ctx})
			if tt.allow {
				require.NoError(t, err)
				assert.Equal(t, "value", value)
				assert.Equal(t, 1, calls)
				return
			}
			require.Error(t, err)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeNotAuthorized))
			assert.Equal(t, "Not authorized", err.Error())
			assert.Zero(t, calls)
		})
	}
}

func TestValidateRejectsBadTables(t *testing.T) {
	assert.NoError(t, DefaultPermissions().Validate())
	assert.Error(t, Permissions{Fields: map[string][]string{"Drug.lastUpdatedBy": {}}}.Validate())
	assert.Error(t, Permissions{Fields: map[string][]string{"lastUpdatedBy": {tripbot}}}.Validate())
	assert.Error(t, Permissions{Types: map[string][]string{"Drug": nil}}.Validate())

	_, err := NewSchema(Options{Permissions: Permissions{Fields: map[string][]string{"Drug.nope": {tripbot}}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Drug.nope")
}

const lsdSummary = "Lysergic acid diethylamide"

func createAttributedDrug(t *testing.T, h *harness) (editorID string) {
	t.Helper()
	editor := testutil.CreateUser(t, h.db, "editor")
	_, err := services.CreateDrug(context.Background(), h.db, services.CreateDrugInput{
		Name:          "LSD",
		Summary:       testutil.Ptr(lsdSummary),
		LastUpdatedBy: editor.ID,
	})
	require.NoError(t, err)
	return editor.ID
}

func TestLastUpdatedByIsTripbotOnly(t *testing.T) {
	h := newHarness(t, Options{})
	editorID := createAttributedDrug(t, h)
	query := `{ drugs { name lastUpdatedBy { id } } }`

	type drugs struct {
		Drugs []struct {
			Name          string
			LastUpdatedBy *struct{ ID string }
		}
	}

	var out drugs
	h.mustRun(&tripbot, query, nil, &out)
	require.Len(t, out.Drugs, 1)
	require.NotNil(t, out.Drugs[0].LastUpdatedBy)
	assert.Equal(t, editorID, out.Drugs[0].LastUpdatedBy.ID)

	for _, appID := range []*string{&website, nil} {
		res := h.run(appID, query, nil)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "Not authorized", res.Errors[0].Message)
		assert.Equal(t, apperrors.CodeNotAuthorized, errorCode(res.Errors[0]))

		var refused drugs
		decode(t, res, &refused)
		require.Len(t, refused.Drugs, 1)
		assert.Equal(t, "LSD", refused.Drugs[0].Name, "sibling fields still resolve")
		assert.Nil(t, refused.Drugs[0].LastUpdatedBy)
	}
}

func TestTypeRuleAppliesToUnlistedFields(t *testing.T) {
	h := newHarness(t, Options{Permissions: Permissions{
		Types:  map[string][]string{"Drug": {website}},
		Fields: map[string][]string{"Drug.lastUpdatedBy": {tripbot}},
	}})
	createAttributedDrug(t, h)

	type drugs struct {
		Drugs []struct {
			Summary       *string
			LastUpdatedBy *struct{ ID string }
		}
	}

	var out drugs
	res := h.run(&tripbot, `{ drugs { summary lastUpdatedBy { id } } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, apperrors.CodeNotAuthorized, errorCode(res.Errors[0]))
	decode(t, res, &out)
	require.Len(t, out.Drugs, 1)
	assert.Nil(t, out.Drugs[0].Summary, "type rule excludes tripbot")
	assert.NotNil(t, out.Drugs[0].LastUpdatedBy, "field rule replaces the type rule")

	var asWebsite drugs
	res = h.run(&website, `{ drugs { summary lastUpdatedBy { id } } }`, nil)
	require.Len(t, res.Errors, 1)
	decode(t, res, &asWebsite)
	require.NotNil(t, asWebsite.Drugs[0].Summary)
	assert.Equal(t, lsdSummary, *asWebsite.Drugs[0].Summary)
	assert.Nil(t, asWebsite.Drugs[0].LastUpdatedBy, "type membership does not extend a field rule")
}
