package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/models"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/testutil"
)

func defaultNames(names []models.DrugName) []string {
	var out []string
	for _, n := range names {
		if n.IsDefault {
			out = append(out, n.Name)
		}
	}
	return out
}

func TestCreateDrugWithDefaultName(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	author := testutil.CreateUser(t, db, "author")

	drug, err := CreateDrug(ctx, db, CreateDrugInput{
		Name:          "LSD",
		Summary:       testutil.Ptr("A psychedelic"),
		LastUpdatedBy: author.ID,
	})
	require.NoError(t, err)

	name, err := DefaultDrugName(ctx, db, drug.ID)
	require.NoError(t, err)
	assert.Equal(t, "LSD", name)

	aliases, err := DrugAliases(ctx, db, drug.ID)
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestCreateDrugNameRejectsDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	drug := testutil.CreateDrug(t, db, "LSD", "Acid")

	_, err := CreateDrugName(ctx, db, drug.ID, "Acid", models.DrugNameSubstitutive)
	require.Error(t, err)
	assert.Equal(t, MsgDuplicateDrugName, err.Error())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	names, err := DrugNames(ctx, db, drug.ID)
	require.NoError(t, err)
	assert.Len(t, names, 2, "table unchanged")

	created, err := CreateDrugName(ctx, db, drug.ID, "Lucy", models.DrugNameSubstitutive)
	require.NoError(t, err)
	assert.False(t, created.IsDefault)

	other := testutil.CreateDrug(t, db, "Psilocybin")
	_, err = CreateDrugName(ctx, db, other.ID, "Acid", models.DrugNameSubstitutive)
	require.NoError(t, err, "names are unique per drug only")

	_, err = CreateDrugName(ctx, db, "00000000-0000-0000-0000-000000000000", "Acid", models.DrugNameBrand)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestSetDefaultDrugName(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	drug := testutil.CreateDrug(t, db, "LSD", "Acid", "Lucy")
	other := testutil.CreateDrug(t, db, "MDMA")

	var acid models.DrugName
	require.NoError(t, db.Where("drug_id = ? AND name = ?", drug.ID, "Acid").Take(&acid).Error)

	names, err := SetDefaultDrugName(ctx, db, acid.ID)
	require.NoError(t, err)
	require.Len(t, names, 3)
	assert.Equal(t, []string{"Acid", "LSD", "Lucy"}, []string{names[0].Name, names[1].Name, names[2].Name})
	assert.Equal(t, []string{"Acid"}, defaultNames(names))

	name, err := DefaultDrugName(ctx, db, drug.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acid", name)

	// Promoting the current default again keeps exactly one default.
	names, err = SetDefaultDrugName(ctx, db, acid.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Acid"}, defaultNames(names))

	// Other drugs keep their default.
	name, err = DefaultDrugName(ctx, db, other.ID)
	require.NoError(t, err)
	assert.Equal(t, "MDMA", name)

	_, err = SetDefaultDrugName(ctx, db, "00000000-0000-0000-0000-000000000000")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}

func TestListDrugsByName(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	lsd := testutil.CreateDrug(t, db, "LSD", "Acid", "Lucy in the sky")
	testutil.CreateDrug(t, db, "MDMA", "Molly")
	testutil.CreateDrug(t, db, "Psilocybin")

	drugs, err := ListDrugs(ctx, db, DrugFilter{Name: testutil.Ptr("l")})
	require.NoError(t, err)
	assert.Len(t, drugs, 3, "each drug once even with several matching names")

	drugs, err = ListDrugs(ctx, db, DrugFilter{Name: testutil.Ptr("ACID")})
	require.NoError(t, err)
	require.Len(t, drugs, 1)
	assert.Equal(t, lsd.ID, drugs[0].ID)

	drugs, err = ListDrugs(ctx, db, DrugFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, drugs, 2)

	drugs, err = ListDrugs(ctx, db, DrugFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, drugs, 1)

	drugs, err = ListDrugs(ctx, db, DrugFilter{ID: &lsd.ID})
	require.NoError(t, err)
	require.Len(t, drugs, 1)
}

func TestDeleteDrugName(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	drug := testutil.CreateDrug(t, db, "LSD", "Acid")

	aliases, err := DrugAliases(ctx, db, drug.ID)
	require.NoError(t, err)
	require.Len(t, aliases, 1)

	require.NoError(t, DeleteDrugName(ctx, db, aliases[0].ID))
	aliases, err = DrugAliases(ctx, db, drug.ID)
	require.NoError(t, err)
	assert.Empty(t, aliases)
}
