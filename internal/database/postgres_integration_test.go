package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/config"
	"github.com/tripsit/tripsit-api/internal/database"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/testutil"
)

func TestPostgresMigrationIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	pg, err := testutil.StartPostgres(ctx)
	if err != nil {
		t.Skipf("docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	cfg := &config.Config{App: config.AppConfig{Env: config.EnvTest}, Database: pg.Database}
	db, err := database.Connect(cfg)
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.AutoMigrate(db))

	drug := models.Drug{LastUpdatedBy: "00000000-0000-0000-0000-000000000000"}
	require.NoError(t, db.Create(&drug).Error)
	require.NoError(t, db.Create(&models.DrugName{DrugID: drug.ID, Name: "LSD", Type: models.DrugNameCommon, IsDefault: true}).Error)

	dup := models.DrugName{DrugID: drug.ID, Name: "LSD", Type: models.DrugNameBrand}
	require.Error(t, db.Create(&dup).Error, "unique (drug, name) index")
}
