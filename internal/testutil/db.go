// Package testutil holds shared fixtures for package tests and the devdb tool.
package testutil

import (
	"testing"

	pureSqlite "github.com/glebarez/sqlite"
	"github.com/tripsit/tripsit-api/internal/database"
	"github.com/tripsit/tripsit-api/internal/models"
	"gorm.io/gorm"
)

// NewTestDB creates a migrated in-memory SQLite database for testing.
// The pool is pinned to one connection so every statement sees the same
// in-memory database.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open(pureSqlite.Open(":memory:"), true)
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get test sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateUser inserts a user with the given username.
func CreateUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: &username}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return user
}

// CreateDrug inserts a drug with its default COMMON name followed by any
// additional names.
func CreateDrug(t *testing.T, db *gorm.DB, defaultName string, aliases ...string) *models.Drug {
	t.Helper()
	drug := &models.Drug{LastUpdatedBy: "00000000-0000-0000-0000-000000000000"}
	if err := db.Create(drug).Error; err != nil {
		t.Fatalf("Failed to create drug: %v", err)
	}

	names := []models.DrugName{{DrugID: drug.ID, Name: defaultName, Type: models.DrugNameCommon, IsDefault: true}}
	for _, alias := range aliases {
		names = append(names, models.DrugName{DrugID: drug.ID, Name: alias, Type: models.DrugNameSubstitutive})
	}
	if err := db.Create(&names).Error; err != nil {
		t.Fatalf("Failed to create drug names: %v", err)
	}
	drug.Names = names
	return drug
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
