package services

import (
	"context"

	"github.com/tripsit/tripsit-api/internal/models"
	"gorm.io/gorm"
)

// CreateUserDrugDoseInput holds a reported dose.
type CreateUserDrugDoseInput struct {
	UserID string
	DrugID string
	Route  *models.RouteOfAdministration
	Dose   float64
	Units  models.DoseUnit
}

// CreateUserDrugDose records a dose.
func CreateUserDrugDose(ctx context.Context, db *gorm.DB, in CreateUserDrugDoseInput) (*models.UserDrugDose, error) {
	dose := &models.UserDrugDose{
		UserID: in.UserID,
		DrugID: in.DrugID,
		Route:  in.Route,
		Dose:   in.Dose,
		Units:  in.Units,
	}
	if err := session(ctx, db).Create(dose).Error; err != nil {
		return nil, err
	}
	return dose, nil
}
