package services

import (
	"context"

	"github.com/tripsit/tripsit-api/internal/models"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"gorm.io/gorm"
)

// Drug name messages.
const (
	MsgDuplicateDrugName = "Cannot have duplicate names for the same drug"
	MsgDrugNameNotFound  = "Drug name not found"
)

// CreateDrugName adds a non-default name to a drug. A drug cannot carry the
// same name twice.
func CreateDrugName(ctx context.Context, db *gorm.DB, drugID, name string, nameType models.DrugNameType) (*models.DrugName, error) {
	drugName := &models.DrugName{DrugID: drugID, Name: name, Type: nameType}

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		// Lock the drug so concurrent inserts for it serialize.
		var drug models.Drug
		if err := tx.Clauses(forUpdate).Where("id = ?", drugID).Take(&drug).Error; err != nil {
			return notFound(err, MsgDrugNotFound)
		}

		var count int64
		err := tx.Model(&models.DrugName{}).
			Where("drug_id = ? AND name = ?", drugID, name).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ValidationError(MsgDuplicateDrugName)
		}
		return tx.Create(drugName).Error
	})
	if err != nil {
		return nil, err
	}
	return drugName, nil
}

// DeleteDrugName removes a name. Deleting a missing name is not an error.
func DeleteDrugName(ctx context.Context, db *gorm.DB, id string) error {
	return session(ctx, db).Where("id = ?", id).Delete(&models.DrugName{}).Error
}

// SetDefaultDrugName makes the name the default for its drug and clears the
// previous default, atomically. It returns every name of the drug.
func SetDefaultDrugName(ctx context.Context, db *gorm.DB, id string) ([]models.DrugName, error) {
	var names []models.DrugName

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		var target models.DrugName
		if err := tx.Clauses(forUpdate).Where("id = ?", id).Take(&target).Error; err != nil {
			return notFound(err, MsgDrugNameNotFound)
		}
		var drug models.Drug
		if err := tx.Clauses(forUpdate).Where("id = ?", target.DrugID).Take(&drug).Error; err != nil {
			return notFound(err, MsgDrugNotFound)
		}

		err := tx.Model(&models.DrugName{}).
			Where("drug_id = ? AND is_default = ?", target.DrugID, true).
			Update("is_default", false).Error
		if err != nil {
			return err
		}

		err = tx.Model(&models.DrugName{}).
			Where("id = ?", id).
			Update("is_default", true).Error
		if err != nil {
			return err
		}

		return tx.Where("drug_id = ?", target.DrugID).Order("name").Find(&names).Error
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}
