package services

import (
	"context"

	"github.com/tripsit/tripsit-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CategoryFilter narrows ListDrugCategories.
type CategoryFilter struct {
	ID   *string
	Name *string
	Type *models.DrugCategoryType
}

// ListDrugCategories returns matching categories ordered by name.
func ListDrugCategories(ctx context.Context, db *gorm.DB, filter CategoryFilter) ([]models.DrugCategory, error) {
	query := session(ctx, db)

	if present(filter.ID) {
		query = query.Where("id = ?", *filter.ID)
	}
	if present(filter.Name) {
		query = query.Where("LOWER(name) LIKE ?", likePattern(*filter.Name))
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}

	var categories []models.DrugCategory
	if err := query.Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateDrugCategory inserts a category.
func CreateDrugCategory(ctx context.Context, db *gorm.DB, name string, categoryType models.DrugCategoryType) (*models.DrugCategory, error) {
	category := &models.DrugCategory{Name: name, Type: categoryType}
	if err := session(ctx, db).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteDrugCategory removes a category and its drug links.
func DeleteDrugCategory(ctx context.Context, db *gorm.DB, id string) error {
	return session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("drug_category_id = ?", id).Delete(&models.DrugCategoryDrug{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.DrugCategory{}).Error
	})
}

// AssociateDrugWithCategory links a drug to a category and returns the drug.
// Linking twice is a no-op.
func AssociateDrugWithCategory(ctx context.Context, db *gorm.DB, drugID, categoryID string) (*models.Drug, error) {
	var drug models.Drug

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		link := models.DrugCategoryDrug{DrugID: drugID, DrugCategoryID: categoryID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", drugID).Take(&drug).Error; err != nil {
			return notFound(err, MsgDrugNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &drug, nil
}

// DisassociateDrugFromCategory unlinks a drug from a category and returns the drug.
func DisassociateDrugFromCategory(ctx context.Context, db *gorm.DB, drugID, categoryID string) (*models.Drug, error) {
	var drug models.Drug

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("drug_id = ? AND drug_category_id = ?", drugID, categoryID).
			Delete(&models.DrugCategoryDrug{}).Error
		if err != nil {
			return err
		}
		if err := tx.Where("id = ?", drugID).Take(&drug).Error; err != nil {
			return notFound(err, MsgDrugNotFound)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &drug, nil
}

// CategoryDrugs returns the drugs in a category.
func CategoryDrugs(ctx context.Context, db *gorm.DB, categoryID string) ([]models.Drug, error) {
	var drugs []models.Drug
	err := session(ctx, db).
		Joins("JOIN drug_category_drugs ON drug_category_drugs.drug_id = drugs.id").
		Where("drug_category_drugs.drug_category_id = ?", categoryID).
		Order("drugs.created_at").
		Find(&drugs).Error
	if err != nil {
		return nil, err
	}
	return drugs, nil
}
