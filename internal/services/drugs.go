package services

import (
	"context"

	"github.com/tripsit/tripsit-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Drug messages.
const (
	MsgDrugNotFound  = "Drug not found"
	MsgNoDefaultName = "Drug has no default name"
)

// DrugFilter narrows ListDrugs. Name matches any of a drug's names,
// case-insensitively. Zero Limit means no limit.
type DrugFilter struct {
	ID     *string
	Name   *string
	Limit  int
	Offset int
}

// CreateDrugInput holds a new drug and its default name.
type CreateDrugInput struct {
	Name                 string
	Summary              *string
	PsychonautWikiURL    *string
	ErowidExperiencesURL *string
	LastUpdatedBy        string
}

// ListDrugs returns the drugs matching filter, each at most once.
func ListDrugs(ctx context.Context, db *gorm.DB, filter DrugFilter) ([]models.Drug, error) {
	tx := session(ctx, db)
	query := tx.Clauses(hints.CommentBefore("select", "drug_search"))

	if present(filter.ID) {
		query = query.Where("drugs.id = ?", *filter.ID)
	}
	if present(filter.Name) {
		names := tx.Model(&models.DrugName{}).
			Select("drug_id").
			Where("LOWER(name) LIKE ?", likePattern(*filter.Name))
		query = query.Where("drugs.id IN (?)", names)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var drugs []models.Drug
	if err := query.Order("drugs.created_at, drugs.id").Find(&drugs).Error; err != nil {
		return nil, err
	}
	return drugs, nil
}

// GetDrug loads one drug.
func GetDrug(ctx context.Context, db *gorm.DB, id string) (*models.Drug, error) {
	var drug models.Drug
	if err := session(ctx, db).Where("id = ?", id).Take(&drug).Error; err != nil {
		return nil, notFound(err, MsgDrugNotFound)
	}
	return &drug, nil
}

// CreateDrug inserts a drug together with its default COMMON name.
func CreateDrug(ctx context.Context, db *gorm.DB, in CreateDrugInput) (*models.Drug, error) {
	drug := &models.Drug{
		Summary:              in.Summary,
		PsychonautWikiURL:    in.PsychonautWikiURL,
		ErowidExperiencesURL: in.ErowidExperiencesURL,
		LastUpdatedBy:        in.LastUpdatedBy,
	}

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(drug).Error; err != nil {
			return err
		}
		name := models.DrugName{
			DrugID:    drug.ID,
			Name:      in.Name,
			Type:      models.DrugNameCommon,
			IsDefault: true,
		}
		if err := tx.Create(&name).Error; err != nil {
			return err
		}
		drug.Names = []models.DrugName{name}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drug, nil
}

// DefaultDrugName returns the display name of a drug.
func DefaultDrugName(ctx context.Context, db *gorm.DB, drugID string) (string, error) {
	var name models.DrugName
	err := session(ctx, db).
		Where("drug_id = ? AND is_default = ?", drugID, true).
		Take(&name).Error
	if err != nil {
		return "", notFound(err, MsgNoDefaultName)
	}
	return name.Name, nil
}

// DrugAliases returns the non-default names of a drug ordered by name.
func DrugAliases(ctx context.Context, db *gorm.DB, drugID string) ([]models.DrugName, error) {
	var names []models.DrugName
	err := session(ctx, db).
		Where("drug_id = ? AND is_default = ?", drugID, false).
		Order("name").
		Find(&names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

// DrugNames returns every name of a drug ordered by name.
func DrugNames(ctx context.Context, db *gorm.DB, drugID string) ([]models.DrugName, error) {
	var names []models.DrugName
	if err := session(ctx, db).Where("drug_id = ?", drugID).Order("name").Find(&names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

// DrugArticles returns the articles about a drug.
func DrugArticles(ctx context.Context, db *gorm.DB, drugID string) ([]models.DrugArticle, error) {
	var articles []models.DrugArticle
	err := session(ctx, db).
		Where("drug_id = ?", drugID).
		Order("created_at").
		Find(&articles).Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}

// DrugVariants returns the variants of a drug, default first.
func DrugVariants(ctx context.Context, db *gorm.DB, drugID string) ([]models.DrugVariant, error) {
	var variants []models.DrugVariant
	err := session(ctx, db).
		Where("drug_id = ?", drugID).
		Order("is_default DESC, created_at").
		Find(&variants).Error
	if err != nil {
		return nil, err
	}
	return variants, nil
}

// VariantRoas returns the route profiles of a variant.
func VariantRoas(ctx context.Context, db *gorm.DB, variantID string) ([]models.DrugVariantRoa, error) {
	var roas []models.DrugVariantRoa
	err := session(ctx, db).
		Where("drug_variant_id = ?", variantID).
		Order("route").
		Find(&roas).Error
	if err != nil {
		return nil, err
	}
	return roas, nil
}

// DrugCategoriesOf returns the categories a drug belongs to ordered by name.
func DrugCategoriesOf(ctx context.Context, db *gorm.DB, drugID string) ([]models.DrugCategory, error) {
	var categories []models.DrugCategory
	err := session(ctx, db).
		Joins("JOIN drug_category_drugs ON drug_category_drugs.drug_category_id = drug_categories.id").
		Where("drug_category_drugs.drug_id = ?", drugID).
		Order("drug_categories.name").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}
