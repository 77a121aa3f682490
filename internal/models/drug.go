package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Drug is a substance in the reference catalogue. Its display name is the
// DrugName row flagged IsDefault.
type Drug struct {
	ID                   string  `gorm:"type:char(36);primaryKey"`
	Summary              *string `gorm:"type:text"`
	PsychonautWikiURL    *string `gorm:"column:psychonaut_wiki_url;size:2048"`
	ErowidExperiencesURL *string `gorm:"column:errowid_experiences_url;size:2048"`
	LastUpdatedBy        string  `gorm:"type:char(36);not null"`
	UpdatedAt            time.Time
	CreatedAt            time.Time
	Names                []DrugName    `gorm:"foreignKey:DrugID"`
	Articles             []DrugArticle `gorm:"foreignKey:DrugID"`
	Variants             []DrugVariant `gorm:"foreignKey:DrugID"`
}

// DrugName is a name for a drug. At most one name per drug is the default.
type DrugName struct {
	ID        string       `gorm:"type:char(36);primaryKey"`
	DrugID    string       `gorm:"type:char(36);not null;uniqueIndex:idx_drug_names_drug_name"`
	Name      string       `gorm:"size:255;not null;uniqueIndex:idx_drug_names_drug_name"`
	Type      DrugNameType `gorm:"size:32;not null"`
	IsDefault bool         `gorm:"not null;default:false"`
}

// DrugArticle is an external or inline article about a drug.
type DrugArticle struct {
	ID             string          `gorm:"type:char(36);primaryKey"`
	DrugID         string          `gorm:"type:char(36);not null;index"`
	Type           DrugArticleType `gorm:"size:32;not null"`
	URL            string          `gorm:"column:url;size:2048;not null"`
	Title          string          `gorm:"size:255;not null"`
	Description    *string         `gorm:"type:text"`
	PublishedAt    *time.Time
	LastModifiedBy string `gorm:"type:char(36);not null"`
	LastModifiedAt time.Time
	PostedBy       string `gorm:"type:char(36);not null"`
	CreatedAt      time.Time
}

// DrugVariant is a form of a drug with its own dosing profile.
type DrugVariant struct {
	ID            string  `gorm:"type:char(36);primaryKey"`
	DrugID        string  `gorm:"type:char(36);not null;index"`
	Name          *string `gorm:"size:255"`
	Description   *string `gorm:"type:text"`
	Default       bool    `gorm:"column:is_default;not null;default:false"`
	LastUpdatedBy string  `gorm:"type:char(36);not null"`
	UpdatedAt     time.Time
	CreatedAt     time.Time
	Roas          []DrugVariantRoa `gorm:"foreignKey:DrugVariantID"`
}

// DrugVariantRoa is the dosing and duration profile of a variant for one route.
type DrugVariantRoa struct {
	ID            string                `gorm:"type:char(36);primaryKey"`
	DrugVariantID string                `gorm:"type:char(36);not null;index"`
	Route         RouteOfAdministration `gorm:"size:32;not null"`

	DoseThreshold *float64
	DoseLight     *float64
	DoseCommon    *float64
	DoseStrong    *float64
	DoseHeavy     *float64
	DoseWarning   *float64

	DurationTotalMin        *float64
	DurationTotalMax        *float64
	DurationOnsetMin        *float64
	DurationOnsetMax        *float64
	DurationComeupMin       *float64
	DurationComeupMax       *float64
	DurationPeakMin         *float64
	DurationPeakMax         *float64
	DurationOffsetMin       *float64
	DurationOffsetMax       *float64
	DurationAfterEffectsMin *float64
	DurationAfterEffectsMax *float64
}

// DrugCategory groups drugs.
type DrugCategory struct {
	ID        string           `gorm:"type:char(36);primaryKey"`
	Name      string           `gorm:"size:255;not null;uniqueIndex"`
	Type      DrugCategoryType `gorm:"size:32;not null"`
	CreatedAt time.Time
}

// DrugCategoryDrug links a drug to a category.
type DrugCategoryDrug struct {
	DrugID         string `gorm:"type:char(36);primaryKey"`
	DrugCategoryID string `gorm:"type:char(36);primaryKey;index"`
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

// BeforeCreate assigns the id.
func (d *Drug) BeforeCreate(tx *gorm.DB) error { newID(&d.ID); return nil }

// BeforeCreate assigns the id.
func (n *DrugName) BeforeCreate(tx *gorm.DB) error { newID(&n.ID); return nil }

// BeforeCreate assigns the id.
func (a *DrugArticle) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	if a.LastModifiedAt.IsZero() {
		a.LastModifiedAt = time.Now().UTC()
	}
	return nil
}

// BeforeCreate assigns the id.
func (v *DrugVariant) BeforeCreate(tx *gorm.DB) error { newID(&v.ID); return nil }

// BeforeCreate assigns the id.
func (r *DrugVariantRoa) BeforeCreate(tx *gorm.DB) error { newID(&r.ID); return nil }

// BeforeCreate assigns the id.
func (c *DrugCategory) BeforeCreate(tx *gorm.DB) error { newID(&c.ID); return nil }

// TableName overrides the table name for DrugCategoryDrug
func (DrugCategoryDrug) TableName() string {
	return "drug_category_drugs"
}
