package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/services"
)

func (s *Schema) defineDrugTypes() {
	s.drugType = s.object("Drug", "A substance in the reference catalogue.", s.drugFields)
	s.drugNameType = s.object("DrugName", "", drugNameFields)
	s.drugArticleType = s.object("DrugArticle", "", s.drugArticleFields)
	s.drugVariantType = s.object("DrugVariant", "A form of a drug with its own dosing profile.", s.drugVariantFields)
	s.drugVariantRoaType = s.object("DrugVariantRoa", "Dosing and duration for one route of administration.", drugVariantRoaFields)
	s.drugCategoryType = s.object("DrugCategory", "", s.drugCategoryFields)
}

func (s *Schema) drugFields() graphql.Fields {
	return graphql.Fields{
		"id": field(nonNull(graphql.ID), prop(func(d *models.Drug) interface{} { return d.ID })),
		"name": field(nonNull(graphql.String), load(func(p graphql.ResolveParams, rc *reqctx.Context, d *models.Drug) (interface{}, error) {
			return services.DefaultDrugName(p.Context, rc.DB, d.ID)
		})),
		"aliases": field(listOf(s.drugNameType), load(func(p graphql.ResolveParams, rc *reqctx.Context, d *models.Drug) (interface{}, error) {
			return services.DrugAliases(p.Context, rc.DB, d.ID)
		})),
		"articles": field(listOf(s.drugArticleType), load(func(p graphql.ResolveParams, rc *reqctx.Context, d *models.Drug) (interface{}, error) {
			return services.DrugArticles(p.Context, rc.DB, d.ID)
		})),
		"variants": field(listOf(s.drugVariantType), load(func(p graphql.ResolveParams, rc *reqctx.Context, d *models.Drug) (interface{}, error) {
			return services.DrugVariants(p.Context, rc.DB, d.ID)
		})),
		"categories": field(listOf(s.drugCategoryType), load(func(p graphql.ResolveParams, rc *reqctx.Context, d *models.Drug) (interface{}, error) {
			return services.DrugCategoriesOf(p.Context, rc.DB, d.ID)
		})),
		"summary":               field(graphql.String, prop(func(d *models.Drug) interface{} { return d.Summary })),
		"psychonautWikiUrl":     field(URL, prop(func(d *models.Drug) interface{} { return d.PsychonautWikiURL })),
		"errowidExperiencesUrl": field(URL, prop(func(d *models.Drug) interface{} { return d.ErowidExperiencesURL })),
		// Nullable: a refused read nulls this field only.
		"lastUpdatedBy": field(s.userType, userRef(func(d *models.Drug) *string {
			return &d.LastUpdatedBy
		})),
		"updatedAt": field(nonNull(DateTime), prop(func(d *models.Drug) interface{} { return d.UpdatedAt })),
		"createdAt": field(nonNull(DateTime), prop(func(d *models.Drug) interface{} { return d.CreatedAt })),
	}
}

func drugNameFields() graphql.Fields {
	return graphql.Fields{
		"id":        field(nonNull(graphql.ID), prop(func(n *models.DrugName) interface{} { return n.ID })),
		"name":      field(nonNull(graphql.String), prop(func(n *models.DrugName) interface{} { return n.Name })),
		"type":      field(nonNull(drugNameTypeEnum), prop(func(n *models.DrugName) interface{} { return n.Type })),
		"isDefault": field(nonNull(graphql.Boolean), prop(func(n *models.DrugName) interface{} { return n.IsDefault })),
	}
}

func (s *Schema) drugArticleFields() graphql.Fields {
	return graphql.Fields{
		"id":          field(nonNull(graphql.ID), prop(func(a *models.DrugArticle) interface{} { return a.ID })),
		"type":        field(nonNull(drugArticleTypeEnum), prop(func(a *models.DrugArticle) interface{} { return a.Type })),
		"url":         field(nonNull(URL), prop(func(a *models.DrugArticle) interface{} { return a.URL })),
		"title":       field(nonNull(graphql.String), prop(func(a *models.DrugArticle) interface{} { return a.Title })),
		"description": field(graphql.String, prop(func(a *models.DrugArticle) interface{} { return a.Description })),
		"publishedAt": field(DateTime, prop(func(a *models.DrugArticle) interface{} { return a.PublishedAt })),
		"lastModifiedBy": field(nonNull(s.userType), userRef(func(a *models.DrugArticle) *string {
			return &a.LastModifiedBy
		})),
		"lastModifiedAt": field(nonNull(DateTime), prop(func(a *models.DrugArticle) interface{} { return a.LastModifiedAt })),
		"postedBy": field(nonNull(s.userType), userRef(func(a *models.DrugArticle) *string {
			return &a.PostedBy
		})),
		"createdAt": field(nonNull(DateTime), prop(func(a *models.DrugArticle) interface{} { return a.CreatedAt })),
	}
}

func (s *Schema) drugVariantFields() graphql.Fields {
	return graphql.Fields{
		"id":          field(nonNull(graphql.ID), prop(func(v *models.DrugVariant) interface{} { return v.ID })),
		"name":        field(graphql.String, prop(func(v *models.DrugVariant) interface{} { return v.Name })),
		"description": field(graphql.String, prop(func(v *models.DrugVariant) interface{} { return v.Description })),
		"default":     field(nonNull(graphql.Boolean), prop(func(v *models.DrugVariant) interface{} { return v.Default })),
		"roas": field(listOf(s.drugVariantRoaType), load(func(p graphql.ResolveParams, rc *reqctx.Context, v *models.DrugVariant) (interface{}, error) {
			return services.VariantRoas(p.Context, rc.DB, v.ID)
		})),
		"lastUpdatedBy": field(nonNull(s.userType), userRef(func(v *models.DrugVariant) *string {
			return &v.LastUpdatedBy
		})),
		"updatedAt": field(nonNull(DateTime), prop(func(v *models.DrugVariant) interface{} { return v.UpdatedAt })),
		"createdAt": field(nonNull(DateTime), prop(func(v *models.DrugVariant) interface{} { return v.CreatedAt })),
	}
}

func drugVariantRoaFields() graphql.Fields {
	measure := func(get func(r *models.DrugVariantRoa) *float64) *graphql.Field {
		return field(UnsignedFloat, prop(func(r *models.DrugVariantRoa) interface{} { return get(r) }))
	}
	return graphql.Fields{
		"id":    field(nonNull(graphql.ID), prop(func(r *models.DrugVariantRoa) interface{} { return r.ID })),
		"route": field(nonNull(roaEnum), prop(func(r *models.DrugVariantRoa) interface{} { return r.Route })),

		"doseThreshold": measure(func(r *models.DrugVariantRoa) *float64 { return r.DoseThreshold }),
		"doseLight":     measure(func(r *models.DrugVariantRoa) *float64 { return r.DoseLight }),
		"doseCommon":    measure(func(r *models.DrugVariantRoa) *float64 { return r.DoseCommon }),
		"doseStrong":    measure(func(r *models.DrugVariantRoa) *float64 { return r.DoseStrong }),
		"doseHeavy":     measure(func(r *models.DrugVariantRoa) *float64 { return r.DoseHeavy }),
		"doseWarning":   measure(func(r *models.DrugVariantRoa) *float64 { return r.DoseWarning }),

		"durationTotalMin":        measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationTotalMin }),
		"durationTotalMax":        measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationTotalMax }),
		"durationOnsetMin":        measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationOnsetMin }),
		"durationOnsetMax":        measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationOnsetMax }),
		"durationComeupMin":       measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationComeupMin }),
		"durationComeupMax":       measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationComeupMax }),
		"durationPeakMin":         measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationPeakMin }),
		"durationPeakMax":         measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationPeakMax }),
		"durationOffsetMin":       measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationOffsetMin }),
		"durationOffsetMax":       measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationOffsetMax }),
		"durationAfterEffectsMin": measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationAfterEffectsMin }),
		"durationAfterEffectsMax": measure(func(r *models.DrugVariantRoa) *float64 { return r.DurationAfterEffectsMax }),
	}
}

func (s *Schema) drugCategoryFields() graphql.Fields {
	return graphql.Fields{
		"id":   field(nonNull(graphql.ID), prop(func(c *models.DrugCategory) interface{} { return c.ID })),
		"name": field(nonNull(graphql.String), prop(func(c *models.DrugCategory) interface{} { return c.Name })),
		"type": field(nonNull(drugCategoryTypeEnum), prop(func(c *models.DrugCategory) interface{} { return c.Type })),
		"drugs": field(listOf(s.drugType), load(func(p graphql.ResolveParams, rc *reqctx.Context, c *models.DrugCategory) (interface{}, error) {
			return services.CategoryDrugs(p.Context, rc.DB, c.ID)
		})),
		"createdAt": field(nonNull(DateTime), prop(func(c *models.DrugCategory) interface{} { return c.CreatedAt })),
	}
}
