package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/models"
)

// enumOf builds an enum whose internal values are the typed model constants,
// so arguments arrive as T and T values serialize without conversion.
func enumOf[T ~string](name string, values []T) *graphql.Enum {
	cfg := make(graphql.EnumValueConfigMap, len(values))
	for _, v := range values {
		cfg[string(v)] = &graphql.EnumValueConfig{Value: v}
	}
	return graphql.NewEnum(graphql.EnumConfig{Name: name, Values: cfg})
}

var (
	userActionTypeEnum   = enumOf("UserActionType", models.UserActionTypes)
	ticketTypeEnum       = enumOf("TicketType", models.UserTicketTypes)
	ticketStatusEnum     = enumOf("TicketStatus", models.UserTicketStatuses)
	drugNameTypeEnum     = enumOf("DrugNameType", models.DrugNameTypes)
	drugCategoryTypeEnum = enumOf("DrugCategoryType", models.DrugCategoryTypes)
	drugArticleTypeEnum  = enumOf("DrugArticleType", models.DrugArticleTypes)
	roaEnum              = enumOf("RouteOfAdministration", models.RoutesOfAdministration)
	doseUnitEnum         = enumOf("DoseUnit", models.DoseUnits)
)
