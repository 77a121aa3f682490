package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/services"
)

func (s *Schema) queryFields() graphql.Fields {
	return graphql.Fields{
		"users": &graphql.Field{
			Type: listOf(s.userType),
			Args: graphql.FieldConfigArgument{
				"id":        arg(UUID),
				"discordId": arg(graphql.String),
				"username": &graphql.ArgumentConfig{
					Type:        graphql.String,
					Description: "Case-insensitive substring match",
				},
				"email": &graphql.ArgumentConfig{
					Type:        graphql.String,
					Description: "Case-insensitive substring match",
				},
			},
			Resolve: s.resolveUsers,
		},
		"drugs": &graphql.Field{
			Type: listOf(s.drugType),
			Args: graphql.FieldConfigArgument{
				"id": arg(UUID),
				"name": &graphql.ArgumentConfig{
					Type:        graphql.String,
					Description: "Case-insensitive substring match against any name of the drug",
				},
				"limit": &graphql.ArgumentConfig{
					Type:        UnsignedInt,
					Description: "Maximum number of drugs, unbounded when 0 or absent",
				},
				"offset": &graphql.ArgumentConfig{
					Type:        UnsignedInt,
					Description: "Number of drugs to skip",
				},
			},
			Resolve: s.resolveDrugs,
		},
		"drugCategories": &graphql.Field{
			Type: listOf(s.drugCategoryType),
			Args: graphql.FieldConfigArgument{
				"id":   arg(UUID),
				"name": arg(graphql.String),
				"type": arg(drugCategoryTypeEnum),
			},
			Resolve: s.resolveDrugCategories,
		},
		"discordGuilds": &graphql.Field{
			Type: listOf(s.discordGuildType),
			Args: graphql.FieldConfigArgument{
				"id": arg(graphql.String),
				"includeRemoved": &graphql.ArgumentConfig{
					Type:         graphql.Boolean,
					DefaultValue: false,
				},
			},
			Resolve: s.resolveDiscordGuilds,
		},
	}
}

func (s *Schema) resolveUsers(p graphql.ResolveParams) (interface{}, error) {
	rc, err := requestContext(p)
	if err != nil {
		return nil, err
	}
	return services.ListUsers(p.Context, rc.DB, services.UserFilter{
		ID:        argOptString(p.Args, "id"),
		DiscordID: argOptString(p.Args, "discordId"),
		Username:  argOptString(p.Args, "username"),
		Email:     argOptString(p.Args, "email"),
	})
}

func (s *Schema) resolveDrugs(p graphql.ResolveParams) (interface{}, error) {
	rc, err := requestContext(p)
	if err != nil {
		return nil, err
	}
	return services.ListDrugs(p.Context, rc.DB, services.DrugFilter{
		ID:     argOptString(p.Args, "id"),
		Name:   argOptString(p.Args, "name"),
		Limit:  argUint(p.Args, "limit"),
		Offset: argUint(p.Args, "offset"),
	})
}

func (s *Schema) resolveDrugCategories(p graphql.ResolveParams) (interface{}, error) {
	rc, err := requestContext(p)
	if err != nil {
		return nil, err
	}
	return services.ListDrugCategories(p.Context, rc.DB, services.CategoryFilter{
		ID:   argOptString(p.Args, "id"),
		Name: argOptString(p.Args, "name"),
		Type: argOptEnum[models.DrugCategoryType](p.Args, "type"),
	})
}

func (s *Schema) resolveDiscordGuilds(p graphql.ResolveParams) (interface{}, error) {
	rc, err := requestContext(p)
	if err != nil {
		return nil, err
	}
	includeRemoved, _ := p.Args["includeRemoved"].(bool)
	return services.ListDiscordGuilds(p.Context, rc.DB, argOptString(p.Args, "id"), includeRemoved)
}
