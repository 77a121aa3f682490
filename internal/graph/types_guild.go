package graph

import (
	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/services"
)

var guildChannelsInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "DiscordGuildChannelsInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"sanctuary":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"general":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"tripsit":      &graphql.InputObjectFieldConfig{Type: graphql.String},
		"tripsitMeta":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"applications": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var guildRolesInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "DiscordGuildRolesInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"needsHelp":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"tripsitter": &graphql.InputObjectFieldConfig{Type: graphql.String},
		"helper":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"techHelp":   &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

func guildInput(args map[string]interface{}) services.GuildInput {
	channels := argObject(args, "channels")
	roles := argObject(args, "roles")
	return services.GuildInput{
		ID:               argString(args, "id"),
		IsBanned:         argOptBool(args, "isBanned"),
		MaxOnlineMembers: argOptUint(args, "maxOnlineMembers"),
		Channels: services.GuildChannels{
			Sanctuary:    argOptString(channels, "sanctuary"),
			General:      argOptString(channels, "general"),
			Tripsit:      argOptString(channels, "tripsit"),
			TripsitMeta:  argOptString(channels, "tripsitMeta"),
			Applications: argOptString(channels, "applications"),
		},
		Roles: services.GuildRoles{
			NeedsHelp:  argOptString(roles, "needsHelp"),
			Tripsitter: argOptString(roles, "tripsitter"),
			Helper:     argOptString(roles, "helper"),
			TechHelp:   argOptString(roles, "techHelp"),
		},
	}
}

func (s *Schema) defineGuildTypes() {
	s.discordGuildType = s.object("DiscordGuild", "Bot configuration for one Discord guild.", guildFields)
	s.discordGuildDramaType = s.object("DiscordGuildDrama", "", s.guildDramaFields)
}

func guildFields() graphql.Fields {
	str := func(get func(g *models.DiscordGuild) *string) *graphql.Field {
		return field(graphql.String, prop(func(g *models.DiscordGuild) interface{} { return get(g) }))
	}
	return graphql.Fields{
		"id":               field(nonNull(graphql.String), prop(func(g *models.DiscordGuild) interface{} { return g.ID })),
		"isBanned":         field(nonNull(graphql.Boolean), prop(func(g *models.DiscordGuild) interface{} { return g.IsBanned })),
		"maxOnlineMembers": field(UnsignedInt, prop(func(g *models.DiscordGuild) interface{} { return g.MaxOnlineMembers })),

		"channelSanctuary":    str(func(g *models.DiscordGuild) *string { return g.ChannelSanctuary }),
		"channelGeneral":      str(func(g *models.DiscordGuild) *string { return g.ChannelGeneral }),
		"channelTripsit":      str(func(g *models.DiscordGuild) *string { return g.ChannelTripsit }),
		"channelTripsitMeta":  str(func(g *models.DiscordGuild) *string { return g.ChannelTripsitMeta }),
		"channelApplications": str(func(g *models.DiscordGuild) *string { return g.ChannelApplications }),
		"roleNeedsHelp":       str(func(g *models.DiscordGuild) *string { return g.RoleNeedsHelp }),
		"roleTripsitter":      str(func(g *models.DiscordGuild) *string { return g.RoleTripsitter }),
		"roleHelper":          str(func(g *models.DiscordGuild) *string { return g.RoleHelper }),
		"roleTechHelp":        str(func(g *models.DiscordGuild) *string { return g.RoleTechHelp }),

		"removedAt": field(DateTime, prop(func(g *models.DiscordGuild) interface{} { return g.RemovedAt })),
		"createdAt": field(nonNull(DateTime), prop(func(g *models.DiscordGuild) interface{} { return g.CreatedAt })),
	}
}

func (s *Schema) guildDramaFields() graphql.Fields {
	return graphql.Fields{
		"id": field(nonNull(graphql.ID), prop(func(d *models.DiscordGuildDrama) interface{} { return d.ID })),
		"reportedBy": field(nonNull(s.userType), userRef(func(d *models.DiscordGuildDrama) *string {
			return &d.ReportedBy
		})),
		"description": field(nonNull(graphql.String), prop(func(d *models.DiscordGuildDrama) interface{} { return d.Description })),
		"createdAt":   field(nonNull(DateTime), prop(func(d *models.DiscordGuildDrama) interface{} { return d.CreatedAt })),
	}
}
