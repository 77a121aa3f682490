package graph

import (
	"time"

	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/discord"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/services"
)

func (s *Schema) defineUserTypes() {
	s.userType = s.object("User", "A community member.", s.userFields)
	s.discordUserType = s.object("DiscordUser", "A Discord account profile.", discordUserFields)
	s.userActionType = s.object("UserAction", "A moderation event against a user.", s.userActionFields)
	s.userTicketType = s.object("UserTicket", "A support request.", s.userTicketFields)
	s.userDrugDoseType = s.object("UserDrugDose", "A dose a user reported taking.", s.userDrugDoseFields)
}

func (s *Schema) userFields() graphql.Fields {
	return graphql.Fields{
		"id":            field(nonNull(graphql.ID), prop(func(u *models.User) interface{} { return u.ID })),
		"email":         field(EmailAddress, prop(func(u *models.User) interface{} { return u.Email })),
		"username":      field(graphql.String, prop(func(u *models.User) interface{} { return u.Username })),
		"discordId":     field(graphql.String, prop(func(u *models.User) interface{} { return u.DiscordID })),
		"ircId":         field(graphql.String, prop(func(u *models.User) interface{} { return u.IrcID })),
		"matrixId":      field(graphql.String, prop(func(u *models.User) interface{} { return u.MatrixID })),
		"timezone":      field(graphql.String, prop(func(u *models.User) interface{} { return u.Timezone })),
		"karmaGiven":    field(nonNull(UnsignedInt), prop(func(u *models.User) interface{} { return u.KarmaGiven })),
		"karmaReceived": field(nonNull(UnsignedInt), prop(func(u *models.User) interface{} { return u.KarmaReceived })),
		"sparklePoints": field(nonNull(UnsignedInt), prop(func(u *models.User) interface{} { return u.SparklePoints })),
		"lastSeen":      field(nonNull(DateTime), prop(func(u *models.User) interface{} { return u.LastSeen })),
		"joinedAt":      field(nonNull(DateTime), prop(func(u *models.User) interface{} { return u.JoinedAt })),
		"birthday": &graphql.Field{
			Type:        graphql.String,
			Description: "Calendar date, YYYY-MM-DD.",
			Resolve: prop(func(u *models.User) interface{} {
				if u.Birthday == nil {
					return nil
				}
				return time.Time(*u.Birthday).Format(time.DateOnly)
			}),
		},
		"discord": &graphql.Field{
			Type: s.discordUserType,
			Resolve: load(func(p graphql.ResolveParams, rc *reqctx.Context, u *models.User) (interface{}, error) {
				if rc.Discord == nil || u.DiscordID == nil || *u.DiscordID == "" {
					return nil, nil
				}
				return rc.Discord.GetUser(p.Context, *u.DiscordID)
			}),
		},
		"tickets": &graphql.Field{
			Type: listOf(s.userTicketType),
			Args: graphql.FieldConfigArgument{
				"type":           arg(graphql.NewList(graphql.NewNonNull(ticketTypeEnum))),
				"status":         arg(graphql.NewList(graphql.NewNonNull(ticketStatusEnum))),
				"createdAtStart": arg(DateTime),
				"createdAtEnd":   arg(DateTime),
			},
			Resolve: load(func(p graphql.ResolveParams, rc *reqctx.Context, u *models.User) (interface{}, error) {
				return services.ListUserTickets(p.Context, rc.DB, u.ID, services.TicketFilter{
					Types:          argEnumList[models.UserTicketType](p.Args, "type"),
					Statuses:       argEnumList[models.UserTicketStatus](p.Args, "status"),
					CreatedAtStart: argOptTime(p.Args, "createdAtStart"),
					CreatedAtEnd:   argOptTime(p.Args, "createdAtEnd"),
				})
			}),
		},
		"actions": field(listOf(s.userActionType), load(func(p graphql.ResolveParams, rc *reqctx.Context, u *models.User) (interface{}, error) {
			return services.ListUserActions(p.Context, rc.DB, u.ID)
		})),
		"isFullBanned":       field(nonNull(graphql.Boolean), s.activeAction(models.ActionFullBan)),
		"isTicketBanned":     field(nonNull(graphql.Boolean), s.activeAction(models.ActionTicketBan)),
		"isDiscordBotBanned": field(nonNull(graphql.Boolean), s.activeAction(models.ActionDiscordBotBan)),
		"isTimedOut":         field(nonNull(graphql.Boolean), s.activeAction(models.ActionTimeout)),
	}
}

// activeAction reports whether the user has an unrepealed, unexpired action of actionType.
func (s *Schema) activeAction(actionType models.UserActionType) graphql.FieldResolveFn {
	return load(func(p graphql.ResolveParams, rc *reqctx.Context, u *models.User) (interface{}, error) {
		return services.HasActiveAction(p.Context, rc.DB, u.ID, actionType, s.now())
	})
}

func discordUserFields() graphql.Fields {
	return graphql.Fields{
		"id":            field(nonNull(graphql.String), prop(func(d *discord.User) interface{} { return d.ID })),
		"username":      field(nonNull(graphql.String), prop(func(d *discord.User) interface{} { return d.Username })),
		"discriminator": field(graphql.String, prop(func(d *discord.User) interface{} { return d.Discriminator })),
		"avatarUrl":     field(URL, prop(func(d *discord.User) interface{} { return d.AvatarURL })),
	}
}

func (s *Schema) userActionFields() graphql.Fields {
	return graphql.Fields{
		"id": field(nonNull(graphql.ID), prop(func(a *models.UserAction) interface{} { return a.ID })),
		"user": field(nonNull(s.userType), userRef(func(a *models.UserAction) *string {
			return &a.UserID
		})),
		"type": field(nonNull(userActionTypeEnum), prop(func(a *models.UserAction) interface{} { return a.Type })),
		"banEvasionRelatedUser": field(s.userType, userRef(func(a *models.UserAction) *string {
			return a.BanEvasionRelatedUser
		})),
		"description":  field(nonNull(graphql.String), prop(func(a *models.UserAction) interface{} { return a.Description })),
		"internalNote": field(graphql.String, prop(func(a *models.UserAction) interface{} { return a.InternalNote })),
		"expiresAt":    field(DateTime, prop(func(a *models.UserAction) interface{} { return a.ExpiresAt })),
		"repealedBy": field(s.userType, userRef(func(a *models.UserAction) *string {
			return a.RepealedBy
		})),
		"repealedAt": field(DateTime, prop(func(a *models.UserAction) interface{} { return a.RepealedAt })),
		"createdBy": field(nonNull(s.userType), userRef(func(a *models.UserAction) *string {
			return &a.CreatedBy
		})),
		"createdAt": field(nonNull(DateTime), prop(func(a *models.UserAction) interface{} { return a.CreatedAt })),
	}
}

func (s *Schema) userTicketFields() graphql.Fields {
	return graphql.Fields{
		"id": field(nonNull(graphql.ID), prop(func(t *models.UserTicket) interface{} { return t.ID })),
		"user": field(nonNull(s.userType), userRef(func(t *models.UserTicket) *string {
			return &t.UserID
		})),
		"type":           field(nonNull(ticketTypeEnum), prop(func(t *models.UserTicket) interface{} { return t.Type })),
		"status":         field(nonNull(ticketStatusEnum), prop(func(t *models.UserTicket) interface{} { return t.Status })),
		"description":    field(nonNull(graphql.String), prop(func(t *models.UserTicket) interface{} { return t.Description })),
		"threadId":       field(nonNull(graphql.String), prop(func(t *models.UserTicket) interface{} { return t.ThreadID })),
		"firstMessageId": field(nonNull(graphql.String), prop(func(t *models.UserTicket) interface{} { return t.FirstMessageID })),
		"closedAt":       field(DateTime, prop(func(t *models.UserTicket) interface{} { return t.ClosedAt })),
		"createdAt":      field(nonNull(DateTime), prop(func(t *models.UserTicket) interface{} { return t.CreatedAt })),
	}
}

func (s *Schema) userDrugDoseFields() graphql.Fields {
	return graphql.Fields{
		"id": field(nonNull(graphql.ID), prop(func(d *models.UserDrugDose) interface{} { return d.ID })),
		"user": field(nonNull(s.userType), userRef(func(d *models.UserDrugDose) *string {
			return &d.UserID
		})),
		"drug": field(nonNull(s.drugType), load(func(p graphql.ResolveParams, rc *reqctx.Context, d *models.UserDrugDose) (interface{}, error) {
			return services.GetDrug(p.Context, rc.DB, d.DrugID)
		})),
		"route": field(roaEnum, prop(func(d *models.UserDrugDose) interface{} {
			if d.Route == nil {
				return nil
			}
			return *d.Route
		})),
		"dose":      field(nonNull(UnsignedFloat), prop(func(d *models.UserDrugDose) interface{} { return d.Dose })),
		"units":     field(nonNull(doseUnitEnum), prop(func(d *models.UserDrugDose) interface{} { return d.Units })),
		"createdAt": field(nonNull(DateTime), prop(func(d *models.UserDrugDose) interface{} { return d.CreatedAt })),
	}
}
