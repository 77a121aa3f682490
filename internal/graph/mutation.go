package graph

import (
	"context"
	"net/url"

	"github.com/graphql-go/graphql"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/reqctx"
	"github.com/tripsit/tripsit-api/internal/services"
	"go.uber.org/zap"
)

type mutationFn func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error)

func mutation(t graphql.Output, args graphql.FieldConfigArgument, fn mutationFn) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Args: args,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			rc, err := requestContext(p)
			if err != nil {
				return nil, err
			}
			return fn(p, rc)
		},
	}
}

func (s *Schema) mutationFields() graphql.Fields {
	return graphql.Fields{
		"createUser": mutation(nonNull(s.userType), graphql.FieldConfigArgument{
			"email":     arg(EmailAddress),
			"password":  arg(graphql.String),
			"username":  arg(graphql.String),
			"discordId": arg(graphql.String),
			"ircId":     arg(graphql.String),
			"matrixId":  arg(graphql.String),
		}, s.resolveCreateUser),

		"createUserAction": mutation(nonNull(s.userActionType), graphql.FieldConfigArgument{
			"userId":                arg(nonNull(UUID)),
			"type":                  arg(nonNull(userActionTypeEnum)),
			"banEvasionRelatedUser": arg(UUID),
			"description":           arg(nonNull(graphql.String)),
			"internalNote":          arg(graphql.String),
			"expiresAt":             arg(DateTime),
			"createdBy":             arg(nonNull(UUID)),
		}, s.resolveCreateUserAction),

		"updateUserAction": mutation(nonNull(s.userActionType), graphql.FieldConfigArgument{
			"id":                    arg(nonNull(UUID)),
			"type":                  arg(userActionTypeEnum),
			"banEvasionRelatedUser": arg(UUID),
			"description":           arg(graphql.String),
			"internalNote":          arg(graphql.String),
			"expiresAt":             arg(DateTime),
		}, s.resolveUpdateUserAction),

		"repealUserAction": mutation(nonNull(s.userActionType), graphql.FieldConfigArgument{
			"id":         arg(nonNull(UUID)),
			"repealedBy": arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.RepealUserAction(p.Context, rc.DB, argString(p.Args, "id"), argString(p.Args, "repealedBy"))
		}),

		"deleteUserAction": mutation(Void, graphql.FieldConfigArgument{
			"id": arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return nil, services.DeleteUserAction(p.Context, rc.DB, argString(p.Args, "id"))
		}),

		"createUserTicket": mutation(nonNull(s.userTicketType), graphql.FieldConfigArgument{
			"userId":         arg(nonNull(UUID)),
			"type":           arg(nonNull(ticketTypeEnum)),
			"description":    arg(nonNull(graphql.String)),
			"threadId":       arg(nonNull(graphql.String)),
			"firstMessageId": arg(nonNull(graphql.String)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.CreateUserTicket(p.Context, rc.DB, services.CreateUserTicketInput{
				UserID:         argString(p.Args, "userId"),
				Type:           argEnum[models.UserTicketType](p.Args, "type"),
				Description:    argString(p.Args, "description"),
				ThreadID:       argString(p.Args, "threadId"),
				FirstMessageID: argString(p.Args, "firstMessageId"),
			})
		}),

		"updateUserTicket": mutation(nonNull(s.userTicketType), graphql.FieldConfigArgument{
			"userTicketId": arg(nonNull(UUID)),
			"type":         arg(ticketTypeEnum),
			"status":       arg(ticketStatusEnum),
			"description":  arg(graphql.String),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.UpdateUserTicket(p.Context, rc.DB, services.UpdateUserTicketInput{
				ID:          argString(p.Args, "userTicketId"),
				Type:        argOptEnum[models.UserTicketType](p.Args, "type"),
				Status:      argOptEnum[models.UserTicketStatus](p.Args, "status"),
				Description: argOptString(p.Args, "description"),
			})
		}),

		"createUserDrugDose": mutation(nonNull(s.userDrugDoseType), graphql.FieldConfigArgument{
			"userId": arg(nonNull(UUID)),
			"drugId": arg(nonNull(UUID)),
			"route":  arg(roaEnum),
			"dose":   arg(nonNull(UnsignedFloat)),
			"units":  arg(nonNull(doseUnitEnum)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.CreateUserDrugDose(p.Context, rc.DB, services.CreateUserDrugDoseInput{
				UserID: argString(p.Args, "userId"),
				DrugID: argString(p.Args, "drugId"),
				Route:  argOptEnum[models.RouteOfAdministration](p.Args, "route"),
				Dose:   argFloat(p.Args, "dose"),
				Units:  argEnum[models.DoseUnit](p.Args, "units"),
			})
		}),

		"createDrug": mutation(nonNull(s.drugType), graphql.FieldConfigArgument{
			"name":                  arg(nonNull(graphql.String)),
			"summary":               arg(graphql.String),
			"psychonautWikiUrl":     arg(URL),
			"errowidExperiencesUrl": arg(URL),
			"lastUpdatedBy":         arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.CreateDrug(p.Context, rc.DB, services.CreateDrugInput{
				Name:                 argString(p.Args, "name"),
				Summary:              argOptString(p.Args, "summary"),
				PsychonautWikiURL:    argOptString(p.Args, "psychonautWikiUrl"),
				ErowidExperiencesURL: argOptString(p.Args, "errowidExperiencesUrl"),
				LastUpdatedBy:        argString(p.Args, "lastUpdatedBy"),
			})
		}),

		"createDrugName": mutation(nonNull(s.drugNameType), graphql.FieldConfigArgument{
			"drugId": arg(nonNull(UUID)),
			"name":   arg(nonNull(graphql.String)),
			"type":   arg(nonNull(drugNameTypeEnum)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.CreateDrugName(p.Context, rc.DB,
				argString(p.Args, "drugId"),
				argString(p.Args, "name"),
				argEnum[models.DrugNameType](p.Args, "type"),
			)
		}),

		"deleteDrugName": mutation(Void, graphql.FieldConfigArgument{
			"drugNameId": arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return nil, services.DeleteDrugName(p.Context, rc.DB, argString(p.Args, "drugNameId"))
		}),

		"setDefaultDrugName": mutation(listOf(s.drugNameType), graphql.FieldConfigArgument{
			"drugNameId": arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.SetDefaultDrugName(p.Context, rc.DB, argString(p.Args, "drugNameId"))
		}),

		"createDrugCategory": mutation(nonNull(s.drugCategoryType), graphql.FieldConfigArgument{
			"name": arg(nonNull(graphql.String)),
			"type": arg(nonNull(drugCategoryTypeEnum)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.CreateDrugCategory(p.Context, rc.DB,
				argString(p.Args, "name"),
				argEnum[models.DrugCategoryType](p.Args, "type"),
			)
		}),

		"deleteDrugCategory": mutation(Void, graphql.FieldConfigArgument{
			"id": arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return nil, services.DeleteDrugCategory(p.Context, rc.DB, argString(p.Args, "id"))
		}),

		"associateDrugWithCategory": mutation(nonNull(s.drugType), graphql.FieldConfigArgument{
			"drugId":         arg(nonNull(UUID)),
			"drugCategoryId": arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.AssociateDrugWithCategory(p.Context, rc.DB, argString(p.Args, "drugId"), argString(p.Args, "drugCategoryId"))
		}),

		"disassociateDrugFromCategory": mutation(nonNull(s.drugType), graphql.FieldConfigArgument{
			"drugId":         arg(nonNull(UUID)),
			"drugCategoryId": arg(nonNull(UUID)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.DisassociateDrugFromCategory(p.Context, rc.DB, argString(p.Args, "drugId"), argString(p.Args, "drugCategoryId"))
		}),

		"createDiscordGuild": mutation(nonNull(s.discordGuildType), graphql.FieldConfigArgument{
			"id":               arg(nonNull(graphql.String)),
			"maxOnlineMembers": arg(UnsignedInt),
			"channels":         arg(guildChannelsInput),
			"roles":            arg(guildRolesInput),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.CreateDiscordGuild(p.Context, rc.DB, guildInput(p.Args))
		}),

		"updateDiscordGuild": mutation(nonNull(s.discordGuildType), graphql.FieldConfigArgument{
			"id":               arg(nonNull(graphql.String)),
			"isBanned":         arg(graphql.Boolean),
			"maxOnlineMembers": arg(UnsignedInt),
			"channels":         arg(guildChannelsInput),
			"roles":            arg(guildRolesInput),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.UpdateDiscordGuild(p.Context, rc.DB, guildInput(p.Args))
		}),

		"removeDiscordGuild": mutation(nonNull(s.discordGuildType), graphql.FieldConfigArgument{
			"id": arg(nonNull(graphql.String)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.RemoveDiscordGuild(p.Context, rc.DB, argString(p.Args, "id"))
		}),

		"createDiscordGuildDrama": mutation(nonNull(s.discordGuildDramaType), graphql.FieldConfigArgument{
			"reportedBy":  arg(nonNull(UUID)),
			"description": arg(nonNull(graphql.String)),
		}, func(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
			return services.CreateDiscordGuildDrama(p.Context, rc.DB, argString(p.Args, "reportedBy"), argString(p.Args, "description"))
		}),
	}
}

func (s *Schema) resolveCreateUser(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
	user, err := services.CreateUser(p.Context, rc.DB, services.CreateUserInput{
		Email:     argOptString(p.Args, "email"),
		Password:  argOptString(p.Args, "password"),
		Username:  argOptString(p.Args, "username"),
		DiscordID: argOptString(p.Args, "discordId"),
		IrcID:     argOptString(p.Args, "ircId"),
		MatrixID:  argOptString(p.Args, "matrixId"),
	})
	if err != nil {
		return nil, err
	}
	s.sendVerification(p.Context, rc, user)
	return user, nil
}

func (s *Schema) resolveCreateUserAction(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
	return services.CreateUserAction(p.Context, rc.DB, services.CreateUserActionInput{
		UserID:                argString(p.Args, "userId"),
		Type:                  argEnum[models.UserActionType](p.Args, "type"),
		BanEvasionRelatedUser: argOptString(p.Args, "banEvasionRelatedUser"),
		Description:           argString(p.Args, "description"),
		InternalNote:          argOptString(p.Args, "internalNote"),
		ExpiresAt:             argOptTime(p.Args, "expiresAt"),
		CreatedBy:             argString(p.Args, "createdBy"),
	})
}

func (s *Schema) resolveUpdateUserAction(p graphql.ResolveParams, rc *reqctx.Context) (interface{}, error) {
	return services.UpdateUserAction(p.Context, rc.DB, services.UpdateUserActionInput{
		ID:                    argString(p.Args, "id"),
		Type:                  argOptEnum[models.UserActionType](p.Args, "type"),
		BanEvasionRelatedUser: argOptString(p.Args, "banEvasionRelatedUser"),
		Description:           argOptString(p.Args, "description"),
		InternalNote:          argOptString(p.Args, "internalNote"),
		ExpiresAt:             argOptTime(p.Args, "expiresAt"),
	})
}

// sendVerification mails the verification link in the background. Delivery
// failures are logged and never fail the mutation.
func (s *Schema) sendVerification(ctx context.Context, rc *reqctx.Context, user *models.User) {
	if s.mailer == nil || s.verifyURL == "" || user.Email == nil {
		return
	}
	log := logFor(rc).With(zap.String("user_id", user.ID))

	link, err := verificationLink(s.verifyURL, user.ID)
	if err != nil {
		log.Warn("cannot build verification link", zap.Error(err))
		return
	}

	to := *user.Email
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, s.mailTimeout)
		defer cancel()
		if err := s.mailer.SendVerify(ctx, to, link); err != nil {
			log.Warn("verification email failed", zap.Error(err))
		}
	}()
}

func verificationLink(base, userID string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("userId", userID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
