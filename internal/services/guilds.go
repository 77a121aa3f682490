package services

import (
	"context"

	"github.com/tripsit/tripsit-api/internal/models"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"gorm.io/gorm"
)

// Guild messages.
const (
	MsgGuildNotFound       = "Guild does not exist"
	MsgGuildAlreadyRemoved = "Guild is already removed"
)

// GuildChannels holds the optional channel ids of a guild.
type GuildChannels struct {
	Sanctuary    *string
	General      *string
	Tripsit      *string
	TripsitMeta  *string
	Applications *string
}

// GuildRoles holds the optional role ids of a guild.
type GuildRoles struct {
	NeedsHelp  *string
	Tripsitter *string
	Helper     *string
	TechHelp   *string
}

// GuildInput holds a guild create or update. Nil fields are left alone on update.
type GuildInput struct {
	ID               string
	IsBanned         *bool
	MaxOnlineMembers *uint
	Channels         GuildChannels
	Roles            GuildRoles
}

// updates lists the columns the input sets.
func (in GuildInput) updates() map[string]interface{} {
	out := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			out[column] = *v
		}
	}

	if in.IsBanned != nil {
		out["is_banned"] = *in.IsBanned
	}
	if in.MaxOnlineMembers != nil {
		out["max_online_members"] = *in.MaxOnlineMembers
	}
	set("channel_sanctuary", in.Channels.Sanctuary)
	set("channel_general", in.Channels.General)
	set("channel_tripsit", in.Channels.Tripsit)
	set("channel_tripsit_meta", in.Channels.TripsitMeta)
	set("channel_applications", in.Channels.Applications)
	set("role_needs_help", in.Roles.NeedsHelp)
	set("role_tripsitter", in.Roles.Tripsitter)
	set("role_helper", in.Roles.Helper)
	set("role_tech_help", in.Roles.TechHelp)
	return out
}

// ListDiscordGuilds returns guilds ordered by creation. Removed guilds are
// included only when includeRemoved is set.
func ListDiscordGuilds(ctx context.Context, db *gorm.DB, id *string, includeRemoved bool) ([]models.DiscordGuild, error) {
	query := session(ctx, db)
	if present(id) {
		query = query.Where("id = ?", *id)
	}
	if !includeRemoved {
		query = query.Where("removed_at IS NULL")
	}

	var guilds []models.DiscordGuild
	if err := query.Order("created_at").Find(&guilds).Error; err != nil {
		return nil, err
	}
	return guilds, nil
}

// CreateDiscordGuild registers a guild.
func CreateDiscordGuild(ctx context.Context, db *gorm.DB, in GuildInput) (*models.DiscordGuild, error) {
	guild := &models.DiscordGuild{
		ID:                  in.ID,
		MaxOnlineMembers:    in.MaxOnlineMembers,
		ChannelSanctuary:    in.Channels.Sanctuary,
		ChannelGeneral:      in.Channels.General,
		ChannelTripsit:      in.Channels.Tripsit,
		ChannelTripsitMeta:  in.Channels.TripsitMeta,
		ChannelApplications: in.Channels.Applications,
		RoleNeedsHelp:       in.Roles.NeedsHelp,
		RoleTripsitter:      in.Roles.Tripsitter,
		RoleHelper:          in.Roles.Helper,
		RoleTechHelp:        in.Roles.TechHelp,
	}
	if in.IsBanned != nil {
		guild.IsBanned = *in.IsBanned
	}
	if err := session(ctx, db).Create(guild).Error; err != nil {
		return nil, err
	}
	return guild, nil
}

// UpdateDiscordGuild applies a partial update.
func UpdateDiscordGuild(ctx context.Context, db *gorm.DB, in GuildInput) (*models.DiscordGuild, error) {
	var guild models.DiscordGuild

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", in.ID).Take(&guild).Error; err != nil {
			return notFound(err, MsgGuildNotFound)
		}

		updates := in.updates()
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.DiscordGuild{}).Where("id = ?", in.ID).Updates(updates).Error; err != nil {
			return err
		}
		guild = models.DiscordGuild{}
		return tx.Where("id = ?", in.ID).Take(&guild).Error
	})
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

// RemoveDiscordGuild soft-deletes a guild. A guild is removed at most once.
func RemoveDiscordGuild(ctx context.Context, db *gorm.DB, id string) (*models.DiscordGuild, error) {
	var guild models.DiscordGuild

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", id).Take(&guild).Error; err != nil {
			return notFound(err, MsgGuildNotFound)
		}
		if guild.RemovedAt != nil {
			return apperrors.ValidationError(MsgGuildAlreadyRemoved)
		}

		now := tx.NowFunc()
		if err := tx.Model(&models.DiscordGuild{}).Where("id = ?", id).Update("removed_at", now).Error; err != nil {
			return err
		}
		guild.RemovedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &guild, nil
}

// CreateDiscordGuildDrama records a drama report.
func CreateDiscordGuildDrama(ctx context.Context, db *gorm.DB, reportedBy, description string) (*models.DiscordGuildDrama, error) {
	drama := &models.DiscordGuildDrama{ReportedBy: reportedBy, Description: description}
	if err := session(ctx, db).Create(drama).Error; err != nil {
		return nil, err
	}
	return drama, nil
}
