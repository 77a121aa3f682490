package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscordGuild is the per-guild bot configuration, keyed by the Discord
// guild id. Removal is a soft delete through RemovedAt.
type DiscordGuild struct {
	ID                  string `gorm:"size:32;primaryKey"`
	IsBanned            bool   `gorm:"not null;default:false"`
	MaxOnlineMembers    *uint
	ChannelSanctuary    *string `gorm:"size:32"`
	ChannelGeneral      *string `gorm:"size:32"`
	ChannelTripsit      *string `gorm:"size:32"`
	ChannelTripsitMeta  *string `gorm:"size:32"`
	ChannelApplications *string `gorm:"size:32"`
	RoleNeedsHelp       *string `gorm:"size:32"`
	RoleTripsitter      *string `gorm:"size:32"`
	RoleHelper          *string `gorm:"size:32"`
	RoleTechHelp        *string `gorm:"size:32"`
	RemovedAt           *time.Time
	CreatedAt           time.Time
}

// DiscordGuildDrama is a report of conflict within a guild.
type DiscordGuildDrama struct {
	ID          string `gorm:"type:char(36);primaryKey"`
	ReportedBy  string `gorm:"type:char(36);not null;index"`
	Description string `gorm:"type:text;not null"`
	CreatedAt   time.Time
}

// BeforeCreate assigns the id.
func (d *DiscordGuildDrama) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
