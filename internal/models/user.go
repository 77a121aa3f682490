package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a community member. Login identifiers are all optional but at
// least one must be present.
type User struct {
	ID            string          `gorm:"type:char(36);primaryKey" json:"id"`
	Email         *string         `gorm:"size:320;uniqueIndex" json:"email"`
	Username      *string         `gorm:"size:320;uniqueIndex" json:"username"`
	PasswordHash  *string         `gorm:"type:text" json:"-"`
	DiscordID     *string         `gorm:"size:64;index" json:"discordId,omitempty"`
	IrcID         *string         `gorm:"size:255" json:"ircId,omitempty"`
	MatrixID      *string         `gorm:"size:255" json:"matrixId,omitempty"`
	Timezone      *string         `gorm:"size:64" json:"timezone,omitempty"`
	Birthday      *datatypes.Date `json:"birthday,omitempty"`
	KarmaGiven    uint            `gorm:"not null;default:0" json:"karmaGiven"`
	KarmaReceived uint            `gorm:"not null;default:0" json:"karmaReceived"`
	SparklePoints uint            `gorm:"not null;default:0" json:"sparklePoints"`
	Deleted       bool            `gorm:"not null;default:false;index" json:"-"`
	LastSeen      time.Time       `gorm:"not null" json:"lastSeen"`
	JoinedAt      time.Time       `gorm:"not null;index" json:"joinedAt"`
}

// BeforeCreate assigns the id and join timestamps.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.LastSeen.IsZero() {
		u.LastSeen = now
	}
	if u.JoinedAt.IsZero() {
		u.JoinedAt = now
	}
	return nil
}

// UserAction is a moderation event against a user.
type UserAction struct {
	ID                    string         `gorm:"type:char(36);primaryKey"`
	UserID                string         `gorm:"type:char(36);not null;index"`
	Type                  UserActionType `gorm:"size:32;not null;index"`
	BanEvasionRelatedUser *string        `gorm:"type:char(36)"`
	Description           string         `gorm:"type:text;not null"`
	InternalNote          *string        `gorm:"type:text"`
	ExpiresAt             *time.Time
	RepealedBy            *string `gorm:"type:char(36)"`
	RepealedAt            *time.Time
	CreatedBy             string `gorm:"type:char(36);not null"`
	CreatedAt             time.Time
}

// BeforeCreate assigns the id.
func (a *UserAction) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Active reports whether the action is in force at now: not repealed and
// not past its expiry.
func (a *UserAction) Active(now time.Time) bool {
	if a.RepealedAt != nil || a.RepealedBy != nil {
		return false
	}
	return a.ExpiresAt == nil || a.ExpiresAt.After(now)
}

// UserTicket is a support request. ThreadID and FirstMessageID are fixed at creation.
type UserTicket struct {
	ID             string           `gorm:"type:char(36);primaryKey"`
	UserID         string           `gorm:"type:char(36);not null;index"`
	Type           UserTicketType   `gorm:"size:32;not null"`
	Status         UserTicketStatus `gorm:"size:32;not null"`
	Description    string           `gorm:"type:text;not null"`
	ThreadID       string           `gorm:"size:255;not null"`
	FirstMessageID string           `gorm:"size:255;not null"`
	ClosedAt       *time.Time
	CreatedAt      time.Time `gorm:"index"`
}

// BeforeCreate assigns the id and the initial status.
func (t *UserTicket) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TicketOpen
	}
	return nil
}

// UserDrugDose records a dose a user reported taking.
type UserDrugDose struct {
	ID        string                 `gorm:"type:char(36);primaryKey"`
	UserID    string                 `gorm:"type:char(36);not null;index"`
	DrugID    string                 `gorm:"type:char(36);not null;index"`
	Route     *RouteOfAdministration `gorm:"size:32"`
	Dose      float64                `gorm:"not null"`
	Units     DoseUnit               `gorm:"size:8;not null"`
	CreatedAt time.Time
}

// BeforeCreate assigns the id.
func (d *UserDrugDose) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// TableName overrides the table name for UserAction
func (UserAction) TableName() string {
	return "user_actions"
}

// TableName overrides the table name for UserTicket
func (UserTicket) TableName() string {
	return "user_tickets"
}

// TableName overrides the table name for UserDrugDose
func (UserDrugDose) TableName() string {
	return "user_drug_doses"
}
