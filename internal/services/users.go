package services

import (
	"context"
	"strings"
	"time"

	"github.com/tripsit/tripsit-api/internal/models"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// User validation messages.
const (
	MsgNoLoginIdentifier = "Must define at least one login identifier"
	MsgPasswordRequired  = "Username and password login identifiers require a password"
	MsgDuplicateEmail    = "An account with that email address already exists."
	MsgUserNotFound      = "User not found"
)

// CreateUserInput holds the optional identifiers of a new user.
type CreateUserInput struct {
	Email     *string
	Password  *string
	Username  *string
	DiscordID *string
	IrcID     *string
	MatrixID  *string
}

// UserFilter narrows ListUsers. Username and Email match as substrings.
type UserFilter struct {
	ID        *string
	DiscordID *string
	Username  *string
	Email     *string
}

// TicketFilter narrows a user's tickets.
type TicketFilter struct {
	Types          []models.UserTicketType
	Statuses       []models.UserTicketStatus
	CreatedAtStart *time.Time
	CreatedAtEnd   *time.Time
}

func present(s *string) bool {
	return s != nil && *s != ""
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the user's stored hash.
func CheckPassword(user *models.User, password string) bool {
	if user.PasswordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)) == nil
}

// CreateUser inserts a user after checking that it can log in somehow.
// A username or IRC login needs a password; Discord and Matrix logins do not.
func CreateUser(ctx context.Context, db *gorm.DB, in CreateUserInput) (*models.User, error) {
	if !(present(in.Username) || present(in.DiscordID) || present(in.IrcID) || present(in.MatrixID)) {
		return nil, apperrors.ValidationError(MsgNoLoginIdentifier)
	}
	if (present(in.Username) || present(in.IrcID)) && !present(in.Password) {
		return nil, apperrors.ValidationError(MsgPasswordRequired)
	}

	user := &models.User{
		Username:  in.Username,
		DiscordID: in.DiscordID,
		IrcID:     in.IrcID,
		MatrixID:  in.MatrixID,
	}
	if in.Email != nil {
		email := strings.ToLower(*in.Email)
		user.Email = &email
	}
	if present(in.Password) {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = &hash
	}

	if err := session(ctx, db).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// ListUsers returns the non-deleted users matching filter.
func ListUsers(ctx context.Context, db *gorm.DB, filter UserFilter) ([]models.User, error) {
	query := session(ctx, db).
		Clauses(hints.CommentBefore("select", "user_search")).
		Where("deleted = ?", false)

	if present(filter.ID) {
		query = query.Where("id = ?", *filter.ID)
	}
	if present(filter.DiscordID) {
		query = query.Where("discord_id = ?", *filter.DiscordID)
	}
	if present(filter.Username) {
		query = query.Where("LOWER(username) LIKE ?", likePattern(*filter.Username))
	}
	if present(filter.Email) {
		query = query.Where("LOWER(email) LIKE ?", likePattern(*filter.Email))
	}

	var users []models.User
	if err := query.Order("joined_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser loads one user by id, deleted or not.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := session(ctx, db).Where("id = ?", id).Take(&user).Error; err != nil {
		return nil, notFound(err, MsgUserNotFound)
	}
	return &user, nil
}

// ListUserTickets returns a user's tickets oldest first.
func ListUserTickets(ctx context.Context, db *gorm.DB, userID string, filter TicketFilter) ([]models.UserTicket, error) {
	query := session(ctx, db).Where("user_id = ?", userID)

	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.CreatedAtStart != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAtStart)
	}
	if filter.CreatedAtEnd != nil {
		query = query.Where("created_at <= ?", *filter.CreatedAtEnd)
	}

	var tickets []models.UserTicket
	if err := query.Order("created_at").Find(&tickets).Error; err != nil {
		return nil, err
	}
	return tickets, nil
}

// ListUserActions returns a user's moderation history oldest first.
func ListUserActions(ctx context.Context, db *gorm.DB, userID string) ([]models.UserAction, error) {
	var actions []models.UserAction
	err := session(ctx, db).
		Where("user_id = ?", userID).
		Order("created_at").
		Find(&actions).Error
	if err != nil {
		return nil, err
	}
	return actions, nil
}

// HasActiveAction reports whether the user has an action of type that is
// neither repealed nor expired at now.
func HasActiveAction(ctx context.Context, db *gorm.DB, userID string, actionType models.UserActionType, now time.Time) (bool, error) {
	var count int64
	err := session(ctx, db).
		Model(&models.UserAction{}).
		Where("user_id = ? AND type = ?", userID, actionType).
		Where("repealed_at IS NULL AND repealed_by IS NULL").
		Where("expires_at IS NULL OR expires_at > ?", now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListActiveUsers returns every non-deleted user ordered by join date.
func ListActiveUsers(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := session(ctx, db).
		Where("deleted = ?", false).
		Order("joined_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// GetActiveUser loads a non-deleted user.
func GetActiveUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := session(ctx, db).
		Where("id = ? AND deleted = ?", id, false).
		Take(&user).Error
	if err != nil {
		return nil, notFound(err, MsgUserNotFound)
	}
	return &user, nil
}

// RegisterUser creates an email and password account. The username defaults
// to the email address.
func RegisterUser(ctx context.Context, db *gorm.DB, email, username, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" {
		username = email
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Email: &email, Username: &username, PasswordHash: &hash}
	err = session(ctx, db).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperrors.ValidationError(MsgDuplicateEmail)
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword replaces the password of a non-deleted user.
func UpdatePassword(ctx context.Context, db *gorm.DB, id, password string) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	var user models.User
	err = session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ? AND deleted = ?", id, false).Take(&user).Error; err != nil {
			return notFound(err, MsgUserNotFound)
		}
		if err := tx.Model(&user).Update("password_hash", hash).Error; err != nil {
			return err
		}
		user.PasswordHash = &hash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// SoftDeleteUser flags a user as deleted.
func SoftDeleteUser(ctx context.Context, db *gorm.DB, id string) error {
	result := session(ctx, db).
		Model(&models.User{}).
		Where("id = ? AND deleted = ?", id, false).
		Update("deleted", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound(apperrors.CodeNotFound, MsgUserNotFound)
	}
	return nil
}
