package services

import (
	"context"
	"time"

	"github.com/tripsit/tripsit-api/internal/models"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"gorm.io/gorm"
)

// User action messages.
const (
	MsgBanEvasionType  = "Cannot set related ban evasion user if type is not BAN_EVASION"
	MsgAlreadyRepealed = "User action is already repealed"
	MsgActionNotFound  = "User action not found"
)

// CreateUserActionInput holds a new moderation action.
type CreateUserActionInput struct {
	UserID                string
	Type                  models.UserActionType
	BanEvasionRelatedUser *string
	Description           string
	InternalNote          *string
	ExpiresAt             *time.Time
	CreatedBy             string
}

// UpdateUserActionInput holds a partial update; nil fields are left alone.
type UpdateUserActionInput struct {
	ID                    string
	Type                  *models.UserActionType
	BanEvasionRelatedUser *string
	Description           *string
	InternalNote          *string
	ExpiresAt             *time.Time
}

// checkBanEvasion allows a related ban evasion user only on BAN_EVASION actions.
func checkBanEvasion(actionType models.UserActionType, related *string) error {
	if actionType != models.ActionBanEvasion && related != nil {
		return apperrors.ValidationError(MsgBanEvasionType)
	}
	return nil
}

// CreateUserAction records a moderation action.
func CreateUserAction(ctx context.Context, db *gorm.DB, in CreateUserActionInput) (*models.UserAction, error) {
	if err := checkBanEvasion(in.Type, in.BanEvasionRelatedUser); err != nil {
		return nil, err
	}

	action := &models.UserAction{
		UserID:                in.UserID,
		Type:                  in.Type,
		BanEvasionRelatedUser: in.BanEvasionRelatedUser,
		Description:           in.Description,
		InternalNote:          in.InternalNote,
		ExpiresAt:             in.ExpiresAt,
		CreatedBy:             in.CreatedBy,
	}
	if err := session(ctx, db).Create(action).Error; err != nil {
		return nil, err
	}
	return action, nil
}

// UpdateUserAction applies a partial update. The ban evasion rule is checked
// against the supplied type, or the stored type read under a row lock.
// Moving a linked action away from BAN_EVASION clears the link.
func UpdateUserAction(ctx context.Context, db *gorm.DB, in UpdateUserActionInput) (*models.UserAction, error) {
	var action models.UserAction

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", in.ID).Take(&action).Error; err != nil {
			return notFound(err, MsgActionNotFound)
		}

		effective := action.Type
		if in.Type != nil {
			effective = *in.Type
		}
		if err := checkBanEvasion(effective, in.BanEvasionRelatedUser); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if in.Type != nil {
			updates["type"] = *in.Type
		}
		switch {
		case in.BanEvasionRelatedUser != nil:
			updates["ban_evasion_related_user"] = *in.BanEvasionRelatedUser
		case effective != models.ActionBanEvasion && action.BanEvasionRelatedUser != nil:
			updates["ban_evasion_related_user"] = nil
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.InternalNote != nil {
			updates["internal_note"] = *in.InternalNote
		}
		if in.ExpiresAt != nil {
			updates["expires_at"] = *in.ExpiresAt
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.UserAction{}).Where("id = ?", in.ID).Updates(updates).Error; err != nil {
			return err
		}
		action = models.UserAction{}
		return tx.Where("id = ?", in.ID).Take(&action).Error
	})
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// RepealUserAction marks an action repealed. An action is repealed at most once.
func RepealUserAction(ctx context.Context, db *gorm.DB, id, repealedBy string) (*models.UserAction, error) {
	var action models.UserAction

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", id).Take(&action).Error; err != nil {
			return notFound(err, MsgActionNotFound)
		}
		if action.RepealedBy != nil || action.RepealedAt != nil {
			return apperrors.ValidationError(MsgAlreadyRepealed)
		}

		now := tx.NowFunc()
		err := tx.Model(&models.UserAction{}).Where("id = ?", id).Updates(map[string]interface{}{
			"repealed_by": repealedBy,
			"repealed_at": now,
		}).Error
		if err != nil {
			return err
		}
		action.RepealedBy = &repealedBy
		action.RepealedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &action, nil
}

// DeleteUserAction removes an action. Deleting a missing action is not an error.
func DeleteUserAction(ctx context.Context, db *gorm.DB, id string) error {
	return session(ctx, db).Where("id = ?", id).Delete(&models.UserAction{}).Error
}
