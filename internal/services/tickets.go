package services

import (
	"context"

	"github.com/tripsit/tripsit-api/internal/models"
	"gorm.io/gorm"
)

// MsgTicketNotFound is returned when a ticket id matches nothing.
const MsgTicketNotFound = "User ticket not found"

// CreateUserTicketInput holds a new support ticket. ThreadID and
// FirstMessageID cannot change afterwards.
type CreateUserTicketInput struct {
	UserID         string
	Type           models.UserTicketType
	Description    string
	ThreadID       string
	FirstMessageID string
}

// UpdateUserTicketInput holds a partial ticket update.
type UpdateUserTicketInput struct {
	ID          string
	Type        *models.UserTicketType
	Status      *models.UserTicketStatus
	Description *string
}

// CreateUserTicket opens a ticket.
func CreateUserTicket(ctx context.Context, db *gorm.DB, in CreateUserTicketInput) (*models.UserTicket, error) {
	ticket := &models.UserTicket{
		UserID:         in.UserID,
		Type:           in.Type,
		Status:         models.TicketOpen,
		Description:    in.Description,
		ThreadID:       in.ThreadID,
		FirstMessageID: in.FirstMessageID,
	}
	if err := session(ctx, db).Create(ticket).Error; err != nil {
		return nil, err
	}
	return ticket, nil
}

// UpdateUserTicket applies a partial update. Moving to CLOSED stamps
// closedAt; moving to any other status clears it.
func UpdateUserTicket(ctx context.Context, db *gorm.DB, in UpdateUserTicketInput) (*models.UserTicket, error) {
	var ticket models.UserTicket

	err := session(ctx, db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(forUpdate).Where("id = ?", in.ID).Take(&ticket).Error; err != nil {
			return notFound(err, MsgTicketNotFound)
		}

		updates := map[string]interface{}{}
		if in.Type != nil {
			updates["type"] = *in.Type
		}
		if in.Description != nil {
			updates["description"] = *in.Description
		}
		if in.Status != nil {
			updates["status"] = *in.Status
			switch {
			case *in.Status == models.TicketClosed && ticket.ClosedAt == nil:
				updates["closed_at"] = tx.NowFunc()
			case *in.Status != models.TicketClosed:
				updates["closed_at"] = nil
			}
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.UserTicket{}).Where("id = ?", in.ID).Updates(updates).Error; err != nil {
			return err
		}
		ticket = models.UserTicket{}
		return tx.Where("id = ?", in.ID).Take(&ticket).Error
	})
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}
