package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/models"
	"github.com/tripsit/tripsit-api/internal/testutil"
)

func TestUpdateUserTicketClosedAt(t *testing.T) {
	db := testutil.NewTestDB(t)
	ctx := context.Background()
	user := testutil.CreateUser(t, db, "someone")

	ticket, err := CreateUserTicket(ctx, db, CreateUserTicketInput{
		UserID: user.ID, Type: models.TicketTech, Description: "help", ThreadID: "thread", FirstMessageID: "msg",
	})
	require.NoError(t, err)
	assert.Equal(t, models.TicketOpen, ticket.Status)
	assert.Nil(t, ticket.ClosedAt)

	closed := models.TicketClosed
	ticket, err = UpdateUserTicket(ctx, db, UpdateUserTicketInput{ID: ticket.ID, Status: &closed})
	require.NoError(t, err)
	assert.Equal(t, models.TicketClosed, ticket.Status)
	require.NotNil(t, ticket.ClosedAt)

	paused := models.TicketPaused
	ticket, err = UpdateUserTicket(ctx, db, UpdateUserTicketInput{ID: ticket.ID, Status: &paused, Description: testutil.Ptr("later")})
	require.NoError(t, err)
	assert.Equal(t, models.TicketPaused, ticket.Status)
	assert.Nil(t, ticket.ClosedAt)
	assert.Equal(t, "later", ticket.Description)
	assert.Equal(t, "thread", ticket.ThreadID)
	assert.Equal(t, "msg", ticket.FirstMessageID)

	ticket, err = UpdateUserTicket(ctx, db, UpdateUserTicketInput{ID: ticket.ID, Status: &closed})
	require.NoError(t, err)
	require.NotNil(t, ticket.ClosedAt)

	open := models.TicketOpen
	ticket, err = UpdateUserTicket(ctx, db, UpdateUserTicketInput{ID: ticket.ID, Status: &open})
	require.NoError(t, err)
	assert.Nil(t, ticket.ClosedAt)

	var stored models.UserTicket
	require.NoError(t, db.Where("id = ?", ticket.ID).Take(&stored).Error)
	assert.Equal(t, models.TicketOpen, stored.Status)
	assert.Nil(t, stored.ClosedAt)
}

func TestCreateUserDrugDose(t *testing.T) {
	db := testutil.NewTestDB(t)
	user := testutil.CreateUser(t, db, "someone")
	drug := testutil.CreateDrug(t, db, "Caffeine")
	oral := models.RouteOfAdministration("ORAL")

	dose, err := CreateUserDrugDose(context.Background(), db, CreateUserDrugDoseInput{
		UserID: user.ID, DrugID: drug.ID, Route: &oral, Dose: 100, Units: "MG",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, dose.ID)
	assert.Equal(t, 100.0, dose.Dose)
}
