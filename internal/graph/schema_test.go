package graph

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/discord"
	"github.com/tripsit/tripsit-api/internal/models"
	apperrors "github.com/tripsit/tripsit-api/internal/pkg/errors"
	"github.com/tripsit/tripsit-api/internal/services"
	"github.com/tripsit/tripsit-api/internal/testutil"
)

type sentMail struct {
	to   string
	link string
}

type fakeMailer struct {
	sent chan sentMail
	err  error
}

func (m *fakeMailer) SendVerify(_ context.Context, to, link string) error {
	m.sent <- sentMail{to: to, link: link}
	return m.err
}

type fakeDiscord struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeDiscord) GetUser(_ context.Context, id string) (*discord.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, id)
	return &discord.User{ID: id, Username: "moonbeam"}, nil
}

func TestExecuteWithoutRequestContext(t *testing.T) {
	schema, err := NewSchema(Options{Permissions: DefaultPermissions()})
	require.NoError(t, err)

	res := schema.Execute(context.Background(), Request{Query: `{ users { id } }`})
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Message, "request context")
}

func TestCreateUserSendsVerification(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan sentMail, 1)}
	h := newHarness(t, Options{Mailer: mailer, VerifyURL: "https://tripsit.me/verify"})

	var out struct {
		CreateUser struct {
			ID    string
			Email string
		}
	}
	h.mustRun(nil, `mutation {
		createUser(username: "moon", email: "Moon@Example.com", password: "hunter22") { id email }
	}`, nil, &out)
	assert.Equal(t, "moon@example.com", out.CreateUser.Email)

	select {
	case mail := <-mailer.sent:
		assert.Equal(t, "moon@example.com", mail.to)
		assert.Equal(t, "https://tripsit.me/verify?userId="+out.CreateUser.ID, mail.link)
	case <-time.After(2 * time.Second):
		t.Fatal("verification email was not sent")
	}
}

func TestCreateUserMailFailureDoesNotFail(t *testing.T) {
	mailer := &fakeMailer{sent: make(chan sentMail, 1), err: errors.New("relay down")}
	h := newHarness(t, Options{Mailer: mailer, VerifyURL: "https://tripsit.me/verify"})

	res := h.run(nil, `mutation {
		createUser(username: "sun", email: "a@b.co", password: "hunter22") { id }
	}`, nil)
	assert.Empty(t, res.Errors)

	select {
	case mail := <-mailer.sent:
		assert.Equal(t, "a@b.co", mail.to)
	case <-time.After(2 * time.Second):
		t.Fatal("verification email was not attempted")
	}
}

func TestCreateUserIdentifierRules(t *testing.T) {
	h := newHarness(t, Options{})

	tests := []struct {
		name    string
		query   string
		message string
	}{
		{"email is not a login", `mutation { createUser(email: "moon@example.com", password: "hunter22") { id } }`, services.MsgNoLoginIdentifier},
		{"nothing at all", `mutation { createUser(password: "hunter22") { id } }`, services.MsgNoLoginIdentifier},
		{"username needs password", `mutation { createUser(username: "moon") { id } }`, services.MsgPasswordRequired},
		{"irc needs password", `mutation { createUser(ircId: "moon") { id } }`, services.MsgPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := h.run(nil, tt.query, nil)
			require.Len(t, res.Errors, 1)
			assert.Equal(t, tt.message, res.Errors[0].Message)
			assert.Equal(t, apperrors.CodeValidation, errorCode(res.Errors[0]))
		})
	}

	var out struct {
		CreateUser struct{ DiscordID string }
	}
	h.mustRun(nil, `mutation { createUser(discordId: "42") { discordId } }`, nil, &out)
	assert.Equal(t, "42", out.CreateUser.DiscordID)
}

func TestUsersQueryAndStatusFlags(t *testing.T) {
	h := newHarness(t, Options{})
	h.discord = &fakeDiscord{}
	ctx := context.Background()

	banned := testutil.CreateUser(t, h.db, "Sunflower")
	require.NoError(t, h.db.Model(banned).Update("discord_id", "42").Error)
	mod := testutil.CreateUser(t, h.db, "mod")

	_, err := services.CreateUserAction(ctx, h.db, services.CreateUserActionInput{
		UserID: banned.ID, Type: models.ActionFullBan, Description: "ban", CreatedBy: mod.ID,
	})
	require.NoError(t, err)
	expired := time.Now().UTC().Add(-time.Hour)
	_, err = services.CreateUserAction(ctx, h.db, services.CreateUserActionInput{
		UserID: banned.ID, Type: models.ActionTimeout, Description: "old", ExpiresAt: &expired, CreatedBy: mod.ID,
	})
	require.NoError(t, err)

	var out struct {
		Users []struct {
			ID             string
			Username       string
			IsFullBanned   bool
			IsTimedOut     bool
			IsTicketBanned bool
			Discord        *struct{ ID, Username string }
			Actions        []struct {
				Type      string
				CreatedBy struct{ Username string }
			}
		}
	}
	h.mustRun(nil, `query($name: String) {
		users(username: $name) {
			id username isFullBanned isTimedOut isTicketBanned
			discord { id username }
			actions { type createdBy { username } }
		}
	}`, map[string]interface{}{"name": "sunf"}, &out)

	require.Len(t, out.Users, 1)
	user := out.Users[0]
	assert.Equal(t, banned.ID, user.ID)
	assert.True(t, user.IsFullBanned)
	assert.False(t, user.IsTimedOut, "expired actions are inactive")
	assert.False(t, user.IsTicketBanned)
	require.NotNil(t, user.Discord)
	assert.Equal(t, "42", user.Discord.ID)
	require.Len(t, user.Actions, 2)
	assert.Equal(t, "mod", user.Actions[0].CreatedBy.Username)
}

func TestUserActionMutations(t *testing.T) {
	h := newHarness(t, Options{})
	user := testutil.CreateUser(t, h.db, "evader")
	alt := testutil.CreateUser(t, h.db, "alt")
	mod := testutil.CreateUser(t, h.db, "mod")

	vars := map[string]interface{}{"user": user.ID, "alt": alt.ID, "mod": mod.ID}
	res := h.run(nil, `mutation($user: UUID!, $alt: UUID, $mod: UUID!) {
		createUserAction(userId: $user, type: WARNING, banEvasionRelatedUser: $alt, description: "x", createdBy: $mod) { id }
	}`, vars)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, services.MsgBanEvasionType, res.Errors[0].Message)
	assert.Equal(t, apperrors.CodeValidation, errorCode(res.Errors[0]))

	var created struct {
		CreateUserAction struct {
			ID                    string
			Type                  string
			BanEvasionRelatedUser struct{ Username string }
		}
	}
	h.mustRun(nil, `mutation($user: UUID!, $alt: UUID, $mod: UUID!) {
		createUserAction(userId: $user, type: BAN_EVASION, banEvasionRelatedUser: $alt, description: "x", createdBy: $mod) {
			id type banEvasionRelatedUser { username }
		}
	}`, vars, &created)
	assert.Equal(t, "BAN_EVASION", created.CreateUserAction.Type)
	assert.Equal(t, "alt", created.CreateUserAction.BanEvasionRelatedUser.Username)

	repeal := `mutation($id: UUID!, $mod: UUID!) { repealUserAction(id: $id, repealedBy: $mod) { repealedAt repealedBy { id } } }`
	repealVars := map[string]interface{}{"id": created.CreateUserAction.ID, "mod": mod.ID}

	var repealed struct {
		RepealUserAction struct {
			RepealedAt *string
			RepealedBy *struct{ ID string }
		}
	}
	h.mustRun(nil, repeal, repealVars, &repealed)
	assert.NotNil(t, repealed.RepealUserAction.RepealedAt)
	require.NotNil(t, repealed.RepealUserAction.RepealedBy)
	assert.Equal(t, mod.ID, repealed.RepealUserAction.RepealedBy.ID)

	res = h.run(nil, repeal, repealVars)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, services.MsgAlreadyRepealed, res.Errors[0].Message)

	var deleted struct{ DeleteUserAction interface{} }
	h.mustRun(nil, `mutation($id: UUID!) { deleteUserAction(id: $id) }`,
		map[string]interface{}{"id": created.CreateUserAction.ID}, &deleted)
	assert.Nil(t, deleted.DeleteUserAction)
}

func TestTicketLifecycle(t *testing.T) {
	h := newHarness(t, Options{})
	user := testutil.CreateUser(t, h.db, "needs-help")

	var created struct {
		CreateUserTicket struct {
			ID       string
			Status   string
			ThreadID string
		}
	}
	h.mustRun(nil, `mutation($user: UUID!) {
		createUserTicket(userId: $user, type: TRIPSIT, description: "help", threadId: "t1", firstMessageId: "m1") {
			id status threadId
		}
	}`, map[string]interface{}{"user": user.ID}, &created)
	assert.Equal(t, "OPEN", created.CreateUserTicket.Status)
	assert.Equal(t, "t1", created.CreateUserTicket.ThreadID)

	var closed struct {
		UpdateUserTicket struct {
			Status   string
			ClosedAt *string
		}
	}
	h.mustRun(nil, `mutation($id: UUID!) { updateUserTicket(userTicketId: $id, status: CLOSED) { status closedAt } }`,
		map[string]interface{}{"id": created.CreateUserTicket.ID}, &closed)
	assert.Equal(t, "CLOSED", closed.UpdateUserTicket.Status)
	assert.NotNil(t, closed.UpdateUserTicket.ClosedAt)

	var filtered struct {
		Users []struct {
			Tickets []struct{ ID string }
		}
	}
	h.mustRun(nil, `query($id: UUID) { users(id: $id) { tickets(status: [OPEN]) { id } } }`,
		map[string]interface{}{"id": user.ID}, &filtered)
	require.Len(t, filtered.Users, 1)
	assert.Empty(t, filtered.Users[0].Tickets)
}

func TestDrugNameMutations(t *testing.T) {
	h := newHarness(t, Options{})
	drug := testutil.CreateDrug(t, h.db, "MDMA", "Molly")

	res := h.run(nil, `mutation($drug: UUID!) { createDrugName(drugId: $drug, name: "Molly", type: COMMON) { id } }`,
		map[string]interface{}{"drug": drug.ID})
	require.Len(t, res.Errors, 1)
	assert.Equal(t, services.MsgDuplicateDrugName, res.Errors[0].Message)

	var created struct {
		CreateDrugName struct{ ID, Name string }
	}
	h.mustRun(nil, `mutation($drug: UUID!) { createDrugName(drugId: $drug, name: "Ecstasy", type: BRAND) { id name } }`,
		map[string]interface{}{"drug": drug.ID}, &created)

	var promoted struct {
		SetDefaultDrugName []struct {
			Name      string
			IsDefault bool
		}
	}
	h.mustRun(nil, `mutation($id: UUID!) { setDefaultDrugName(drugNameId: $id) { name isDefault } }`,
		map[string]interface{}{"id": created.CreateDrugName.ID}, &promoted)
	require.Len(t, promoted.SetDefaultDrugName, 3)
	defaults := 0
	for _, n := range promoted.SetDefaultDrugName {
		if n.IsDefault {
			defaults++
			assert.Equal(t, "Ecstasy", n.Name)
		}
	}
	assert.Equal(t, 1, defaults)

	var drugs struct {
		Drugs []struct {
			Name    string
			Aliases []struct{ Name string }
		}
	}
	h.mustRun(nil, `{ drugs(name: "MOLL") { name aliases { name } } }`, nil, &drugs)
	require.Len(t, drugs.Drugs, 1)
	assert.Equal(t, "Ecstasy", drugs.Drugs[0].Name)
	assert.Len(t, drugs.Drugs[0].Aliases, 2)
}

func TestDrugAndCategoryMutations(t *testing.T) {
	h := newHarness(t, Options{})
	editor := testutil.CreateUser(t, h.db, "editor")

	var drug struct {
		CreateDrug struct{ ID, Name, PsychonautWikiURL string }
	}
	h.mustRun(nil, `mutation($editor: UUID!) {
		createDrug(name: "Ketamine", psychonautWikiUrl: "https://psychonautwiki.org/wiki/Ketamine", lastUpdatedBy: $editor) {
			id name psychonautWikiUrl
		}
	}`, map[string]interface{}{"editor": editor.ID}, &drug)
	assert.Equal(t, "Ketamine", drug.CreateDrug.Name)

	res := h.run(nil, `mutation($editor: UUID!) { createDrug(name: "X", psychonautWikiUrl: "not a url", lastUpdatedBy: $editor) { id } }`,
		map[string]interface{}{"editor": editor.ID})
	require.NotEmpty(t, res.Errors, "URL scalar rejects the literal")

	var category struct {
		CreateDrugCategory struct{ ID string }
	}
	h.mustRun(nil, `mutation { createDrugCategory(name: "Dissociatives", type: PSYCHOACTIVE) { id } }`, nil, &category)

	link := map[string]interface{}{"drug": drug.CreateDrug.ID, "category": category.CreateDrugCategory.ID}
	var linked struct {
		AssociateDrugWithCategory struct {
			Categories []struct{ Name string }
		}
	}
	h.mustRun(nil, `mutation($drug: UUID!, $category: UUID!) {
		associateDrugWithCategory(drugId: $drug, drugCategoryId: $category) { categories { name } }
	}`, link, &linked)
	require.Len(t, linked.AssociateDrugWithCategory.Categories, 1)
	assert.Equal(t, "Dissociatives", linked.AssociateDrugWithCategory.Categories[0].Name)

	var listed struct {
		DrugCategories []struct {
			Drugs []struct{ Name string }
		}
	}
	h.mustRun(nil, `{ drugCategories(type: PSYCHOACTIVE) { drugs { name } } }`, nil, &listed)
	require.Len(t, listed.DrugCategories, 1)
	require.Len(t, listed.DrugCategories[0].Drugs, 1)

	var unlinked struct {
		DisassociateDrugFromCategory struct {
			Categories []struct{ Name string }
		}
	}
	h.mustRun(nil, `mutation($drug: UUID!, $category: UUID!) {
		disassociateDrugFromCategory(drugId: $drug, drugCategoryId: $category) { categories { name } }
	}`, link, &unlinked)
	assert.Empty(t, unlinked.DisassociateDrugFromCategory.Categories)
}

func TestDiscordGuildMutations(t *testing.T) {
	h := newHarness(t, Options{})
	reporter := testutil.CreateUser(t, h.db, "reporter")

	var created struct {
		CreateDiscordGuild struct {
			ID               string
			MaxOnlineMembers uint
			ChannelTripsit   string
			RoleHelper       *string
		}
	}
	h.mustRun(nil, `mutation {
		createDiscordGuild(id: "179641883222474752", maxOnlineMembers: 300, channels: { tripsit: "c1" }) {
			id maxOnlineMembers channelTripsit roleHelper
		}
	}`, nil, &created)
	assert.Equal(t, uint(300), created.CreateDiscordGuild.MaxOnlineMembers)
	assert.Equal(t, "c1", created.CreateDiscordGuild.ChannelTripsit)
	assert.Nil(t, created.CreateDiscordGuild.RoleHelper)

	var updated struct {
		UpdateDiscordGuild struct {
			IsBanned   bool
			RoleHelper string
		}
	}
	h.mustRun(nil, `mutation {
		updateDiscordGuild(id: "179641883222474752", isBanned: true, roles: { helper: "r1" }) { isBanned roleHelper }
	}`, nil, &updated)
	assert.True(t, updated.UpdateDiscordGuild.IsBanned)
	assert.Equal(t, "r1", updated.UpdateDiscordGuild.RoleHelper)

	remove := `mutation { removeDiscordGuild(id: "179641883222474752") { removedAt } }`
	res := h.run(nil, remove, nil)
	require.Empty(t, res.Errors)
	res = h.run(nil, remove, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, services.MsgGuildAlreadyRemoved, res.Errors[0].Message)

	res = h.run(nil, `mutation { removeDiscordGuild(id: "missing") { id } }`, nil)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, services.MsgGuildNotFound, res.Errors[0].Message)
	assert.Equal(t, apperrors.CodeNotFound, errorCode(res.Errors[0]))

	var guilds struct {
		DiscordGuilds []struct{ ID string }
	}
	h.mustRun(nil, `{ discordGuilds { id } }`, nil, &guilds)
	assert.Empty(t, guilds.DiscordGuilds)
	h.mustRun(nil, `{ discordGuilds(includeRemoved: true) { id } }`, nil, &guilds)
	assert.Len(t, guilds.DiscordGuilds, 1)

	var drama struct {
		CreateDiscordGuildDrama struct {
			Description string
			ReportedBy  struct{ Username string }
		}
	}
	h.mustRun(nil, `mutation($by: UUID!) { createDiscordGuildDrama(reportedBy: $by, description: "spat") { description reportedBy { username } } }`,
		map[string]interface{}{"by": reporter.ID}, &drama)
	assert.Equal(t, "reporter", drama.CreateDiscordGuildDrama.ReportedBy.Username)
}

func TestUserDrugDose(t *testing.T) {
	h := newHarness(t, Options{})
	user := testutil.CreateUser(t, h.db, "careful")
	drug := testutil.CreateDrug(t, h.db, "Caffeine")

	var out struct {
		CreateUserDrugDose struct {
			Dose  float64
			Units string
			Route *string
			Drug  struct{ Name string }
		}
	}
	h.mustRun(nil, `mutation($user: UUID!, $drug: UUID!) {
		createUserDrugDose(userId: $user, drugId: $drug, route: ORAL, dose: 100, units: MG) { dose units route drug { name } }
	}`, map[string]interface{}{"user": user.ID, "drug": drug.ID}, &out)
	assert.Equal(t, 100.0, out.CreateUserDrugDose.Dose)
	assert.Equal(t, "MG", out.CreateUserDrugDose.Units)
	require.NotNil(t, out.CreateUserDrugDose.Route)
	assert.Equal(t, "ORAL", *out.CreateUserDrugDose.Route)
	assert.Equal(t, "Caffeine", out.CreateUserDrugDose.Drug.Name)

	res := h.run(nil, `mutation($user: UUID!, $drug: UUID!) {
		createUserDrugDose(userId: $user, drugId: $drug, dose: -1, units: MG) { id }
	}`, map[string]interface{}{"user": user.ID, "drug": drug.ID})
	require.NotEmpty(t, res.Errors)
	assert.True(t, strings.Contains(res.Errors[0].Message, "dose"))
}

func TestOperationType(t *testing.T) {
	kind, err := OperationType(Request{Query: `{ users { id } }`})
	require.NoError(t, err)
	assert.Equal(t, "query", kind)

	kind, err = OperationType(Request{
		Query:         `query A { users { id } } mutation B { deleteUserAction(id: "x") }`,
		OperationName: "B",
	})
	require.NoError(t, err)
	assert.Equal(t, "mutation", kind)

	_, err = OperationType(Request{Query: `{ users { id } }`, OperationName: "C"})
	assert.Error(t, err)

	_, err = OperationType(Request{Query: `{ users {`})
	assert.Error(t, err)
}
