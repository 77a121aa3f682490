package email

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendVerify(t *testing.T) {
	var gotFrom string
	var gotTo []string
	var gotMsg string

	mailer := NewMailerWithSender("noreply@tripsit.me", func(_ context.Context, from string, to []string, msg []byte) error {
		gotFrom, gotTo, gotMsg = from, to, string(msg)
		return nil
	})

	err := mailer.SendVerify(context.Background(), "someone@example.com", "https://tripsit.me/verify?token=a&b=<c>")
	require.NoError(t, err)

	assert.Equal(t, "noreply@tripsit.me", gotFrom)
	assert.Equal(t, []string{"someone@example.com"}, gotTo)
	assert.Contains(t, gotMsg, "To: someone@example.com\r\n")
	assert.Contains(t, gotMsg, "Content-Type: text/html")
	assert.Contains(t, gotMsg, "Subject: Verify your TripSit account")
	assert.Contains(t, gotMsg, "token=a&amp;b=%3cc%3e", "URL is escaped in the HTML body")
}

func TestSendVerifyWrapsError(t *testing.T) {
	boom := errors.New("relay refused")
	mailer := NewMailerWithSender("noreply@tripsit.me", func(context.Context, string, []string, []byte) error {
		return boom
	})

	err := mailer.SendVerify(context.Background(), "someone@example.com", "https://tripsit.me/verify")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
