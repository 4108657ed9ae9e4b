package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderOrderEmail(t *testing.T) {
	data := OrderEmailData{
		UserEmail:         "max@example.local",
		UserName:          "Max Muster",
		FirstName:         "Max",
		LastName:          "Muster",
		Street:            strPtr("Waldweg"),
		HouseNumber:       strPtr("7"),
		City:              strPtr("Berlin"),
		Amount:            1250,
		BoughtAt:          time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ResetPasswordLink: "https://cms.example.local/auth/reset-password?token=abc",
	}

	text, html, err := renderOrderEmail(data)
	require.NoError(t, err)

	assert.Contains(t, text, "Hallo Max Muster,")
	assert.Contains(t, text, "- Anzahl Bäume: 1.250")
	assert.Contains(t, text, "- Hektar: 2.00 ha")
	assert.Contains(t, text, "- Kaufdatum: 01.03.2024")
	assert.Contains(t, text, "- Adresse: Waldweg 7, Berlin")
	assert.NotContains(t, text, "Telefon")
	assert.Contains(t, text, data.ResetPasswordLink)

	assert.Contains(t, html, `<a href="https://cms.example.local/auth/reset-password?token=abc"`)
	assert.Contains(t, html, "<strong>Anzahl Bäume:</strong> 1.250")
	assert.NotContains(t, html, "Telefon")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, html, err := renderOrderEmail(OrderEmailData{UserName: "<script>", BoughtAt: time.Now(), Amount: 1})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestSendPasswordReset(t *testing.T) {
	sender := &fakeSender{}
	SetMailSender(sender)
	t.Cleanup(func() { SetMailSender(nil) })

	s := MailService{}
	err := s.SendPasswordReset(context.Background(), PasswordResetEmailData{
		UserEmail:         "anna@example.local",
		UserName:          "Anna",
		ResetPasswordLink: "https://cms.example.local/auth/reset-password?token=abc",
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	rcpts, err := sender.sent[0].GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"anna@example.local"}, rcpts)
	assert.Equal(t, []string{PasswordResetSubject}, sender.subjects())

	err = s.SendPasswordReset(context.Background(), PasswordResetEmailData{UserEmail: "not an address"})
	assert.Error(t, err)
}

func TestMailTestConfiguration(t *testing.T) {
	sender := &fakeSender{}
	SetMailSender(sender)
	t.Cleanup(func() { SetMailSender(nil) })

	s := MailService{}
	assert.NoError(t, s.TestConfiguration(context.Background()))
	sender.sendErr = errSMTPDown
	assert.ErrorIs(t, s.TestConfiguration(context.Background()), errSMTPDown)
}
