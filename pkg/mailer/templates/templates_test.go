package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_VerificationCode(t *testing.T) {
	exp := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
	data := NewEmailData("PixCredit", "Alice", "alice@example.com", WithCode("123456"), WithExpiresAt(exp))

	subject, text, html, err := Render(VerificationCode, data)
	require.NoError(t, err)
	assert.Equal(t, "Verify Your Email", subject)
	assert.Contains(t, text, "123456")
	assert.Contains(t, text, "02 January 2026, 15:04 UTC")
	assert.Contains(t, html, "<strong>123456</strong>")
}

func TestRender_FromJobMap(t *testing.T) {
	data := ToMap(NewEmailData("PixCredit", "Bob <b>", "bob@example.com", WithResetURL("https://app/reset/u1/tok")))

	subject, text, html, err := Render(PasswordReset, data)
	require.NoError(t, err)
	assert.Equal(t, "Reset your password", subject)
	assert.Contains(t, text, "https://app/reset/u1/tok")
	assert.NotContains(t, text, "expires")
	assert.Contains(t, html, "Bob &lt;b&gt;")
}

func TestRender_Welcome(t *testing.T) {
	subject, _, html, err := Render(Welcome, NewEmailData("PixCredit", "Carol", "carol@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Welcome to PixCredit", subject)
	assert.Contains(t, html, "Welcome, Carol!")
}

func TestRender_UnknownTemplate(t *testing.T) {
	_, _, _, err := Render("nope", EmailData{})
	assert.Error(t, err)
}
