package templates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWelcome(t *testing.T) {
	subject, text, html, err := Render(Welcome, EmailData{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@example.com",
		Role:      "MANAGER",
		SentAt:    time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "Welcome to User Management, John", subject)
	assert.Contains(t, text, "john@example.com with the manager role")
	assert.Contains(t, text, "2025-03-01 10:00 UTC")
	assert.Contains(t, html, "<strong>john@example.com</strong>")
}

func TestRenderEscapesHTML(t *testing.T) {
	_, _, html, err := Render(Welcome, EmailData{FirstName: "<b>x</b>", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.NotContains(t, html, "<b>x</b>")
	assert.Contains(t, html, "Acme")
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, _, _, err := Render("missing", EmailData{})
	assert.Error(t, err)
}
