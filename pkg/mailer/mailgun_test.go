package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management-service/pkg/mailer/templates"
)

type captureSender struct {
	to, subject, text, html string
}

func (c *captureSender) Send(_ context.Context, to, subject, text, html string) error {
	c.to, c.subject, c.text, c.html = to, subject, text, html
	return nil
}

func TestSendTemplate(t *testing.T) {
	s := &captureSender{}
	err := SendTemplate(context.Background(), s, "jane@example.com", templates.Welcome, templates.EmailData{FirstName: "Jane", Email: "jane@example.com", Role: "USER", CompanyName: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", s.to)
	assert.Equal(t, "Welcome to Acme, Jane", s.subject)
	assert.NotEmpty(t, s.html)
}

func TestConfigured(t *testing.T) {
	assert.False(t, (*Mailgun)(nil).Configured())
	assert.False(t, NewMailgun("mg.example.com", "", "no-reply@example.com").Configured())
	assert.True(t, NewMailgun("mg.example.com", "key", "no-reply@example.com").Configured())
}
