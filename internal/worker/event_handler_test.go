package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/user-management-service/internal/domain/entity"
)

type fakeIndexer struct {
	applied []entity.UserEvent
	err     error
}

func (f *fakeIndexer) Apply(_ context.Context, ev entity.UserEvent) error {
	f.applied = append(f.applied, ev)
	return f.err
}

type fakeMail struct {
	to      []string
	subject string
	err     error
}

func (f *fakeMail) Send(_ context.Context, to, subject, _, _ string) error {
	f.to = append(f.to, to)
	f.subject = subject
	return f.err
}

func newHandler() (*EventHandler, *fakeIndexer, *fakeMail, *test.Hook) {
	logger, hook := test.NewNullLogger()
	idx := &fakeIndexer{}
	mail := &fakeMail{}
	return &EventHandler{Indexer: idx, Mail: mail, CompanyName: "Acme", Logger: logger}, idx, mail, hook
}

func body(t *testing.T, typ entity.EventType) []byte {
	t.Helper()
	u := &entity.User{ID: 9, FirstName: "Jane", LastName: "Roe", Email: "jane@example.com", Role: entity.RoleUser, Status: entity.StatusActive}
	b, err := json.Marshal(entity.NewUserEvent("evt-9", typ, u, time.Now().UTC()))
	require.NoError(t, err)
	return b
}

func TestHandleCreatedIndexesAndSendsWelcome(t *testing.T) {
	h, idx, mail, hook := newHandler()

	require.NoError(t, h.Handle(context.Background(), body(t, entity.EventUserCreated)))

	require.Len(t, idx.applied, 1)
	assert.Equal(t, int64(9), idx.applied[0].UserID)
	assert.Equal(t, []string{"jane@example.com"}, mail.to)
	assert.Equal(t, "Welcome to Acme, Jane", mail.subject)
	assert.Equal(t, "user created", hook.Entries[0].Message)
	assert.Equal(t, entity.EventUserCreated, hook.Entries[0].Data["event_type"])
}

func TestHandleOtherEventsSkipMail(t *testing.T) {
	for _, typ := range []entity.EventType{entity.EventUserUpdated, entity.EventUserDeleted, entity.EventUserStatusChanged} {
		h, idx, mail, _ := newHandler()
		require.NoError(t, h.Handle(context.Background(), body(t, typ)))
		assert.Len(t, idx.applied, 1, typ)
		assert.Empty(t, mail.to, typ)
	}
}

func TestHandleMalformed(t *testing.T) {
	h, idx, _, _ := newHandler()

	err := h.Handle(context.Background(), []byte("{"))
	assert.ErrorIs(t, err, ErrMalformed)

	err = h.Handle(context.Background(), []byte(`{"eventType":"USER_CREATED"}`))
	assert.ErrorIs(t, err, ErrMalformed)
	assert.Empty(t, idx.applied)
}

func TestHandleIndexFailureIsRetryable(t *testing.T) {
	h, idx, mail, hook := newHandler()
	idx.err = errors.New("es down")

	err := h.Handle(context.Background(), body(t, entity.EventUserCreated))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformed)
	assert.Empty(t, mail.to)
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
}

func TestHandleMailFailureStillAcks(t *testing.T) {
	h, _, mail, hook := newHandler()
	mail.err = errors.New("mailgun 401")

	require.NoError(t, h.Handle(context.Background(), body(t, entity.EventUserCreated)))
	assert.Equal(t, "welcome mail failed", hook.LastEntry().Message)
}

func TestHandleUnknownTypeIsDropped(t *testing.T) {
	h, idx, _, hook := newHandler()
	require.NoError(t, h.Handle(context.Background(), []byte(`{"eventId":"e","eventType":"USER_MERGED","userId":1}`)))
	assert.Empty(t, idx.applied)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}
