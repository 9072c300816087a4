// Package worker consumes user change events from the broker.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management-service/internal/domain/entity"
	"github.com/oksasatya/user-management-service/pkg/mailer"
	"github.com/oksasatya/user-management-service/pkg/mailer/templates"
)

// ErrMalformed marks a message that can never be processed and must not be requeued.
var ErrMalformed = errors.New("malformed user event")

// Indexer applies an event to the search projection.
type Indexer interface {
	Apply(ctx context.Context, ev entity.UserEvent) error
}

// EventHandler logs every change event, keeps the search index in sync and
// sends a welcome mail for new users.
type EventHandler struct {
	Indexer     Indexer
	Mail        mailer.Sender
	CompanyName string
	Logger      *logrus.Logger
}

// Handle processes one message body. A non-nil error other than ErrMalformed is retryable.
func (h *EventHandler) Handle(ctx context.Context, body []byte) error {
	var ev entity.UserEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if ev.EventID == "" || ev.UserID == 0 {
		return fmt.Errorf("%w: missing eventId or userId", ErrMalformed)
	}

	log := h.Logger.WithFields(logrus.Fields{
		"event_id":   ev.EventID,
		"event_type": ev.EventType,
		"user_id":    ev.UserID,
	})
	switch ev.EventType {
	case entity.EventUserCreated:
		log.WithField("email", ev.Email).Info("user created")
	case entity.EventUserUpdated:
		log.Info("user updated")
	case entity.EventUserDeleted:
		log.Info("user deleted")
	case entity.EventUserStatusChanged:
		log.WithField("status", ev.Status).Info("user status changed")
	default:
		log.Warn("unknown event type")
		return nil
	}

	if h.Indexer != nil {
		if err := h.Indexer.Apply(ctx, ev); err != nil {
			log.WithError(err).Error("search index update failed")
			return err
		}
	}

	if ev.EventType == entity.EventUserCreated && h.Mail != nil {
		data := templates.EmailData{
			FirstName:   ev.FirstName,
			LastName:    ev.LastName,
			Email:       ev.Email,
			Role:        string(ev.Role),
			CompanyName: h.CompanyName,
			SentAt:      time.Now().UTC(),
		}
		// a failed welcome mail is not worth redelivering the event
		if err := mailer.SendTemplate(ctx, h.Mail, ev.Email, templates.Welcome, data); err != nil {
			log.WithError(err).Warn("welcome mail failed")
		}
	}
	return nil
}
