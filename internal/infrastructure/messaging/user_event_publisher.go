package messaging

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-management-service/internal/domain/entity"
	"github.com/oksasatya/user-management-service/internal/observability"
	"github.com/oksasatya/user-management-service/pkg/helpers"
)

// EventSender delivers one event to the broker, blocking until it is accepted or fails.
type EventSender interface {
	Send(ctx context.Context, ev entity.UserEvent) error
}

// RabbitEventSender sends events as persistent JSON messages on a RabbitMQ queue.
type RabbitEventSender struct {
	Pub *helpers.RabbitPublisher
}

func NewRabbitEventSender(pub *helpers.RabbitPublisher) *RabbitEventSender {
	return &RabbitEventSender{Pub: pub}
}

func (s *RabbitEventSender) Send(ctx context.Context, ev entity.UserEvent) error {
	return s.Pub.PublishJSON(ctx, ev, helpers.MessageMeta{
		MessageID: ev.EventID,
		Type:      string(ev.EventType),
		Headers:   amqp.Table{"user_id": strconv.FormatInt(ev.UserID, 10)},
	})
}

// DisabledSender drops events; used when EVENTS_ENABLED=false.
type DisabledSender struct{}

func (DisabledSender) Send(context.Context, entity.UserEvent) error { return nil }

// UserEventPublisher hands events to an EventSender without blocking the caller.
// Each publish runs on its own goroutine detached from the request context; the
// outcome is only logged and counted.
type UserEventPublisher struct {
	sender  EventSender
	logger  *logrus.Logger
	metrics *observability.Metrics
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewUserEventPublisher(sender EventSender, logger *logrus.Logger, metrics *observability.Metrics, timeout time.Duration) *UserEventPublisher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &UserEventPublisher{sender: sender, logger: logger, metrics: metrics, timeout: timeout}
}

// Publish returns immediately.
func (p *UserEventPublisher) Publish(ev entity.UserEvent) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		err := p.send(ev)
		p.metrics.ObserveEvent(string(ev.EventType), err)
		p.logResult(ev, err)
	}()
}

func (p *UserEventPublisher) send(ev entity.UserEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while sending event: %v", r)
		}
	}()
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	return p.sender.Send(ctx, ev)
}

func (p *UserEventPublisher) logResult(ev entity.UserEvent, err error) {
	if p.logger == nil {
		return
	}
	entry := p.logger.WithFields(logrus.Fields{
		"event_id":   ev.EventID,
		"event_type": ev.EventType,
		"user_id":    ev.UserID,
	})
	if err != nil {
		entry.WithError(err).Error("failed to send user event")
		return
	}
	entry.Info("user event sent")
}

// Close waits for in-flight publishes or until ctx is done.
func (p *UserEventPublisher) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
