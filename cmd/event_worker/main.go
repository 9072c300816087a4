package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oksasatya/user-management-service/config"
	"github.com/oksasatya/user-management-service/internal/infrastructure/search"
	"github.com/oksasatya/user-management-service/internal/worker"
	"github.com/oksasatya/user-management-service/pkg/helpers"
	"github.com/oksasatya/user-management-service/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQUserEventsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	handler := &worker.EventHandler{CompanyName: cfg.CompanyName, Logger: logger}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 && cfg.ESUsersIndex != "" {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("elasticsearch client: %v", err)
		}
		handler.Indexer = search.NewUserIndexer(es, cfg.ESUsersIndex)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	switch {
	case !cfg.MailSendEnabled:
		logger.Info("MAIL_SEND_ENABLED=false; welcome mails disabled")
	case !mg.Configured():
		log.Fatal("Mailgun not configured")
	default:
		handler.Mail = mg
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQUserEventsQueue, cfg.WorkerPrefetch)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	msgs, err := consumer.Consume(cfg.AppName + "-event-worker")
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range msgs {
			handle(ctx, handler, msg)
		}
	}()

	logger.Infof("event worker listening on queue=%s", cfg.RabbitMQUserEventsQueue)
	<-stop
	logger.Info("shutting down...")
	cancel()
	consumer.Close()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
	}
}

func handle(ctx context.Context, h *worker.EventHandler, msg amqp.Delivery) {
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	err := h.Handle(c, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, worker.ErrMalformed):
		h.Logger.WithError(err).WithField("message_id", msg.MessageId).Error("dropping bad message")
		_ = msg.Nack(false, false)
	default:
		// requeue once; a redelivered failure is dropped to avoid a hot loop
		_ = msg.Nack(false, !msg.Redelivered)
	}
}
