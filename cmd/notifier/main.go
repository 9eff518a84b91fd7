package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"maitred/internal/notifier"
	"maitred/pkg/config"
	"maitred/pkg/kafka"
	kafka_config "maitred/pkg/kafka/config"
	kafka_middleware "maitred/pkg/kafka/middleware"
	"maitred/pkg/mailer"
)

const ServiceName = "notifier"

func main() {
	cfg := config.Load(ServiceName)
	defer cfg.GracefulShutdown()

	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail, cfg.Log)
	if !mail.Enabled() {
		cfg.Log.Warn("SMTP not configured, notifications will be logged and dropped")
	}

	handler := notifier.New(mail, cfg.Log)

	consumer, err := kafka.NewConsumer(kafkaCfg, handler.Handle, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafka_middleware.LoggingConsumerMiddleware(cfg.Log))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting notifier",
		"brokers", kafkaCfg.Brokers,
		"topic", kafkaCfg.ReservationsTopic,
		"group", kafkaCfg.ConsumerGroupID,
	)

	if err := consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
