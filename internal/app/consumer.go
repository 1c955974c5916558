package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"driftpro/internal/emailsettings"
	"driftpro/internal/events"
	"driftpro/internal/messaging/kafka/consumer"
	"driftpro/internal/notification"
	"driftpro/internal/shared/connection"
	"driftpro/internal/user"

	"go.uber.org/zap"
)

// RunConsumer fans lifecycle events out into notifications and emails.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	userRepo := user.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	// No hub here; websocket clients are attached to the API process,
	// which pushes on its own writes.
	notificationService := notification.NewService(sqlDB, notificationRepo, nil)
	emailRepo := emailsettings.NewRepository(gormDB)
	emailService := emailsettings.NewService(emailRepo, emailsettings.NewSMTPMailer())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topics := []string{
		events.TopicAbsenceLifecycle,
		events.TopicVacationLifecycle,
	}
	for _, topic := range topics {
		c := consumer.New(
			consumer.NewReader(kafkaBroker, topic),
			notificationService,
			userRepo,
			emailService,
			logger,
		)
		defer c.Close()

		go func(c *consumer.Consumer, topic string) {
			if err := c.Run(ctx); err != nil {
				logger.Error("consumer stopped", zap.String("topic", topic), zap.Error(err))
			}
		}(c, topic)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
