package main

import (
	"log"

	"stakecontrol/internal/handlers"
	"stakecontrol/pkg/config"

	"github.com/joho/godotenv"
	logrus "github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	// Initialize database
	config.InitDB()

	// Initialize RabbitMQ
	config.InitRabbitMQ()
	defer config.RabbitMQ.Close()

	// Create consumer for payment callback events
	msgConsumer, err := config.NewConsumer(config.PaymentEventsQueue)
	if err != nil {
		logrus.Fatal("Failed to create consumer: ", err)
	}
	defer msgConsumer.Close()

	logrus.Info("Payment events worker started, waiting for messages...")

	// Start consuming messages. Failed messages are requeued by the consumer.
	err = msgConsumer.Consume(func(msg []byte) error {
		logrus.Infof("Received payment event: %s", string(msg))
		if err := handlers.HandlePaymentMessage(msg); err != nil {
			logrus.Errorf("Failed to process payment event: %v", err)
			return err
		}
		return nil
	})

	if err != nil {
		log.Fatal("Failed to start consumer: ", err)
	}
}
