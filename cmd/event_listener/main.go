package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/FireFighterProject/fire-dispatch/config"
)

const (
	exchangeName = "fire.events"
	queueName    = "region_alerts"
)

type regionAlert struct {
	VehicleID string `json:"vehicle_id"`
	Event     string `json:"event"`
	Region    string `json:"region"`
	Location  struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Timestamp int64 `json:"timestamp"`
}

func (a regionAlert) String() string {
	verb := "entered"
	if a.Event == "region_exit" {
		verb = "left"
	}
	return fmt.Sprintf("%s %s %s %s at (%.5f, %.5f) %s",
		time.UnixMilli(a.Timestamp).Format(time.RFC3339), a.VehicleID, verb, a.Region,
		a.Location.Latitude, a.Location.Longitude, a.Event)
}

func main() {
	config.InitLogging()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	conn, err := config.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("rabbitmq: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("rabbitmq channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch); err != nil {
		log.Fatalf("declare: %v", err)
	}

	msgs, err := ch.Consume(queueName, "", true, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("consuming from queue '%s', waiting for region alerts...", queueName)

	for {
		select {
		case <-ctx.Done():
			log.Println("shutting down")
			return
		case msg, ok := <-msgs:
			if !ok {
				log.Println("delivery channel closed")
				return
			}
			var alert regionAlert
			if err := json.Unmarshal(msg.Body, &alert); err != nil {
				log.Printf("skipping malformed alert: %v", err)
				continue
			}
			fmt.Println(alert)
		}
	}
}

func declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(exchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(queueName, "", exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}
