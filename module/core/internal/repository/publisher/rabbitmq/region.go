package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/publisher"
)

var _ publisher.RegionPublisher = (*RegionPublisher)(nil)

const (
	ExchangeName = "fire.events"
	QueueName    = "region_alerts"
)

type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

type RegionPublisher struct {
	ch channel
}

// NewRegionPublisher declares the fanout exchange and the alert queue bound
// to it.
func NewRegionPublisher(conn *amqp.Connection) (*RegionPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("rabbitmq channel: %w", err)
	}
	if err := declare(ch); err != nil {
		return nil, err
	}
	return &RegionPublisher{ch: ch}, nil
}

// declare sets up the exchange, queue and binding. The alert listener declares
// the same topology, so either side may start first.
func declare(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}
	if err := ch.QueueBind(QueueName, "", ExchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

type AlertMessage struct {
	VehicleID string                 `json:"vehicle_id"`
	Event     domain.RegionEventType `json:"event"`
	Region    string                 `json:"region"`
	Location  AlertLocation          `json:"location"`
	Timestamp int64                  `json:"timestamp"`
}

type AlertLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func encodeAlert(alert *domain.RegionAlert) ([]byte, error) {
	return json.Marshal(AlertMessage{
		VehicleID: alert.VehicleID,
		Event:     alert.Event,
		Region:    alert.Region,
		Location: AlertLocation{
			Latitude:  alert.Location.Lat,
			Longitude: alert.Location.Lon,
		},
		Timestamp: alert.Timestamp,
	})
}

func (p *RegionPublisher) PublishAlert(ctx context.Context, alert *domain.RegionAlert) error {
	body, err := encodeAlert(alert)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	return p.ch.PublishWithContext(ctx, ExchangeName, "", false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
}
