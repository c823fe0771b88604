package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type fakeChannel struct {
	exchange string
	msg      amqp.Publishing
	err      error
}

func (c *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.msg = msg
	return c.err
}

func TestPublishAlert(t *testing.T) {
	ch := &fakeChannel{}
	p := &RegionPublisher{ch: ch}

	err := p.PublishAlert(context.Background(), &domain.RegionAlert{
		VehicleID: "V1",
		Event:     domain.RegionEntry,
		Region:    "종로구",
		Location:  domain.Location{Lat: 37.57, Lon: 126.99},
		Timestamp: 1715003456000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.exchange != ExchangeName {
		t.Errorf("expected exchange %s, got %s", ExchangeName, ch.exchange)
	}
	if ch.msg.ContentType != "application/json" {
		t.Errorf("unexpected content type %s", ch.msg.ContentType)
	}

	var msg AlertMessage
	if err := json.Unmarshal(ch.msg.Body, &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Region != "종로구" || msg.Event != domain.RegionEntry || msg.Location.Latitude != 37.57 {
		t.Errorf("unexpected message %+v", msg)
	}
}

func TestPublishAlert_Error(t *testing.T) {
	p := &RegionPublisher{ch: &fakeChannel{err: errors.New("channel closed")}}
	if err := p.PublishAlert(context.Background(), &domain.RegionAlert{VehicleID: "V1"}); err == nil {
		t.Fatal("expected error")
	}
}
