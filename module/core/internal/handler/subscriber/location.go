package subscriber

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/go-playground/validator/v10"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

const topicPattern = "/fire/vehicle/+/location"

type ingestService interface {
	Ingest(ctx context.Context, vl *domain.VehicleLocation) (bool, error)
}

// locationMessage is the AVL terminal payload. Timestamp is epoch ms.
type locationMessage struct {
	VehicleID string  `json:"vehicleId" validate:"required"`
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Timestamp int64   `json:"timestamp" validate:"gt=0"`
}

var validate = validator.New()

type LocationSubscriber struct {
	client    mqtt.Client
	ingestSvc ingestService
}

func NewLocationSubscriber(client mqtt.Client, ingestSvc ingestService) *LocationSubscriber {
	return &LocationSubscriber{
		client:    client,
		ingestSvc: ingestSvc,
	}
}

func (s *LocationSubscriber) Start() error {
	token := s.client.Subscribe(topicPattern, 1, s.handleMessage)
	token.Wait()
	return token.Error()
}

func (s *LocationSubscriber) Stop() {
	s.client.Unsubscribe(topicPattern).Wait()
}

func (s *LocationSubscriber) handleMessage(_ mqtt.Client, msg mqtt.Message) {
	var raw locationMessage
	if err := json.Unmarshal(msg.Payload(), &raw); err != nil {
		log.Printf("invalid location message: %v", err)
		return
	}
	if raw.VehicleID == "" {
		raw.VehicleID = vehicleIDFromTopic(msg.Topic())
	}

	if err := validateLocationMessage(&raw); err != nil {
		log.Printf("validation error: %v", err)
		return
	}

	vl := &domain.VehicleLocation{
		VehicleID: raw.VehicleID,
		Location: domain.Location{
			Lat:       raw.Latitude,
			Lon:       raw.Longitude,
			Timestamp: time.UnixMilli(raw.Timestamp),
		},
	}

	applied, err := s.ingestSvc.Ingest(context.Background(), vl)
	if err != nil {
		log.Printf("ingest location error: %v", err)
		return
	}
	if !applied {
		log.Printf("stale location for %s dropped", vl.VehicleID)
	}
}

func validateLocationMessage(msg *locationMessage) error {
	return validate.Struct(msg)
}

// vehicleIDFromTopic extracts {id} from /fire/vehicle/{id}/location.
func vehicleIDFromTopic(topic string) string {
	parts := strings.Split(strings.Trim(topic, "/"), "/")
	if len(parts) != 4 || parts[0] != "fire" || parts[1] != "vehicle" || parts[3] != "location" {
		return ""
	}
	return parts[2]
}
