package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

type locationMessage struct {
	VehicleID string  `json:"vehicleId"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// Seoul city hall; vehicles start scattered within a few kilometres of it.
const (
	originLat = 37.5665
	originLng = 126.9780
)

type walker struct {
	id       string
	lat, lng float64
}

// step moves the vehicle by up to ~100 m in each axis.
func (w *walker) step() {
	w.lat += (rand.Float64() - 0.5) * 0.002
	w.lng += (rand.Float64() - 0.5) * 0.002
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <interval_seconds> [vehicle_id,...]\n", os.Args[0])
		os.Exit(1)
	}

	intervalSec, err := strconv.Atoi(os.Args[1])
	if err != nil || intervalSec <= 0 {
		fmt.Fprintf(os.Stderr, "error: interval must be a positive integer\n")
		os.Exit(1)
	}

	ids := []string{"seoul-jongno-p1", "seoul-jung-t1", "seoul-mapo-r1", "seoul-yongsan-a1", "seoul-gangnam-l1"}
	if len(os.Args) > 2 {
		ids = strings.Split(os.Args[2], ",")
	}

	broker := "tcp://localhost:1883"
	if v := os.Getenv("MQTT_BROKER"); v != "" {
		broker = v
	}

	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID("fire-mock-publisher")

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}
	defer client.Disconnect(250)

	fleet := make([]*walker, len(ids))
	for i, id := range ids {
		fleet[i] = &walker{
			id:  id,
			lat: originLat + (rand.Float64()-0.5)*0.05,
			lng: originLng + (rand.Float64()-0.5)*0.05,
		}
	}

	log.Printf("connected to %s, publishing every %ds...", broker, intervalSec)
	log.Printf("vehicles: %v", ids)

	ticker := time.NewTicker(time.Duration(intervalSec) * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		w := fleet[rand.Intn(len(fleet))]
		w.step()

		payload, _ := json.Marshal(locationMessage{
			VehicleID: w.id,
			Latitude:  w.lat,
			Longitude: w.lng,
			Timestamp: time.Now().UnixMilli(),
		})
		topic := fmt.Sprintf("/fire/vehicle/%s/location", w.id)

		token := client.Publish(topic, 1, false, payload)
		token.Wait()

		log.Printf("published to %s: %s", topic, payload)
	}
}
