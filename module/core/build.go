package core

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/geocode"
	handler "github.com/FireFighterProject/fire-dispatch/module/core/internal/handler/http"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/handler/subscriber"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/handler/ws"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/boundary/geojson"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/cache/redis"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/database/postgres"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/feed/poll"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/publisher/rabbitmq"
	"github.com/FireFighterProject/fire-dispatch/module/core/service"
)

const (
	positionCacheTTL = 24 * time.Hour
	geocoderTimeout  = 5 * time.Second
)

type Options struct {
	BoundaryFineFile     string
	BoundaryCoarseFile   string
	ZoomCutover          int
	PositionFeedURL      string
	PositionFeedInterval time.Duration
	BroadcastInterval    time.Duration
	GeocoderURL          string
	GeocoderKey          string
}

type Module struct {
	Store       *service.PositionStore
	Index       *service.BoundaryIndex
	LocationSvc *service.LocationService
	RegistrySvc *service.RegistryService

	vehicleHandler  *handler.VehicleHandler
	gpsHandler      *handler.GPSHandler
	regionHandler   *handler.RegionHandler
	dispatchHandler *handler.DispatchHandler
	hub             *ws.Hub
	subscriber      *subscriber.LocationSubscriber
	poller          *poll.Poller
}

func Build(opts Options, db *sql.DB, amqpConn *amqp.Connection, mqttClient mqtt.Client, rdb *goredis.Client) (*Module, error) {
	fine, err := geojson.Load(opts.BoundaryFineFile, domain.TierDistrict)
	if err != nil {
		return nil, fmt.Errorf("fine boundaries: %w", err)
	}
	coarse, err := geojson.Load(opts.BoundaryCoarseFile, domain.TierProvince)
	if err != nil {
		return nil, fmt.Errorf("coarse boundaries: %w", err)
	}
	log.Printf("loaded %d district and %d province boundaries", len(fine), len(coarse))

	index := service.NewBoundaryIndex(fine, coarse, opts.ZoomCutover)
	store := service.NewPositionStore()
	aggregator := service.NewRegionAggregator()

	regionPub, err := rabbitmq.NewRegionPublisher(amqpConn)
	if err != nil {
		return nil, fmt.Errorf("region publisher: %w", err)
	}

	locationSvc := service.NewLocationService(store, postgres.NewLocationRepo(db), redis.NewPositionCache(rdb, positionCacheTTL))
	registrySvc := service.NewRegistryService(store, postgres.NewVehicleRepo(db))
	regionSvc := service.NewRegionWatchService(regionPub, index)
	ingestSvc := service.NewIngestService(locationSvc, regionSvc)
	dispatchSvc := service.NewDispatchService(registrySvc, geocode.NewKakaoGeocoder(opts.GeocoderURL, opts.GeocoderKey, geocoderTimeout))

	m := &Module{
		Store:           store,
		Index:           index,
		LocationSvc:     locationSvc,
		RegistrySvc:     registrySvc,
		vehicleHandler:  handler.NewVehicleHandler(locationSvc, registrySvc),
		gpsHandler:      handler.NewGPSHandler(ingestSvc),
		regionHandler:   handler.NewRegionHandler(index, aggregator, store),
		dispatchHandler: handler.NewDispatchHandler(dispatchSvc),
		hub:             ws.NewHub(store, index, aggregator, opts.BroadcastInterval),
		subscriber:      subscriber.NewLocationSubscriber(mqttClient, ingestSvc),
	}
	if opts.PositionFeedURL != "" {
		m.poller = poll.NewPoller(opts.PositionFeedURL, opts.PositionFeedInterval, ingestSvc)
	}
	return m, nil
}

func (m *Module) RegisterRoutes(r *gin.RouterGroup) {
	m.vehicleHandler.Register(r)
	m.gpsHandler.Register(r)
	m.regionHandler.Register(r)
	m.dispatchHandler.Register(r)
	m.hub.Register(r)
}

func (m *Module) StartSubscribers() error {
	return m.subscriber.Start()
}

func (m *Module) StopSubscribers() {
	m.subscriber.Stop()
}

// Start loads the registry, warms the store from the position cache and runs
// the background loops until ctx is done.
func (m *Module) Start(ctx context.Context) error {
	ids, err := m.RegistrySvc.Load(ctx)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	warmed := m.LocationSvc.Warm(ctx, ids)
	log.Printf("registered %d vehicles, %d positions warmed", len(ids), warmed)

	go m.hub.Run(ctx)
	if m.poller != nil {
		go m.poller.Run(ctx)
	}
	return nil
}
