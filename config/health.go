package config

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type dbPinger interface {
	PingContext(ctx context.Context) error
}

type amqpConnection interface {
	IsClosed() bool
}

type mqttConnection interface {
	IsConnected() bool
}

type redisPinger interface {
	Ping(ctx context.Context) *redis.StatusCmd
}

type HealthChecker struct {
	db       dbPinger
	amqpConn amqpConnection
	mqtt     mqttConnection
	redis    redisPinger
}

func NewHealthChecker(db dbPinger, amqpConn amqpConnection, mqttClient mqttConnection, rdb redisPinger) *HealthChecker {
	return &HealthChecker{db: db, amqpConn: amqpConn, mqtt: mqttClient, redis: rdb}
}

func (h *HealthChecker) Register(r *gin.Engine) {
	r.GET("/healthz", h.Handle)
}

func (h *HealthChecker) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	deps := gin.H{}

	report := func(name string, err error) {
		if err != nil {
			deps[name] = gin.H{"status": "down", "error": err.Error()}
			status = http.StatusServiceUnavailable
			return
		}
		deps[name] = gin.H{"status": "up"}
	}

	report("postgres", h.db.PingContext(ctx))
	report("redis", h.redis.Ping(ctx).Err())

	if h.amqpConn.IsClosed() {
		report("rabbitmq", errConnectionClosed)
	} else {
		report("rabbitmq", nil)
	}

	if !h.mqtt.IsConnected() {
		report("mqtt", errNotConnected)
	} else {
		report("mqtt", nil)
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
	})
}

type healthError string

func (e healthError) Error() string { return string(e) }

const (
	errConnectionClosed healthError = "connection closed"
	errNotConnected     healthError = "not connected"
)
