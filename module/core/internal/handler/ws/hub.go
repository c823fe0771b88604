// Package ws pushes vehicle snapshots to map clients and keeps each client's
// selection region.
package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/service"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 8
)

type positionStore interface {
	Snapshot() []domain.Vehicle
	Version() uint64
}

type selectionAggregator interface {
	AggregateSelection(sel domain.SelectionRegion, vehicles []domain.Vehicle) domain.Aggregate
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Hub struct {
	store      positionStore
	index      *service.BoundaryIndex
	aggregator selectionAggregator
	interval   time.Duration

	mu          sync.Mutex
	clients     map[*client]struct{}
	lastVersion uint64
}

func NewHub(store positionStore, index *service.BoundaryIndex, aggregator selectionAggregator, interval time.Duration) *Hub {
	return &Hub{
		store:      store,
		index:      index,
		aggregator: aggregator,
		interval:   interval,
		clients:    make(map[*client]struct{}),
	}
}

func (h *Hub) Register(r *gin.RouterGroup) {
	r.GET("/ws/positions", h.Handle)
}

func (h *Hub) Handle(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	cl := &client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		selection: service.NewSelection(h.index),
	}
	h.add(cl)

	go cl.writePump()
	go cl.readPump()

	cl.push(h.store.Snapshot())
}

// Run broadcasts a snapshot whenever the store changed since the last one.
func (h *Hub) Run(ctx context.Context) {
	t := time.NewTicker(h.interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-t.C:
			h.broadcastIfChanged()
		}
	}
}

func (h *Hub) broadcastIfChanged() bool {
	v := h.store.Version()

	h.mu.Lock()
	if v == h.lastVersion {
		h.mu.Unlock()
		return false
	}
	h.lastVersion = v
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	snapshot := h.store.Snapshot()
	for _, c := range clients {
		c.push(snapshot)
	}
	return true
}

func (h *Hub) add(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *Hub) clientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

type client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	selection *service.Selection
}

// push renders the snapshot with this client's selection. A client whose
// buffer is full is dropped.
func (c *client) push(snapshot []domain.Vehicle) {
	sel := c.selection.Current()
	msg := snapshotMessage{
		Type:      "snapshot",
		Vehicles:  toVehicleViews(snapshot),
		Selection: toSelectionView(sel, c.hub.aggregator.AggregateSelection(sel, snapshot)),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws marshal error: %v", err)
		return
	}

	c.hub.mu.Lock()
	defer c.hub.mu.Unlock()
	if _, ok := c.hub.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
		log.Printf("ws client too slow, dropping")
		delete(c.hub.clients, c)
		close(c.send)
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.remove(c)
		_ = c.conn.Close()
	}()

	for {
		var in inboundMessage
		if err := c.conn.ReadJSON(&in); err != nil {
			return
		}
		if c.apply(in) {
			c.push(c.hub.store.Snapshot())
		}
	}
}

func (c *client) writePump() {
	defer func() { _ = c.conn.Close() }()

	for data := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// apply feeds a map gesture into the selection and reports whether the client
// should get a fresh snapshot.
func (c *client) apply(in inboundMessage) bool {
	p := domain.LatLng{Lat: in.Lat, Lng: in.Lng}
	switch in.Type {
	case "drag_start":
		c.selection.BeginDrag(p)
	case "drag_move":
		c.selection.MoveDrag(p)
		return false
	case "drag_end":
		c.selection.EndDrag(p)
	case "click":
		c.selection.Click(p, in.Zoom)
	case "clear":
		c.selection.Clear()
	default:
		log.Printf("ws unknown message type %q", in.Type)
		return false
	}
	return true
}
