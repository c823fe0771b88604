package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/service"
)

func testIndex() *service.BoundaryIndex {
	jongno := domain.BoundaryPolygon{
		Name: "종로구",
		Tier: domain.TierDistrict,
		Rings: []domain.Ring{{
			{Lat: 37.5, Lng: 126.9},
			{Lat: 37.5, Lng: 127.0},
			{Lat: 37.6, Lng: 127.0},
			{Lat: 37.6, Lng: 126.9},
		}},
	}
	return service.NewBoundaryIndex([]domain.BoundaryPolygon{jongno}, nil, 9)
}

func setupHub(t *testing.T) (*Hub, *service.PositionStore, *websocket.Conn) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := service.NewPositionStore()
	store.Register([]domain.Vehicle{
		{ID: "v1", CallSign: "종로펌프1", Status: domain.StatusStandby},
		{ID: "v2", CallSign: "중구탱크1", Status: domain.StatusStandby},
	})
	store.UpsertPosition("v1", 37.55, 126.95, time.UnixMilli(1_000))

	hub := NewHub(store, testIndex(), service.NewRegionAggregator(), time.Hour)
	r := gin.New()
	hub.Register(&r.RouterGroup)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/positions"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return hub, store, conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) snapshotMessage {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg snapshotMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	return msg
}

func TestHub_InitialSnapshot(t *testing.T) {
	_, _, conn := setupHub(t)

	msg := readSnapshot(t, conn)
	if msg.Type != "snapshot" {
		t.Errorf("expected snapshot, got %q", msg.Type)
	}
	if len(msg.Vehicles) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(msg.Vehicles))
	}
	if msg.Vehicles[0].Lat == nil || *msg.Vehicles[0].Lat != 37.55 {
		t.Errorf("expected v1 located, got %+v", msg.Vehicles[0])
	}
	if msg.Vehicles[1].Lat != nil {
		t.Errorf("expected v2 unlocated, got %+v", msg.Vehicles[1])
	}
	if msg.Selection.Kind != domain.SelectionNone || msg.Selection.Count != 0 {
		t.Errorf("expected empty selection, got %+v", msg.Selection)
	}
}

func TestHub_DragSelection(t *testing.T) {
	_, _, conn := setupHub(t)
	readSnapshot(t, conn)

	if err := conn.WriteJSON(inboundMessage{Type: "drag_start", Lat: 37.5, Lng: 126.9}); err != nil {
		t.Fatalf("write: %v", err)
	}
	msg := readSnapshot(t, conn)
	if msg.Selection.Kind != domain.SelectionRectangle || msg.Selection.Count != 0 {
		t.Errorf("expected zero-area rectangle, got %+v", msg.Selection)
	}

	_ = conn.WriteJSON(inboundMessage{Type: "drag_move", Lat: 37.52, Lng: 126.92})
	_ = conn.WriteJSON(inboundMessage{Type: "drag_end", Lat: 37.6, Lng: 127.0})

	msg = readSnapshot(t, conn)
	if msg.Selection.Count != 1 || len(msg.Selection.VehicleIDs) != 1 || msg.Selection.VehicleIDs[0] != "v1" {
		t.Errorf("expected v1 selected, got %+v", msg.Selection)
	}
}

func TestHub_ClickAndClear(t *testing.T) {
	_, _, conn := setupHub(t)
	readSnapshot(t, conn)

	_ = conn.WriteJSON(inboundMessage{Type: "click", Lat: 37.55, Lng: 126.95, Zoom: 5})
	msg := readSnapshot(t, conn)
	if msg.Selection.Kind != domain.SelectionPolygon || msg.Selection.Region != "종로구" {
		t.Fatalf("expected 종로구 polygon, got %+v", msg.Selection)
	}
	if msg.Selection.Count != 1 {
		t.Errorf("expected 1 vehicle, got %d", msg.Selection.Count)
	}

	_ = conn.WriteJSON(inboundMessage{Type: "clear"})
	msg = readSnapshot(t, conn)
	if msg.Selection.Kind != domain.SelectionNone {
		t.Errorf("expected cleared selection, got %+v", msg.Selection)
	}
}

func TestHub_BroadcastOnlyOnChange(t *testing.T) {
	hub, store, conn := setupHub(t)
	readSnapshot(t, conn)

	hub.broadcastIfChanged()
	if hub.broadcastIfChanged() {
		t.Error("expected no broadcast without a store change")
	}

	store.UpsertPosition("v2", 37.56, 126.96, time.UnixMilli(2_000))
	if !hub.broadcastIfChanged() {
		t.Fatal("expected broadcast after upsert")
	}

	// the first call above may have sent the registration state
	for i := 0; i < 2; i++ {
		msg := readSnapshot(t, conn)
		if msg.Vehicles[1].Lat != nil {
			return
		}
	}
	t.Error("expected a snapshot with v2 located")
}

func TestHub_UnknownMessageKeepsConnection(t *testing.T) {
	hub, _, conn := setupHub(t)
	readSnapshot(t, conn)

	_ = conn.WriteJSON(inboundMessage{Type: "zoom"})
	_ = conn.WriteJSON(inboundMessage{Type: "clear"})
	readSnapshot(t, conn)

	if hub.clientCount() != 1 {
		t.Errorf("expected 1 client, got %d", hub.clientCount())
	}
}
