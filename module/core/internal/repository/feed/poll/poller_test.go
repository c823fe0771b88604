package poll

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type mockIngester struct {
	ingestFn func(ctx context.Context, vl *domain.VehicleLocation) (bool, error)
	got      []*domain.VehicleLocation
}

func (m *mockIngester) Ingest(ctx context.Context, vl *domain.VehicleLocation) (bool, error) {
	m.got = append(m.got, vl)
	if m.ingestFn != nil {
		return m.ingestFn(ctx, vl)
	}
	return true, nil
}

func feedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestTick(t *testing.T) {
	srv := feedServer(t, http.StatusOK, `[
		{"vehicleId": "V1", "latitude": 37.57, "longitude": 126.99, "timestamp": 1715003456789},
		{"vehicleId": "", "latitude": 37.57, "longitude": 126.99, "timestamp": 1715003456789},
		{"vehicleId": "V2", "latitude": 137.0, "longitude": 126.99, "timestamp": 1715003456789},
		{"vehicleId": "V3", "latitude": 35.1, "longitude": 129.0, "timestamp": 1715003456000}
	]`)

	ing := &mockIngester{
		ingestFn: func(ctx context.Context, vl *domain.VehicleLocation) (bool, error) {
			return vl.VehicleID == "V1", nil
		},
	}
	p := NewPoller(srv.URL, time.Second, ing)

	n, err := p.Tick(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 applied, got %d", n)
	}
	if len(ing.got) != 2 {
		t.Fatalf("expected invalid reports skipped, got %d ingested", len(ing.got))
	}
	if !ing.got[0].Location.Timestamp.Equal(time.UnixMilli(1715003456789)) {
		t.Errorf("expected epoch ms timestamp, got %v", ing.got[0].Location.Timestamp)
	}
}

func TestTick_IngestErrorContinues(t *testing.T) {
	srv := feedServer(t, http.StatusOK, `[
		{"vehicleId": "V1", "latitude": 37.57, "longitude": 126.99, "timestamp": 1},
		{"vehicleId": "V2", "latitude": 37.57, "longitude": 126.99, "timestamp": 2}
	]`)
	ing := &mockIngester{
		ingestFn: func(ctx context.Context, vl *domain.VehicleLocation) (bool, error) {
			if vl.VehicleID == "V1" {
				return false, errors.New("db down")
			}
			return true, nil
		},
	}

	n, err := NewPoller(srv.URL, time.Second, ing).Tick(context.Background())
	if err != nil || n != 1 {
		t.Errorf("expected 1 applied without error, got %d, %v", n, err)
	}
}

func TestTick_FetchErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"bad status", http.StatusBadGateway, ``},
		{"bad json", http.StatusOK, `[{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := feedServer(t, tt.status, tt.body)
			if _, err := NewPoller(srv.URL, time.Second, &mockIngester{}).Tick(context.Background()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	srv := feedServer(t, http.StatusOK, `[]`)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewPoller(srv.URL, time.Hour, &mockIngester{}).Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}
}
