package service

import (
	"context"
	"errors"
	"testing"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

type mockLocationSaver struct {
	saveLocationFn func(ctx context.Context, vl *domain.VehicleLocation) (bool, error)
}

func (m *mockLocationSaver) SaveLocation(ctx context.Context, vl *domain.VehicleLocation) (bool, error) {
	return m.saveLocationFn(ctx, vl)
}

type mockRegionChecker struct {
	calls int
	err   error
}

func (m *mockRegionChecker) CheckAndAlert(ctx context.Context, vl *domain.VehicleLocation) error {
	m.calls++
	return m.err
}

func TestIngest(t *testing.T) {
	tests := []struct {
		name        string
		applied     bool
		saveErr     error
		checkErr    error
		wantApplied bool
		wantErr     bool
		wantChecks  int
	}{
		{"accepted", true, nil, nil, true, false, 1},
		{"stale", false, nil, nil, false, false, 0},
		{"save error", true, errors.New("db down"), nil, true, true, 0},
		{"region error only logged", true, nil, errors.New("amqp down"), true, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saver := &mockLocationSaver{
				saveLocationFn: func(ctx context.Context, vl *domain.VehicleLocation) (bool, error) {
					return tt.applied, tt.saveErr
				},
			}
			checker := &mockRegionChecker{err: tt.checkErr}
			svc := NewIngestService(saver, checker)

			applied, err := svc.Ingest(context.Background(), newVehicleLocation("V1", 37.5, 127.0, 100))
			if applied != tt.wantApplied {
				t.Errorf("expected applied=%v, got %v", tt.wantApplied, applied)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("unexpected error state: %v", err)
			}
			if checker.calls != tt.wantChecks {
				t.Errorf("expected %d region checks, got %d", tt.wantChecks, checker.calls)
			}
		})
	}
}
