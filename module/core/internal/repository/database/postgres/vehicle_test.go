package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
)

var vehicleRowColumns = []string{"id", "sido", "station", "type", "call_sign", "capacity", "personnel", "avl_number", "ps_lte_number", "status", "rally_point"}

func TestVehicleList_Success(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	rows := sqlmock.NewRows(vehicleRowColumns).
		AddRow("V1", "서울", "종로소방서", "펌프", "종로펌프1", 3000, 4, "AVL-1", "LTE-1", "standby", false).
		AddRow("V2", "부산", "해운대소방서", "구급", "해운대구급1", 0, 3, "AVL-2", "LTE-2", "en-route", true)
	mock.ExpectQuery(`SELECT id, sido, station, type, call_sign, capacity, personnel, avl_number, ps_lte_number, status, rally_point FROM vehicles ORDER BY id`).
		WillReturnRows(rows)

	results, err := NewVehicleRepo(db).List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 vehicles, got %d", len(results))
	}
	if results[1].Status != domain.StatusEnRoute || !results[1].RallyPoint {
		t.Errorf("unexpected vehicle %+v", results[1])
	}
	if _, ok := results[0].Position.(domain.Unlocated); !ok {
		t.Errorf("registry rows must be unlocated, got %T", results[0].Position)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVehicleUpsert_Transaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO vehicles`).
		WithArgs("V1", "서울", "종로소방서", "펌프", "종로펌프1", 3000, 4, "AVL-1", "LTE-1", "standby", false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO vehicles`).
		WithArgs("V2", "", "", "", "", 0, 0, "", "", "active", true).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err = NewVehicleRepo(db).Upsert(context.Background(), []domain.Vehicle{
		{ID: "V1", Sido: "서울", Station: "종로소방서", Type: "펌프", CallSign: "종로펌프1", Capacity: 3000, Personnel: 4,
			AVLNumber: "AVL-1", PSLTENumber: "LTE-1", Status: domain.StatusStandby},
		{ID: "V2", Status: domain.StatusActive, RallyPoint: true},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVehicleUpsert_RollbackOnError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO vehicles`).WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	err = NewVehicleRepo(db).Upsert(context.Background(), []domain.Vehicle{{ID: "V1", Status: domain.StatusStandby}})
	if err == nil {
		t.Fatal("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVehicleUpdateStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`UPDATE vehicles SET status = (.+) WHERE id = (.+)`).
		WithArgs("en-route", "V1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE vehicles SET status = (.+) WHERE id = (.+)`).
		WithArgs("standby", "NOPE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewVehicleRepo(db)
	if err := repo.UpdateStatus(context.Background(), "V1", domain.StatusEnRoute); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.UpdateStatus(context.Background(), "NOPE", domain.StatusStandby); !errors.Is(err, domain.ErrVehicleNotFound) {
		t.Fatalf("expected ErrVehicleNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestVehicleUpdateRally(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = db.Close() }()

	mock.ExpectExec(`UPDATE vehicles SET rally_point = (.+) WHERE id = (.+)`).
		WithArgs(true, "V1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := NewVehicleRepo(db).UpdateRally(context.Background(), "V1", true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
