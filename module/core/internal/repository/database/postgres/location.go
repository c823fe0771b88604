package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/database"
)

var _ database.LocationRepository = (*LocationRepo)(nil)

const locationColumns = `vehicle_id, latitude, longitude, timestamp`

// LocationRepo is the append-only history of accepted live positions.
type LocationRepo struct {
	db *sql.DB
}

func NewLocationRepo(db *sql.DB) *LocationRepo {
	return &LocationRepo{db: db}
}

func (r *LocationRepo) Insert(ctx context.Context, loc *domain.VehicleLocation) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO vehicle_locations (`+locationColumns+`) VALUES ($1, $2, $3, $4)`,
		loc.VehicleID, loc.Location.Lat, loc.Location.Lon, loc.Location.Timestamp.UTC(),
	)
	return err
}

// GetLatest returns domain.ErrPositionNotAvailable for a vehicle that never
// reported.
func (r *LocationRepo) GetLatest(ctx context.Context, vehicleID string) (*domain.VehicleLocation, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM vehicle_locations WHERE vehicle_id = $1 ORDER BY timestamp DESC LIMIT 1`,
		vehicleID,
	)

	vl, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPositionNotAvailable
	}
	if err != nil {
		return nil, err
	}
	return vl, nil
}

func (r *LocationRepo) GetHistory(ctx context.Context, query *domain.HistoryQuery) ([]domain.VehicleLocation, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM vehicle_locations WHERE vehicle_id = $1 AND timestamp >= $2 AND timestamp <= $3 ORDER BY timestamp ASC`,
		query.VehicleID, query.Start.UTC(), query.End.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := []domain.VehicleLocation{}
	for rows.Next() {
		vl, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *vl)
	}
	return results, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLocation(s scanner) (*domain.VehicleLocation, error) {
	var vl domain.VehicleLocation
	if err := s.Scan(&vl.VehicleID, &vl.Location.Lat, &vl.Location.Lon, &vl.Location.Timestamp); err != nil {
		return nil, err
	}
	return &vl, nil
}
