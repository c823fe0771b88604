package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FireFighterProject/fire-dispatch/module/core/domain"
	"github.com/FireFighterProject/fire-dispatch/module/core/internal/repository/database"
)

var _ database.VehicleRepository = (*VehicleRepo)(nil)

const vehicleColumns = `id, sido, station, type, call_sign, capacity, personnel, avl_number, ps_lte_number, status, rally_point`

// VehicleRepo stores the vehicle registry. Positions live in
// vehicle_locations, never here.
type VehicleRepo struct {
	db *sql.DB
}

func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

func (r *VehicleRepo) List(ctx context.Context) ([]domain.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var results []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		var status string
		if err := rows.Scan(&v.ID, &v.Sido, &v.Station, &v.Type, &v.CallSign, &v.Capacity, &v.Personnel,
			&v.AVLNumber, &v.PSLTENumber, &status, &v.RallyPoint); err != nil {
			return nil, err
		}
		v.Status = domain.Status(status)
		v.Position = domain.Unlocated{}
		results = append(results, v)
	}
	return results, rows.Err()
}

// Upsert writes the batch in one transaction.
func (r *VehicleRepo) Upsert(ctx context.Context, vehicles []domain.Vehicle) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, v := range vehicles {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO vehicles (`+vehicleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET sido = EXCLUDED.sido, station = EXCLUDED.station, type = EXCLUDED.type,
			call_sign = EXCLUDED.call_sign, capacity = EXCLUDED.capacity, personnel = EXCLUDED.personnel,
			avl_number = EXCLUDED.avl_number, ps_lte_number = EXCLUDED.ps_lte_number,
			status = EXCLUDED.status, rally_point = EXCLUDED.rally_point`,
			v.ID, v.Sido, v.Station, v.Type, v.CallSign, v.Capacity, v.Personnel,
			v.AVLNumber, v.PSLTENumber, string(v.Status), v.RallyPoint,
		)
		if err != nil {
			return fmt.Errorf("upsert vehicle %s: %w", v.ID, err)
		}
	}
	return tx.Commit()
}

func (r *VehicleRepo) UpdateStatus(ctx context.Context, vehicleID string, status domain.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET status = $1 WHERE id = $2`, string(status), vehicleID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *VehicleRepo) UpdateRally(ctx context.Context, vehicleID string, rally bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE vehicles SET rally_point = $1 WHERE id = $2`, rally, vehicleID)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrVehicleNotFound
	}
	return nil
}
