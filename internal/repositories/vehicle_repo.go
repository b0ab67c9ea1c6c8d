package repositories

import (
	"context"
	"errors"

	"garagepro/internal/common"
	"garagepro/internal/models"

	"github.com/jackc/pgx/v5"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *models.Vehicle) error
	GetByID(ctx context.Context, id string) (*models.Vehicle, error)
	Update(ctx context.Context, vehicle *models.Vehicle) error
	Delete(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]*models.Vehicle, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*models.Vehicle, error)
}

type vehicleRepo struct {
	db Database
}

func NewVehicleRepo(db Database) VehicleRepository {
	return &vehicleRepo{db: db}
}

const vehicleColumns = `id, customer_id, make, model, year, license_plate, created_at, updated_at`

func scanVehicle(row pgx.Row) (*models.Vehicle, error) {
	vehicle := &models.Vehicle{}
	err := row.Scan(&vehicle.ID, &vehicle.CustomerID, &vehicle.Make, &vehicle.Model, &vehicle.Year, &vehicle.LicensePlate, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (r *vehicleRepo) Create(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, customer_id, make, model, year, license_plate, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.Exec(ctx, query, vehicle.ID, vehicle.CustomerID, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.LicensePlate, vehicle.CreatedAt, vehicle.UpdatedAt)
	if err != nil {
		return mapPgError("insert vehicle", err)
	}
	return nil
}

func (r *vehicleRepo) GetByID(ctx context.Context, id string) (*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	vehicle, err := scanVehicle(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.NewNotFoundError("Vehicle")
	}
	if err != nil {
		return nil, mapPgError("select vehicle", err)
	}
	return vehicle, nil
}

func (r *vehicleRepo) Update(ctx context.Context, vehicle *models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET customer_id = $1, make = $2, model = $3, year = $4, license_plate = $5, updated_at = $6
		WHERE id = $7
	`
	tag, err := r.db.Exec(ctx, query, vehicle.CustomerID, vehicle.Make, vehicle.Model, vehicle.Year, vehicle.LicensePlate, vehicle.UpdatedAt, vehicle.ID)
	if err != nil {
		return mapPgError("update vehicle", err)
	}
	if tag.RowsAffected() == 0 {
		return common.NewNotFoundError("Vehicle")
	}
	return nil
}

func (r *vehicleRepo) Delete(ctx context.Context, id string) (bool, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return false, mapPgError("delete vehicle", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *vehicleRepo) List(ctx context.Context) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles ORDER BY created_at DESC`
	return r.query(ctx, query)
}

func (r *vehicleRepo) ListByCustomer(ctx context.Context, customerID string) ([]*models.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE customer_id = $1 ORDER BY created_at DESC`
	return r.query(ctx, query, customerID)
}

func (r *vehicleRepo) query(ctx context.Context, query string, args ...interface{}) ([]*models.Vehicle, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError("list vehicles", err)
	}
	defer rows.Close()

	vehicles := make([]*models.Vehicle, 0)
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, mapPgError("scan vehicle", err)
		}
		vehicles = append(vehicles, vehicle)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError("list vehicles", err)
	}
	return vehicles, nil
}
