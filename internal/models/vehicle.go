package models

import "time"

type Vehicle struct {
	ID           string    `json:"id" db:"id" bson:"id"`
	CustomerID   string    `json:"customerId" db:"customer_id" bson:"customerId"`
	Make         string    `json:"make" db:"make" bson:"make"`
	Model        string    `json:"model" db:"model" bson:"model"`
	Year         string    `json:"year" db:"year" bson:"year"`
	LicensePlate string    `json:"licensePlate" db:"license_plate" bson:"licensePlate"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// VehicleSnapshot is the copy of a vehicle embedded in an invoice at creation time.
type VehicleSnapshot struct {
	ID           string `json:"id" bson:"id"`
	Make         string `json:"make" bson:"make"`
	Model        string `json:"model" bson:"model"`
	Year         string `json:"year" bson:"year"`
	LicensePlate string `json:"licensePlate" bson:"licensePlate"`
}

func (v *Vehicle) Snapshot() VehicleSnapshot {
	return VehicleSnapshot{
		ID:           v.ID,
		Make:         v.Make,
		Model:        v.Model,
		Year:         v.Year,
		LicensePlate: v.LicensePlate,
	}
}

type CreateVehicleData struct {
	CustomerID   string `json:"customerId" validate:"required"`
	Make         string `json:"make" validate:"required"`
	Model        string `json:"model" validate:"required"`
	Year         string `json:"year"`
	LicensePlate string `json:"licensePlate" validate:"required"`
}

type UpdateVehicleData struct {
	CustomerID   *string `json:"customerId,omitempty" validate:"omitempty,min=1"`
	Make         *string `json:"make,omitempty" validate:"omitempty,min=1"`
	Model        *string `json:"model,omitempty" validate:"omitempty,min=1"`
	Year         *string `json:"year,omitempty"`
	LicensePlate *string `json:"licensePlate,omitempty" validate:"omitempty,min=1"`
}

func (d UpdateVehicleData) Apply(v *Vehicle) {
	if d.CustomerID != nil {
		v.CustomerID = *d.CustomerID
	}
	if d.Make != nil {
		v.Make = *d.Make
	}
	if d.Model != nil {
		v.Model = *d.Model
	}
	if d.Year != nil {
		v.Year = *d.Year
	}
	if d.LicensePlate != nil {
		v.LicensePlate = *d.LicensePlate
	}
}
